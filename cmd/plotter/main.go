// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"log"

	"github.com/relabs-tech/drawing_board/internal/app"
	"github.com/relabs-tech/drawing_board/internal/config"
)

func main() {
	log.Println("starting drawing-board plotter (rig → MQTT)")

	if err := config.InitGlobal("board_config.txt"); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunPlotter(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
