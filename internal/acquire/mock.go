// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package acquire

import (
	"fmt"
	"math"
	"time"

	"github.com/relabs-tech/drawing_board/internal/geometry"
)

type mockSource struct {
	model geometry.Model
	start time.Time
}

// NewMockSource creates a mock rig that traces a smooth closed figure over
// the workspace, emitting the distance pairs a real rig would report.
func NewMockSource(model geometry.Model) Source {
	return &mockSource{model: model, start: time.Now()}
}

func (m *mockSource) Next() (string, error) {
	elapsed := time.Since(m.start).Seconds()

	cx := float64(m.model.Length) / 2
	cy := float64(m.model.Breadth) / 2
	x := cx + 0.35*float64(m.model.Length)*math.Cos(elapsed)
	y := cy + 0.35*float64(m.model.Breadth)*math.Sin(0.7*elapsed)

	d := m.model.DistancesTo(x, y)
	return fmt.Sprintf("%d,%d,", d.DL, d.DB), nil
}

func (m *mockSource) Close() error { return nil }
