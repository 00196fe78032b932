package main

import (
	"fmt"
	"os"

	"github.com/relabs-tech/drawing_board/cmd/boardfile/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
