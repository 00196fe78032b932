package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relabs-tech/drawing_board/internal/board"
	"github.com/relabs-tech/drawing_board/internal/pointfile"
)

func mergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge <out> <in>...",
		Short: "Concatenate point files into one, preserving row order",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := pointfile.Store{}

			var all []board.Coordinate
			for _, name := range args[1:] {
				points, err := store.Read(name)
				if err != nil {
					return err
				}
				all = append(all, points...)
			}

			if err := store.Write(args[0], all); err != nil {
				return err
			}
			fmt.Printf("wrote %d points to %s\n", len(all), args[0])
			return nil
		},
	}
}
