package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relabs-tech/drawing_board/internal/pointfile"
)

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Print point count and bounding box of a point file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			points, err := pointfile.Store{}.Read(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s: %d points\n", args[0], len(points))
			if len(points) == 0 {
				return nil
			}

			minX, minY := points[0].X, points[0].Y
			maxX, maxY := minX, minY
			for _, p := range points[1:] {
				if p.X < minX {
					minX = p.X
				}
				if p.X > maxX {
					maxX = p.X
				}
				if p.Y < minY {
					minY = p.Y
				}
				if p.Y > maxY {
					maxY = p.Y
				}
			}
			fmt.Printf("bounds: x [%d, %d], y [%d, %d]\n", minX, maxX, minY, maxY)
			return nil
		},
	}
}
