package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relabs-tech/drawing_board/internal/cluster"
	"github.com/relabs-tech/drawing_board/internal/pointfile"
)

func filterCmd() *cobra.Command {
	var (
		eps        float64
		minSamples int
	)

	cmd := &cobra.Command{
		Use:   "filter <in> <out>",
		Short: "Drop density outliers from a point file",
		Long: "Applies the same DBSCAN labeling the live session uses and writes " +
			"the surviving points to a new file.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := pointfile.Store{}
			points, err := store.Read(args[0])
			if err != nil {
				return err
			}

			kept := cluster.DBSCAN{Eps: eps, MinSamples: minSamples}.Inliers(points)
			if err := store.Write(args[1], kept); err != nil {
				return err
			}
			fmt.Printf("%d points in, %d kept, %d dropped\n",
				len(points), len(kept), len(points)-len(kept))
			return nil
		},
	}

	cmd.Flags().Float64Var(&eps, "eps", 10, "neighborhood radius")
	cmd.Flags().IntVar(&minSamples, "min-samples", 4, "minimum ball population for a core point")
	return cmd
}
