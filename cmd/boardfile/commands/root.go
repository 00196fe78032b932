// Package commands implements the boardfile CLI: offline inspection and
// cleanup of saved point files, without a rig or a broker.
package commands

import (
	"github.com/spf13/cobra"
)

func Execute() error {
	root := &cobra.Command{
		Use:   "boardfile",
		Short: "Inspect and rework saved drawing-board point files",
	}

	root.AddCommand(infoCmd(), filterCmd(), mergeCmd())
	return root.Execute()
}
