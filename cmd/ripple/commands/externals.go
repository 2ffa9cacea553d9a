package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newExternalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "externals",
		Short: "List every external dependency the graph tracks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names, err := c.app.Externals(cmd.Context(), snapshotRoot(cmd))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, name := range names {
				_, _ = fmt.Fprintln(out, name)
			}
			return nil
		},
	}
}
