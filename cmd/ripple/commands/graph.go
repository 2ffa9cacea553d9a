package commands

import (
	"os"

	"github.com/spf13/cobra"
)

func (c *CLI) newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the dependency graph in Graphviz DOT format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			output, _ := cmd.Flags().GetString("output")

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output) //nolint:gosec // output path comes from the user's own flag
				if err != nil {
					return err
				}
				defer f.Close() //nolint:errcheck // Best effort close in defer
				w = f
			}

			return c.app.RenderGraph(cmd.Context(), snapshotRoot(cmd), w)
		},
	}
	cmd.Flags().StringP("output", "o", "", "Write the rendering to a file instead of stdout")
	return cmd
}
