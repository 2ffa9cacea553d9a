package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newAffectedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "affected [unit]",
		Short: "List the units that must rebuild after a change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			external, _ := cmd.Flags().GetString("external")

			if len(args) == 0 && external == "" {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}

			var units []string
			var err error
			if external != "" {
				units, err = c.app.AffectedByExternal(cmd.Context(), snapshotRoot(cmd), external)
			} else {
				units, err = c.app.Affected(cmd.Context(), snapshotRoot(cmd), args[0])
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, unit := range units {
				_, _ = fmt.Fprintln(out, unit)
			}
			return nil
		},
	}
	cmd.Flags().StringP("external", "e", "", "Treat the named external dependency as changed instead of a unit")
	return cmd
}
