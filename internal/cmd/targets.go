package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pmadden/ember/internal/ui"
)

// NewTargetsCommand creates the targets subcommand.
func NewTargetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List buildable firmware targets in this workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, cfg, err := loadWorkspace()
			if err != nil {
				return err
			}

			targets := ws.Targets()
			if len(targets) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.DimStyle.Render("no targets found"))
				return nil
			}

			for _, t := range targets {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s %s\n",
					ui.BoldStyle.Render(t.Name),
					ui.DimStyle.Render(t.Path),
					ui.DimStyle.Render("("+cfg.ModeFor(t.Name)+")"))
			}
			return nil
		},
	}
}
