package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pmadden/ember/internal/config"
)

// NewConfigCommand creates the config subcommand group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage ember configuration",
	}

	cmd.AddCommand(newConfigInitCommand())

	return cmd
}

// newConfigInitCommand writes the effective (merged) configuration back out
// as a starting point for editing.
func newConfigInitCommand() *cobra.Command {
	var global bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to .ember/config.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, cfg, err := loadWorkspace()
			if err != nil {
				return err
			}

			if err := config.Save(cfg, ws.Root, global); err != nil {
				return err
			}

			path := filepath.Join(ws.Root, ".ember", "config.json")
			if global {
				path = "~/.config/ember/config.json"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "write to ~/.config/ember/config.json instead of the workspace")

	return cmd
}
