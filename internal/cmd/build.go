package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pmadden/ember/internal/build"
	"github.com/pmadden/ember/internal/report"
	"github.com/pmadden/ember/internal/run"
)

// NewBuildCommand creates the build subcommand.
func NewBuildCommand() *cobra.Command {
	var modeFlag string

	cmd := &cobra.Command{
		Use:   "build <target>",
		Short: "Compile a firmware target and convert it to Intel HEX",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]

			ws, cfg, err := loadWorkspace()
			if err != nil {
				return err
			}
			if !ws.HasTarget(target) {
				return fmt.Errorf("unknown target %q (run 'ember targets' to list targets)", target)
			}

			modeStr := cfg.ModeFor(target)
			if modeFlag != "" {
				modeStr = modeFlag
			}
			mode, err := build.ParseMode(modeStr)
			if err != nil {
				return err
			}

			builder := build.NewBuilder(
				&run.ExecRunner{Dir: ws.Root},
				ws.Root, cfg.TargetTriple, cfg.Objcopy,
			)

			art, err := builder.Build(cmd.Context(), target, mode)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), art.Output)
			fmt.Fprintln(cmd.OutOrStdout(), report.Built(art))
			return nil
		},
	}

	cmd.Flags().StringVar(&modeFlag, "mode", "", "build mode: release or debug (default from config)")

	return cmd
}
