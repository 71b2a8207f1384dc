package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pmadden/ember/internal/build"
	"github.com/pmadden/ember/internal/config"
	"github.com/pmadden/ember/internal/flash"
	"github.com/pmadden/ember/internal/project"
	"github.com/pmadden/ember/internal/report"
	"github.com/pmadden/ember/internal/run"
	"github.com/pmadden/ember/internal/transport"
)

// transportFlags binds the --usb/--debug-probe flag pair.
type transportFlags struct {
	usb   bool
	probe bool
}

func (f *transportFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.usb, "usb", false, "flash over the USB serial bootloader (default)")
	cmd.Flags().BoolVar(&f.probe, "debug-probe", false, "flash over the SWD debug probe (needs root)")
	cmd.MarkFlagsMutuallyExclusive("usb", "debug-probe")
}

func (f *transportFlags) mode() transport.Mode {
	if f.probe {
		return transport.ModeDebugProbe
	}
	return transport.ModeUSB
}

// newSession assembles the full pipeline for the detected workspace.
func newSession(ws *project.Workspace, cfg config.Config) *flash.Session {
	runner := &run.ExecRunner{Dir: ws.Root}
	builder := build.NewBuilder(runner, ws.Root, cfg.TargetTriple, cfg.Objcopy)
	selector := &transport.Selector{
		Family:    cfg.DeviceFamily,
		ProbeTool: cfg.ProbeTool,
		Port:      cfg.SerialPort,
	}
	programmer := flash.NewProgrammer(runner, cfg.FlashTool)
	return flash.NewSession(builder, selector, programmer)
}

// NewFlashCommand creates the flash subcommand.
func NewFlashCommand() *cobra.Command {
	var tf transportFlags
	var modeFlag string

	cmd := &cobra.Command{
		Use:   "flash <target> [--usb|--debug-probe]",
		Short: "Build a firmware target and program it onto the board",
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

			session := newSession(ws, cfg)
			res, err := session.Run(cmd.Context(), target, mode, tf.mode())
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), res.Output)
			fmt.Fprintln(cmd.OutOrStdout(), report.Flashed(res))
			return nil
		},
	}

	tf.register(cmd)
	cmd.Flags().StringVar(&modeFlag, "mode", "", "build mode: release or debug (default from config)")

	return cmd
}

// NewFlashBootloaderCommand creates the flash-bootloader subcommand, which
// programs the configured bootloader image without building anything.
func NewFlashBootloaderCommand() *cobra.Command {
	var tf transportFlags

	cmd := &cobra.Command{
		Use:   "flash-bootloader [--usb|--debug-probe]",
		Short: "Program the configured bootloader image onto the board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, cfg, err := loadWorkspace()
			if err != nil {
				return err
			}
			if cfg.BootloaderHex == "" {
				return errors.New("no bootloader image configured (set bootloader_hex in .ember/config.json)")
			}
			// A relative image path is workspace-relative, matching how the
			// flash tool resolves it when run with Dir set to the root.
			hexPath := cfg.BootloaderHex
			if !filepath.IsAbs(hexPath) {
				hexPath = filepath.Join(ws.Root, hexPath)
			}

			session := newSession(ws, cfg)
			res, err := session.RunImage(cmd.Context(), hexPath, tf.mode())
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), res.Output)
			fmt.Fprintln(cmd.OutOrStdout(), report.Flashed(res))
			return nil
		},
	}

	tf.register(cmd)

	return cmd
}
