// Package cmd wires the ember command-line interface.
package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/pmadden/ember/internal/config"
	"github.com/pmadden/ember/internal/project"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for ember.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ember",
		Short: "Build, flash and monitor firmware for RA-series boards",
		Long: `Ember drives the firmware deployment workflow for a Renesas RA board:
compile with cargo, convert to Intel HEX, and program the device with
rfp-cli over a debug probe (SWD) or the USB serial bootloader.

A session runs sequentially with no retries; killing ember while the
device is being programmed can leave it half-flashed.`,
		Version: Version,
		// Errors are rendered by main with their exit-code mapping;
		// suppress cobra's own printing.
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewBuildCommand())
	cmd.AddCommand(NewFlashCommand())
	cmd.AddCommand(NewFlashBootloaderCommand())
	cmd.AddCommand(NewTargetsCommand())
	cmd.AddCommand(NewPortsCommand())
	cmd.AddCommand(NewMonitorCommand())
	cmd.AddCommand(NewCanCommand())
	cmd.AddCommand(NewConfigCommand())

	return cmd
}

// loadWorkspace resolves the firmware workspace from the current directory
// and its layered configuration.
func loadWorkspace() (*project.Workspace, config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, config.Config{}, err
	}

	ws := project.Detect(cwd)
	if ws == nil {
		return nil, config.Config{}, errors.New("not in a firmware workspace (no Cargo.toml found)")
	}

	return ws, config.Load(ws.Root), nil
}
