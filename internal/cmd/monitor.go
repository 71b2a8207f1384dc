package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pmadden/ember/internal/config"
	"github.com/pmadden/ember/internal/project"
	"github.com/pmadden/ember/internal/serial"
	"github.com/pmadden/ember/internal/tui"
)

// NewMonitorCommand creates the monitor subcommand.
func NewMonitorCommand() *cobra.Command {
	var portFlag string
	var baudFlag int
	var logFlag string

	cmd := &cobra.Command{
		Use:   "monitor [--port PATH] [--baud N] [--log FILE]",
		Short: "Open an interactive serial console to the board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The monitor works outside a workspace too; fall back to
			// global config and defaults there.
			cfg := config.Defaults()
			if cwd, err := os.Getwd(); err == nil {
				if ws := project.Detect(cwd); ws != nil {
					cfg = config.Load(ws.Root)
				} else {
					cfg = config.Load("")
				}
			}

			port := cfg.SerialPort
			if portFlag != "" {
				port = portFlag
			}
			if _, err := os.Stat(port); err != nil {
				// Configured port is gone; try the first attached USB port.
				if detected := serial.FirstUSBPort(); detected != "" {
					port = detected
				}
			}

			baud := cfg.SerialBaudRate
			if baudFlag != 0 {
				baud = baudFlag
			}

			mon := serial.NewMonitor(port, baud)
			if logFlag != "" {
				f, err := os.OpenFile(logFlag, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer f.Close()
				mon.SetLog(f)
			}

			p := tea.NewProgram(tui.NewMonitor(mon), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("monitor: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&portFlag, "port", "", "serial port path (default from config)")
	cmd.Flags().IntVar(&baudFlag, "baud", 0, "baud rate (default from config)")
	cmd.Flags().StringVar(&logFlag, "log", "", "append raw serial traffic to a file")

	return cmd
}
