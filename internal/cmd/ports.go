package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pmadden/ember/internal/serial"
	"github.com/pmadden/ember/internal/ui"
)

// NewPortsCommand creates the ports subcommand.
func NewPortsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ports",
		Short: "List attached serial ports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ports, err := serial.ListPorts()
			if err != nil {
				return fmt.Errorf("enumerate serial ports: %w", err)
			}
			if len(ports) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.DimStyle.Render("no serial ports found"))
				return nil
			}

			for _, p := range ports {
				line := ui.BoldStyle.Render(p.Name)
				if p.IsUSB {
					detail := fmt.Sprintf("usb %s:%s", p.VID, p.PID)
					if p.SerialNumber != "" {
						detail += " sn=" + p.SerialNumber
					}
					line += "  " + ui.DimStyle.Render(detail)
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}
