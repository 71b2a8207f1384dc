package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pmadden/ember/internal/canbus"
	"github.com/pmadden/ember/internal/run"
	"github.com/pmadden/ember/internal/ui"
)

// NewCanCommand creates the can subcommand group for SLCAN adapter setup.
func NewCanCommand() *cobra.Command {
	var deviceFlag string
	var ifaceFlag string
	var bitrateFlag int

	cmd := &cobra.Command{
		Use:   "can",
		Short: "Bring the SLCAN USB adapter interface up or down (needs root)",
	}

	newAdapter := func() (*canbus.Adapter, error) {
		_, cfg, err := loadWorkspace()
		if err != nil {
			return nil, err
		}

		device := cfg.CanDevice
		if deviceFlag != "" {
			device = deviceFlag
		}
		if device == "" {
			return nil, errors.New("no CAN adapter device configured (set can_device or pass --device)")
		}

		iface := cfg.CanInterface
		if ifaceFlag != "" {
			iface = ifaceFlag
		}
		bitrate := cfg.CanBitrateCode
		if bitrateFlag != 0 {
			bitrate = bitrateFlag
		}

		return canbus.NewAdapter(&run.ExecRunner{}, device, iface, bitrate), nil
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Attach the adapter with slcand and bring the interface up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := newAdapter()
			if err != nil {
				return err
			}
			output, err := adapter.Up(cmd.Context())
			fmt.Fprint(cmd.OutOrStdout(), output)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.SuccessBadge("OK")+" "+adapter.Interface+" up")
			return nil
		},
	}

	down := &cobra.Command{
		Use:   "down",
		Short: "Take the CAN interface down",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := newAdapter()
			if err != nil {
				return err
			}
			output, err := adapter.Down(cmd.Context())
			fmt.Fprint(cmd.OutOrStdout(), output)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.SuccessBadge("OK")+" "+adapter.Interface+" down")
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&deviceFlag, "device", "", "adapter serial device (default from config)")
	cmd.PersistentFlags().StringVar(&ifaceFlag, "interface", "", "network interface name (default can0)")
	cmd.PersistentFlags().IntVar(&bitrateFlag, "bitrate", 0, "slcand bitrate code (default 8 = 1 Mbit/s)")

	cmd.AddCommand(up)
	cmd.AddCommand(down)

	return cmd
}
