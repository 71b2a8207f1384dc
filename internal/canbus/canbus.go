// Package canbus brings the SLCAN USB adapter's network interface up and
// down. It only configures the adapter; it never touches CAN frames.
package canbus

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/pmadden/ember/internal/run"
	"github.com/pmadden/ember/internal/transport"
)

// Adapter configures an SLCAN serial adapter as a network interface via
// slcand and ip link.
type Adapter struct {
	Device      string // serial device of the adapter, e.g. /dev/ttyACM1
	Interface   string // network interface name, e.g. can0
	BitrateCode int    // slcand -s code (8 = 1 Mbit/s)

	runner run.Runner

	// Euid overrides the privilege probe in tests; nil uses os.Geteuid.
	Euid func() int
}

// NewAdapter returns an Adapter driving slcand/ip through the runner.
func NewAdapter(r run.Runner, device, iface string, bitrateCode int) *Adapter {
	return &Adapter{runner: r, Device: device, Interface: iface, BitrateCode: bitrateCode}
}

func (a *Adapter) euid() int {
	if a.Euid != nil {
		return a.Euid()
	}
	return os.Geteuid()
}

// Up attaches the adapter with slcand and brings the interface up.
// Returns the combined tool output.
func (a *Adapter) Up(ctx context.Context) (string, error) {
	if a.euid() != 0 {
		return "", &transport.PermissionError{Op: "configuring the CAN interface"}
	}
	if _, err := os.Stat(a.Device); err != nil {
		return "", &transport.DeviceNotFoundError{Port: a.Device}
	}

	res, err := a.runner.Run(ctx, "slcand", "-o", "-c", "-s"+strconv.Itoa(a.BitrateCode), a.Device, a.Interface)
	if err != nil {
		return res.Output, err
	}
	if res.ExitCode != 0 {
		return res.Output, fmt.Errorf("slcand exited with code %d", res.ExitCode)
	}
	output := res.Output

	res, err = a.runner.Run(ctx, "ip", "link", "set", a.Interface, "up")
	output += res.Output
	if err != nil {
		return output, err
	}
	if res.ExitCode != 0 {
		return output, fmt.Errorf("ip link set %s up exited with code %d", a.Interface, res.ExitCode)
	}
	return output, nil
}

// Down takes the interface down. slcand is left to exit on its own when
// the adapter is unplugged.
func (a *Adapter) Down(ctx context.Context) (string, error) {
	if a.euid() != 0 {
		return "", &transport.PermissionError{Op: "configuring the CAN interface"}
	}

	res, err := a.runner.Run(ctx, "ip", "link", "set", a.Interface, "down")
	if err != nil {
		return res.Output, err
	}
	if res.ExitCode != 0 {
		return res.Output, fmt.Errorf("ip link set %s down exited with code %d", a.Interface, res.ExitCode)
	}
	return res.Output, nil
}
