// Package transport resolves how the flash tool reaches the target board:
// over an SWD debug probe or the board's USB serial bootloader.
package transport

import (
	"fmt"
	"os"
)

// Mode is the transport requested on the command line.
type Mode int

const (
	ModeUSB Mode = iota
	ModeDebugProbe
)

func (m Mode) String() string {
	switch m {
	case ModeUSB:
		return "usb"
	case ModeDebugProbe:
		return "debug-probe"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Kind tags the variant a Descriptor holds.
type Kind int

const (
	UsbSerial Kind = iota
	DebugProbe
)

// Descriptor identifies the physical interface a flash session owns.
// It is resolved once per invocation and never mutated.
type Descriptor struct {
	Kind   Kind
	Family string // flash tool device family, e.g. "ra"

	// DebugProbe fields
	Tool      string // probe driver, e.g. "e2"
	Interface string // wire protocol, always "swd" for RA probes

	// UsbSerial fields
	Port string // device path, e.g. /dev/ttyACM0
}

func (d Descriptor) String() string {
	if d.Kind == DebugProbe {
		return fmt.Sprintf("%s via %s/%s", d.Family, d.Tool, d.Interface)
	}
	return fmt.Sprintf("%s via %s", d.Family, d.Port)
}

// LockName returns the identity of the physical resource the descriptor
// owns, used to serialize flash sessions against the same device.
func (d Descriptor) LockName() string {
	if d.Kind == DebugProbe {
		return "probe-" + d.Tool
	}
	return d.Port
}

// DeviceNotFoundError reports a USB port path that does not exist.
type DeviceNotFoundError struct {
	Port string
}

func (e *DeviceNotFoundError) Error() string {
	return fmt.Sprintf("device not found: %s", e.Port)
}

// PermissionError reports an operation that needs elevated privilege.
// The caller is told to re-run elevated; ember never re-execs itself.
type PermissionError struct {
	Op string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("%s requires elevated privilege (run as root)", e.Op)
}

// Selector resolves a requested mode into a Descriptor.
type Selector struct {
	Family    string
	ProbeTool string
	Port      string

	// Euid overrides the privilege probe in tests; nil uses os.Geteuid.
	Euid func() int
}

func (s *Selector) euid() int {
	if s.Euid != nil {
		return s.Euid()
	}
	return os.Geteuid()
}

// Select returns the descriptor for the requested mode. Debug-probe mode
// needs elevated privilege to open the probe, checked here explicitly.
// A missing USB port is not pre-checked: it surfaces as DeviceNotFoundError
// when the programmer probes the path at flash time.
func (s *Selector) Select(mode Mode) (Descriptor, error) {
	switch mode {
	case ModeDebugProbe:
		if s.euid() != 0 {
			return Descriptor{}, &PermissionError{Op: "debug-probe flashing"}
		}
		return Descriptor{
			Kind:      DebugProbe,
			Family:    s.Family,
			Tool:      s.ProbeTool,
			Interface: "swd",
		}, nil
	case ModeUSB:
		return Descriptor{
			Kind:   UsbSerial,
			Family: s.Family,
			Port:   s.Port,
		}, nil
	}
	return Descriptor{}, fmt.Errorf("unknown transport mode %v", mode)
}
