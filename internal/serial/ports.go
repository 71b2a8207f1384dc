// Package serial provides port discovery and a line-oriented console for
// the target's USB serial interface.
package serial

import (
	"go.bug.st/serial/enumerator"
)

// PortInfo holds details about a serial port.
type PortInfo struct {
	Name         string
	IsUSB        bool
	VID          string
	PID          string
	SerialNumber string
}

// ListPorts returns available serial ports.
func ListPorts() ([]PortInfo, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, err
	}

	var result []PortInfo
	for _, p := range ports {
		result = append(result, PortInfo{
			Name:         p.Name,
			IsUSB:        p.IsUSB,
			VID:          p.VID,
			PID:          p.PID,
			SerialNumber: p.SerialNumber,
		})
	}
	return result, nil
}

// FirstUSBPort returns the name of the first USB serial port, or "" when
// none is attached.
func FirstUSBPort() string {
	ports, err := ListPorts()
	if err != nil {
		return ""
	}
	for _, p := range ports {
		if p.IsUSB {
			return p.Name
		}
	}
	return ""
}
