// Package flash drives the device flash tool and sequences a full
// build-program-reset session.
package flash

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/pmadden/ember/internal/run"
	"github.com/pmadden/ember/internal/transport"
)

// Result captures one flash session against a single transport.
// It is reported and discarded, never persisted.
type Result struct {
	Transport transport.Descriptor
	ExitCode  int
	Duration  time.Duration
	Output    string // raw flash tool output, all invocations concatenated
}

// FlashError reports a non-zero flash tool exit, with the tool's captured
// output attached.
type FlashError struct {
	Transport string
	ExitCode  int
	Output    string
}

func (e *FlashError) Error() string {
	return fmt.Sprintf("flash via %s failed (exit %d)", e.Transport, e.ExitCode)
}

// ToolOutput returns the captured flash tool output.
func (e *FlashError) ToolOutput() string { return e.Output }

// DeviceBusyError reports that another session already owns the device.
type DeviceBusyError struct {
	Resource string
}

func (e *DeviceBusyError) Error() string {
	return fmt.Sprintf("device busy: %s is owned by another flash session", e.Resource)
}

// Programmer invokes the flash tool (rfp-cli) for one transport at a time.
type Programmer struct {
	runner  run.Runner
	tool    string
	lockDir string
}

// NewProgrammer returns a Programmer that invokes the named flash tool.
func NewProgrammer(r run.Runner, tool string) *Programmer {
	return &Programmer{runner: r, tool: tool, lockDir: os.TempDir()}
}

// Acquire takes exclusive ownership of the descriptor's physical resource
// for the duration of a session. A second session against the same resource
// fails fast with DeviceBusyError rather than queueing.
func (p *Programmer) Acquire(desc transport.Descriptor) (release func(), err error) {
	name := "ember-" + strings.ReplaceAll(strings.Trim(desc.LockName(), "/"), "/", "-") + ".lock"
	fl := flock.New(filepath.Join(p.lockDir, name))

	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("device lock: %w", err)
	}
	if !ok {
		return nil, &DeviceBusyError{Resource: desc.LockName()}
	}
	return func() { fl.Unlock() }, nil
}

// Program writes the hex image to the target. For USB transports the port
// path is probed first; a missing port returns DeviceNotFoundError without
// invoking the tool.
func (p *Programmer) Program(ctx context.Context, hexPath string, desc transport.Descriptor) (*Result, error) {
	if desc.Kind == transport.UsbSerial {
		if _, err := os.Stat(desc.Port); err != nil {
			return nil, &transport.DeviceNotFoundError{Port: desc.Port}
		}
	}

	res, err := p.runner.Run(ctx, p.tool, programArgs(hexPath, desc)...)
	result := &Result{
		Transport: desc,
		ExitCode:  res.ExitCode,
		Duration:  res.Duration,
		Output:    res.Output,
	}
	if err != nil {
		return result, &FlashError{Transport: desc.String(), ExitCode: res.ExitCode, Output: res.Output + err.Error()}
	}
	if res.ExitCode != 0 {
		return result, &FlashError{Transport: desc.String(), ExitCode: res.ExitCode, Output: res.Output}
	}
	return result, nil
}

// Reset issues the separate reset/run invocation a debug probe needs after
// programming, since the tool leaves the target halted.
func (p *Programmer) Reset(ctx context.Context, desc transport.Descriptor) (run.Result, error) {
	res, err := p.runner.Run(ctx, p.tool, resetArgs(desc)...)
	if err != nil {
		return res, &FlashError{Transport: desc.String(), ExitCode: res.ExitCode, Output: res.Output + err.Error()}
	}
	if res.ExitCode != 0 {
		return res, &FlashError{Transport: desc.String(), ExitCode: res.ExitCode, Output: res.Output}
	}
	return res, nil
}

func programArgs(hexPath string, desc transport.Descriptor) []string {
	if desc.Kind == transport.DebugProbe {
		return []string{"-device", desc.Family, "-tool", desc.Tool, "-if", desc.Interface, "-p", hexPath}
	}
	return []string{"-device", desc.Family, "-port", desc.Port, "-p", hexPath}
}

func resetArgs(desc transport.Descriptor) []string {
	return []string{"-device", desc.Family, "-tool", desc.Tool, "-if", desc.Interface, "-run"}
}
