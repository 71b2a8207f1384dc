// Package report maps flash session outcomes to process exit codes and
// one-line summaries.
package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/pmadden/ember/internal/build"
	"github.com/pmadden/ember/internal/flash"
	"github.com/pmadden/ember/internal/transport"
	"github.com/pmadden/ember/internal/ui"
)

// Exit codes. The mapping from error kind to code is deterministic and part
// of the CLI contract.
const (
	ExitOK             = 0
	ExitBuildFailed    = 1
	ExitDeviceNotFound = 2
	ExitFlashFailed    = 3
	ExitDeviceBusy     = 4
	ExitNoPermission   = 5
)

// ExitCode returns the process exit code for a pipeline outcome. Errors of
// unknown kind (bad usage, missing workspace) share the generic failure
// code 1.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var buildErr *build.BuildError
	if errors.As(err, &buildErr) {
		return ExitBuildFailed
	}
	var notFound *transport.DeviceNotFoundError
	if errors.As(err, &notFound) {
		return ExitDeviceNotFound
	}
	var flashErr *flash.FlashError
	if errors.As(err, &flashErr) {
		return ExitFlashFailed
	}
	var busy *flash.DeviceBusyError
	if errors.As(err, &busy) {
		return ExitDeviceBusy
	}
	var perm *transport.PermissionError
	if errors.As(err, &perm) {
		return ExitNoPermission
	}
	return ExitBuildFailed
}

// toolOutputter is implemented by errors that carry captured tool output.
type toolOutputter interface {
	ToolOutput() string
}

// ToolOutput extracts the captured tool output attached to an error, if any.
func ToolOutput(err error) string {
	var out toolOutputter
	if errors.As(err, &out) {
		return out.ToolOutput()
	}
	return ""
}

// Failure renders the single-line failure status for an error.
func Failure(err error) string {
	return ui.ErrorBadge("FAILED") + " " + err.Error()
}

// Flashed renders the single-line success status for a completed session.
func Flashed(res *flash.Result) string {
	return fmt.Sprintf("%s flashed %s in %s",
		ui.SuccessBadge("OK"), res.Transport, res.Duration.Round(10*time.Millisecond))
}

// Built renders the single-line success status for a completed build.
func Built(art *build.Artifact) string {
	return fmt.Sprintf("%s built %s (%s) → %s",
		ui.SuccessBadge("OK"), art.Target, art.Mode, art.HexPath)
}
