// Package build compiles firmware targets and converts them to Intel HEX
// images for the flash tool.
package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pmadden/ember/internal/run"
)

// Mode selects the cargo profile a target is compiled with.
type Mode string

const (
	ModeRelease Mode = "release"
	ModeDebug   Mode = "debug"
)

// ParseMode validates a mode string from flags or config.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeRelease, ModeDebug:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown build mode %q (want release or debug)", s)
}

// Artifact describes a successfully built firmware image. It is replaced
// wholesale on every build.
type Artifact struct {
	Target  string
	Mode    Mode
	ElfPath string
	HexPath string
	Output  string // combined toolchain output
}

// BuildError reports a failed compile or hex conversion, with the
// originating tool's output attached.
type BuildError struct {
	Target   string
	Stage    string // "compile" or "convert"
	ExitCode int
	Output   string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build %s: %s stage failed (exit %d)", e.Target, e.Stage, e.ExitCode)
}

// ToolOutput returns the captured toolchain output.
func (e *BuildError) ToolOutput() string { return e.Output }

// Builder compiles targets with cargo and converts the resulting ELF to an
// Intel HEX image at a fixed per-target path under the workspace root.
type Builder struct {
	runner  run.Runner
	root    string
	triple  string
	objcopy string
}

// NewBuilder returns a Builder rooted at the workspace directory.
func NewBuilder(r run.Runner, root, triple, objcopy string) *Builder {
	return &Builder{runner: r, root: root, triple: triple, objcopy: objcopy}
}

// HexPath returns the fixed output path for a target's hex image.
func (b *Builder) HexPath(target string) string {
	return filepath.Join(b.root, target+".hex")
}

// ElfPath returns where cargo places the compiled binary for a target.
func (b *Builder) ElfPath(target string, mode Mode) string {
	return filepath.Join(b.root, "target", b.triple, string(mode), target)
}

// Build compiles the target and converts it to hex. The stale hex image is
// removed before compiling, so a failed build never leaves a previous image
// in place.
func (b *Builder) Build(ctx context.Context, target string, mode Mode) (*Artifact, error) {
	hexPath := b.HexPath(target)
	if err := os.Remove(hexPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("remove stale hex %s: %w", hexPath, err)
	}

	args := []string{"build"}
	if mode == ModeRelease {
		args = append(args, "--release")
	}
	args = append(args, "--bin", target)

	res, err := b.runner.Run(ctx, "cargo", args...)
	if err != nil {
		return nil, &BuildError{Target: target, Stage: "compile", ExitCode: res.ExitCode, Output: res.Output + err.Error()}
	}
	if res.ExitCode != 0 {
		return nil, &BuildError{Target: target, Stage: "compile", ExitCode: res.ExitCode, Output: res.Output}
	}
	output := res.Output

	elfPath := b.ElfPath(target, mode)
	if _, err := os.Stat(elfPath); err != nil {
		return nil, &BuildError{
			Target:   target,
			Stage:    "convert",
			ExitCode: -1,
			Output:   output + fmt.Sprintf("compiled binary not found at %s\n", elfPath),
		}
	}

	res, err = b.runner.Run(ctx, b.objcopy, "-O", "ihex", elfPath, hexPath)
	if err != nil {
		// objcopy may have written part of the image before failing.
		os.Remove(hexPath)
		return nil, &BuildError{Target: target, Stage: "convert", ExitCode: res.ExitCode, Output: output + res.Output + err.Error()}
	}
	if res.ExitCode != 0 {
		os.Remove(hexPath)
		return nil, &BuildError{Target: target, Stage: "convert", ExitCode: res.ExitCode, Output: output + res.Output}
	}

	return &Artifact{
		Target:  target,
		Mode:    mode,
		ElfPath: elfPath,
		HexPath: hexPath,
		Output:  output + res.Output,
	}, nil
}
