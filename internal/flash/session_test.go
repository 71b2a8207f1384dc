package flash

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pmadden/ember/internal/build"
	"github.com/pmadden/ember/internal/run"
	"github.com/pmadden/ember/internal/transport"
)

type fakeBuilder struct {
	calls    int
	artifact *build.Artifact
	err      error
}

func (f *fakeBuilder) Build(context.Context, string, build.Mode) (*build.Artifact, error) {
	f.calls++
	return f.artifact, f.err
}

func testSession(t *testing.T, b ImageBuilder, r run.Runner, euid int, port string) *Session {
	t.Helper()
	sel := &transport.Selector{
		Family:    "ra",
		ProbeTool: "e2",
		Port:      port,
		Euid:      func() int { return euid },
	}
	p := NewProgrammer(r, "rfp-cli")
	p.lockDir = t.TempDir()
	return NewSession(b, sel, p)
}

func existingPort(t *testing.T) string {
	t.Helper()
	port := filepath.Join(t.TempDir(), "ttyACM0")
	if err := os.WriteFile(port, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	return port
}

func TestSessionUSBSuccess(t *testing.T) {
	b := &fakeBuilder{artifact: &build.Artifact{Target: "app", HexPath: "/fw/app.hex"}}
	r := &fakeRunner{}
	s := testSession(t, b, r, 1000, existingPort(t))

	res, err := s.Run(context.Background(), "app", build.ModeRelease, transport.ModeUSB)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if s.State() != StateDone {
		t.Errorf("expected done state, got %v", s.State())
	}
	if len(r.calls) != 1 {
		t.Errorf("usb flash must be a single tool invocation, got %d", len(r.calls))
	}
	if res.ExitCode != 0 {
		t.Errorf("unexpected exit code %d", res.ExitCode)
	}
}

func TestSessionProbeResetsExactlyOnce(t *testing.T) {
	b := &fakeBuilder{artifact: &build.Artifact{Target: "app", HexPath: "/fw/app.hex"}}
	r := &fakeRunner{}
	s := testSession(t, b, r, 0, "/dev/ttyACM0")

	_, err := s.Run(context.Background(), "app", build.ModeRelease, transport.ModeDebugProbe)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(r.calls) != 2 {
		t.Fatalf("expected program + reset invocations, got %d", len(r.calls))
	}
	last := r.calls[1].args
	if last[len(last)-1] != "-run" {
		t.Errorf("second invocation must be the reset/run step, got %v", last)
	}
	if s.State() != StateDone {
		t.Errorf("expected done state, got %v", s.State())
	}
}

func TestSessionBuildFailureSkipsProgrammer(t *testing.T) {
	b := &fakeBuilder{err: &build.BuildError{Target: "app", Stage: "compile", ExitCode: 101}}
	r := &fakeRunner{}
	s := testSession(t, b, r, 1000, existingPort(t))

	_, err := s.Run(context.Background(), "app", build.ModeRelease, transport.ModeUSB)

	var buildErr *build.BuildError
	if !errors.As(err, &buildErr) {
		t.Fatalf("expected BuildError, got %v", err)
	}
	if len(r.calls) != 0 {
		t.Errorf("programmer must not run after a failed build, got %d calls", len(r.calls))
	}
	if s.State() != StateFailed {
		t.Errorf("expected failed state, got %v", s.State())
	}
}

func TestSessionPermissionFailure(t *testing.T) {
	b := &fakeBuilder{artifact: &build.Artifact{Target: "app", HexPath: "/fw/app.hex"}}
	r := &fakeRunner{}
	s := testSession(t, b, r, 1000, "/dev/ttyACM0")

	_, err := s.Run(context.Background(), "app", build.ModeRelease, transport.ModeDebugProbe)

	var permErr *transport.PermissionError
	if !errors.As(err, &permErr) {
		t.Fatalf("expected PermissionError, got %v", err)
	}
	if len(r.calls) != 0 {
		t.Errorf("no tool invocation expected, got %d", len(r.calls))
	}
}

func TestSessionProbeResetFailure(t *testing.T) {
	b := &fakeBuilder{artifact: &build.Artifact{Target: "app", HexPath: "/fw/app.hex"}}
	r := &fakeRunner{results: []run.Result{{}, {Output: "Error: run failed\n", ExitCode: 1}}}
	s := testSession(t, b, r, 0, "/dev/ttyACM0")

	res, err := s.Run(context.Background(), "app", build.ModeRelease, transport.ModeDebugProbe)

	var flashErr *FlashError
	if !errors.As(err, &flashErr) {
		t.Fatalf("expected FlashError, got %v", err)
	}
	if s.State() != StateFailed {
		t.Errorf("expected failed state, got %v", s.State())
	}
	if res == nil || res.ExitCode != 1 {
		t.Errorf("result must carry the reset exit code: %+v", res)
	}
}

func TestSessionRunImageMissingHex(t *testing.T) {
	r := &fakeRunner{}
	s := testSession(t, &fakeBuilder{}, r, 1000, existingPort(t))

	_, err := s.RunImage(context.Background(), "/nonexistent/boot.hex", transport.ModeUSB)
	if err == nil {
		t.Fatal("expected error for missing image")
	}
	if len(r.calls) != 0 {
		t.Errorf("no tool invocation expected, got %d", len(r.calls))
	}
}

func TestStateString(t *testing.T) {
	states := map[State]string{
		StateIdle:        "idle",
		StateBuilding:    "building",
		StateProgramming: "programming",
		StateResetting:   "resetting",
		StateDone:        "done",
		StateFailed:      "failed",
	}
	for s, want := range states {
		if s.String() != want {
			t.Errorf("State(%d).String() = %q, want %q", int(s), s.String(), want)
		}
	}
}
