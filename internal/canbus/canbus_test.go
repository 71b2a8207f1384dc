package canbus

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pmadden/ember/internal/run"
	"github.com/pmadden/ember/internal/transport"
)

type runCall struct {
	name string
	args []string
}

type fakeRunner struct {
	calls []runCall
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (run.Result, error) {
	f.calls = append(f.calls, runCall{name: name, args: append([]string(nil), args...)})
	return run.Result{}, nil
}

func fakeDevice(t *testing.T) string {
	t.Helper()
	dev := filepath.Join(t.TempDir(), "ttyACM1")
	if err := os.WriteFile(dev, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	return dev
}

func TestUpNeedsRoot(t *testing.T) {
	r := &fakeRunner{}
	a := NewAdapter(r, "/dev/ttyACM1", "can0", 8)
	a.Euid = func() int { return 1000 }

	_, err := a.Up(context.Background())

	var permErr *transport.PermissionError
	if !errors.As(err, &permErr) {
		t.Fatalf("expected PermissionError, got %v", err)
	}
	if len(r.calls) != 0 {
		t.Errorf("no tool invocation expected, got %d", len(r.calls))
	}
}

func TestUpMissingAdapter(t *testing.T) {
	r := &fakeRunner{}
	a := NewAdapter(r, "/dev/does-not-exist", "can0", 8)
	a.Euid = func() int { return 0 }

	_, err := a.Up(context.Background())

	var notFound *transport.DeviceNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected DeviceNotFoundError, got %v", err)
	}
	if len(r.calls) != 0 {
		t.Errorf("no tool invocation expected, got %d", len(r.calls))
	}
}

func TestUpInvocations(t *testing.T) {
	r := &fakeRunner{}
	dev := fakeDevice(t)
	a := NewAdapter(r, dev, "can0", 8)
	a.Euid = func() int { return 0 }

	if _, err := a.Up(context.Background()); err != nil {
		t.Fatalf("Up failed: %v", err)
	}

	if len(r.calls) != 2 {
		t.Fatalf("expected slcand + ip invocations, got %d", len(r.calls))
	}
	wantSlcand := []string{"-o", "-c", "-s8", dev, "can0"}
	if r.calls[0].name != "slcand" || !reflect.DeepEqual(r.calls[0].args, wantSlcand) {
		t.Errorf("unexpected slcand invocation: %s %v", r.calls[0].name, r.calls[0].args)
	}
	wantIP := []string{"link", "set", "can0", "up"}
	if r.calls[1].name != "ip" || !reflect.DeepEqual(r.calls[1].args, wantIP) {
		t.Errorf("unexpected ip invocation: %s %v", r.calls[1].name, r.calls[1].args)
	}
}

func TestDownInvocation(t *testing.T) {
	r := &fakeRunner{}
	a := NewAdapter(r, "/dev/ttyACM1", "can0", 8)
	a.Euid = func() int { return 0 }

	if _, err := a.Down(context.Background()); err != nil {
		t.Fatalf("Down failed: %v", err)
	}
	want := []string{"link", "set", "can0", "down"}
	if len(r.calls) != 1 || !reflect.DeepEqual(r.calls[0].args, want) {
		t.Errorf("unexpected invocations: %+v", r.calls)
	}
}
