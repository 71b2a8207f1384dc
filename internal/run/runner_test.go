package run

import (
	"context"
	"strings"
	"testing"
)

func TestRunCapturesOutputAndExitCode(t *testing.T) {
	r := &ExecRunner{}
	res, err := r.Run(context.Background(), "sh", "-c", "echo building; exit 3")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.ExitCode != 3 {
		t.Errorf("expected exit code 3, got %d", res.ExitCode)
	}
	if !strings.Contains(res.Output, "building") {
		t.Errorf("expected output to contain 'building', got %q", res.Output)
	}
}

func TestRunMergesStderr(t *testing.T) {
	r := &ExecRunner{}
	res, err := r.Run(context.Background(), "sh", "-c", "echo oops 1>&2")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("expected exit code 0, got %d", res.ExitCode)
	}
	if !strings.Contains(res.Output, "oops") {
		t.Errorf("expected stderr in output, got %q", res.Output)
	}
}

func TestRunMissingBinary(t *testing.T) {
	r := &ExecRunner{}
	res, err := r.Run(context.Background(), "definitely-not-a-real-tool-xyz")
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	if res.ExitCode != -1 {
		t.Errorf("expected exit code -1, got %d", res.ExitCode)
	}
}

func TestRunAppliesDir(t *testing.T) {
	dir := t.TempDir()
	r := &ExecRunner{Dir: dir}
	res, err := r.Run(context.Background(), "pwd")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(res.Output, dir) {
		t.Errorf("expected pwd output under %s, got %q", dir, res.Output)
	}
}
