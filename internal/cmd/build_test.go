package cmd

import (
	"io"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuildUnknownTarget(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, filepath.Join(tmp, "Cargo.toml"), "[package]\nname = \"app\"\n")
	chdir(t, tmp)

	root := NewRootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"build", "nope"})

	err := root.Execute()
	if err == nil || !strings.Contains(err.Error(), "unknown target") {
		t.Fatalf("expected unknown-target error, got %v", err)
	}
}

func TestBuildKnownTargetRejectsBadMode(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, filepath.Join(tmp, "Cargo.toml"), "[package]\nname = \"app\"\n")
	writeFile(t, filepath.Join(tmp, "src", "main.rs"), "fn main() {}\n")
	chdir(t, tmp)

	root := NewRootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"build", "app", "--mode", "fastest"})

	// The known target passes the target check; the bad mode then fails
	// before cargo is ever invoked.
	err := root.Execute()
	if err == nil || !strings.Contains(err.Error(), "unknown build mode") {
		t.Fatalf("expected unknown-mode error, got %v", err)
	}
}
