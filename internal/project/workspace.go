// Package project locates the firmware workspace and its buildable targets.
package project

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// Workspace holds information about a detected cargo workspace.
type Workspace struct {
	Root         string // Absolute path to the directory holding Cargo.toml
	ManifestPath string // Path to the Cargo.toml manifest
	Package      string // Package name from [package] in the manifest
}

// Detect walks up from startDir looking for a Cargo.toml manifest, which
// marks the firmware workspace root.
func Detect(startDir string) *Workspace {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil
	}

	for {
		manifest := filepath.Join(dir, "Cargo.toml")
		if info, err := os.Stat(manifest); err == nil && !info.IsDir() {
			return &Workspace{
				Root:         dir,
				ManifestPath: manifest,
				Package:      packageName(manifest),
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}

	return nil
}

// packageName scans the manifest for the name key in the [package] section.
// Cargo manifests are TOML, but only this one key is needed, so the file is
// line-scanned rather than parsed.
func packageName(manifestPath string) string {
	f, err := os.Open(manifestPath)
	if err != nil {
		return ""
	}
	defer f.Close()

	inPackage := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "[") {
			inPackage = line == "[package]"
			continue
		}
		if !inPackage || !strings.HasPrefix(line, "name") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		return strings.Trim(strings.TrimSpace(parts[1]), `"`)
	}
	return ""
}
