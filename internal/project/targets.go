package project

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Target represents a buildable firmware binary.
type Target struct {
	Name string // Binary name passed to cargo --bin
	Path string // Relative path of the defining source file
}

// skipDirs lists directories to skip during the recursive scan.
var skipDirs = map[string]bool{
	".git":    true,
	".ember":  true,
	"target":  true,
	".venv":   true,
	"vendor":  true,
	".github": true,
}

// Targets discovers buildable binaries: the package's own src/main.rs plus
// every src/bin/*.rs entry anywhere under the workspace. The scan skips
// cargo output directories so a populated target/ tree does not surface
// build leftovers as targets.
func (w *Workspace) Targets() []Target {
	var targets []Target

	if w.Package != "" {
		mainSrc := filepath.Join(w.Root, "src", "main.rs")
		if _, err := os.Stat(mainSrc); err == nil {
			targets = append(targets, Target{Name: w.Package, Path: filepath.Join("src", "main.rs")})
		}
	}

	filepath.WalkDir(w.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		if d.IsDir() {
			if skipDirs[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(d.Name(), ".rs") || filepath.Base(filepath.Dir(path)) != "bin" {
			return nil
		}
		// Only src/bin/ layouts define binaries.
		if filepath.Base(filepath.Dir(filepath.Dir(path))) != "src" {
			return nil
		}

		relPath, err := filepath.Rel(w.Root, path)
		if err != nil {
			return nil
		}
		targets = append(targets, Target{
			Name: strings.TrimSuffix(d.Name(), ".rs"),
			Path: relPath,
		})
		return nil
	})

	sort.Slice(targets, func(i, j int) bool {
		return targets[i].Name < targets[j].Name
	})

	return targets
}

// HasTarget reports whether name is a discoverable target.
func (w *Workspace) HasTarget(name string) bool {
	for _, t := range w.Targets() {
		if t.Name == name {
			return true
		}
	}
	return false
}
