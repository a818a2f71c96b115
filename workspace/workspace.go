// Package workspace locates yarn.lock files across a project tree and
// checks them: parse diagnostics, change watching, and an LSP server.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dhamidi/yal/lockfile"
)

const LockfileName = "yarn.lock"

var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	".yarn":        true,
}

// Discover walks root and returns every yarn.lock path found. Dot
// directories, node_modules, and .yarn caches are skipped.
func Discover(root string) ([]string, error) {
	var paths []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			name := info.Name()
			if path != root && (skipDirs[name] || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if info.Name() == LockfileName {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return paths, nil
}

// Diagnostic is the outcome of parsing one discovered lockfile.
type Diagnostic struct {
	Path     string
	Lockfile *lockfile.Lockfile
	Err      error
}

// Load discovers and parses every lockfile under root. Files parse
// concurrently; results come back in discovery order.
func Load(root string) ([]Diagnostic, error) {
	paths, err := Discover(root)
	if err != nil {
		return nil, err
	}

	diags := make([]Diagnostic, len(paths))
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lf, err := lockfile.ParseFile(path)
			diags[i] = Diagnostic{Path: path, Lockfile: lf, Err: err}
		}()
	}
	wg.Wait()

	return diags, nil
}
