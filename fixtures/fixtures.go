// Package fixtures bundles real-world yarn.lock samples used by the
// parser tests and the bench command.
package fixtures

import (
	"embed"
	"fmt"
	"sort"
)

//go:embed *.lock
var lockFS embed.FS

// Names returns the fixture file names in sorted order.
func Names() []string {
	entries, err := lockFS.ReadDir(".")
	if err != nil {
		panic(fmt.Sprintf("read embedded fixtures: %v", err))
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names
}

// Load returns the contents of the named fixture.
func Load(name string) (string, error) {
	data, err := lockFS.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("load fixture %s: %w", name, err)
	}
	return string(data), nil
}
