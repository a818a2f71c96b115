package main

import (
	"fmt"

	"github.com/dhamidi/yal/lockfile"
	"github.com/dhamidi/yal/workspace"
	"github.com/spf13/cobra"
)

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan a directory tree for yarn.lock files and summarize them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return runScan(root)
		},
	}

	return cmd
}

func runScan(root string) error {
	paths, err := workspace.Discover(root)
	if err != nil {
		return fmt.Errorf("discover lockfiles: %w", err)
	}

	fmt.Printf("Found %d lockfiles to scan\n", len(paths))

	packages := 0
	var errors []string

	for i, path := range paths {
		fmt.Printf("[%d/%d] ", i+1, len(paths))
		lf, err := lockfile.ParseFile(path)
		if err != nil {
			fmt.Printf("[ERROR] %s: %v\n", path, err)
			errors = append(errors, fmt.Sprintf("parse %s: %v", path, err))
			continue
		}
		fmt.Printf("[OK] %s (version %d, %d packages)\n", path, lf.Metadata.Version, len(lf.Packages))
		packages += len(lf.Packages)
	}

	fmt.Printf("\n=== SCAN COMPLETE ===\n")
	fmt.Printf("Lockfiles: %d\n", len(paths))
	fmt.Printf("Packages: %d\n", packages)
	fmt.Printf("Errors: %d\n", len(errors))
	for _, e := range errors {
		fmt.Printf("  - %s\n", e)
	}
	return nil
}
