package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/yal/index"
	"github.com/dhamidi/yal/report"
	"github.com/dhamidi/yal/workspace"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [path]",
		Short: "Check lockfiles for syntax errors and missing dependency entries",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return runCheck(root)
		},
	}

	return cmd
}

func runCheck(root string) error {
	diags, err := workspace.Load(root)
	if err != nil {
		return err
	}
	if len(diags) == 0 {
		return fmt.Errorf("no %s files under %s", workspace.LockfileName, root)
	}

	problems := 0
	for _, diag := range diags {
		problems += reportDiagnostic(diag)
	}

	if problems > 0 {
		return fmt.Errorf("%d problems found", problems)
	}
	return nil
}

// reportDiagnostic prints one lockfile's findings and returns the number
// of problems found in it.
func reportDiagnostic(diag workspace.Diagnostic) int {
	if diag.Err != nil {
		if data, readErr := os.ReadFile(diag.Path); readErr == nil {
			fmt.Fprintln(os.Stderr, report.Render(diag.Path, string(data), diag.Err))
		} else {
			fmt.Fprintf(os.Stderr, "%s: %v\n", diag.Path, diag.Err)
		}
		return 1
	}

	missing := index.New(diag.Lockfile).Missing()
	for _, m := range missing {
		fmt.Fprintf(os.Stderr, "%s: no entry for %s@%s (needed by %s)\n", diag.Path, m.Name, m.Range, m.Needer)
	}
	if len(missing) == 0 {
		fmt.Printf("[OK] %s (%d packages)\n", diag.Path, len(diag.Lockfile.Packages))
	}
	return len(missing)
}
