package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/dhamidi/yal/lockfile"
	"github.com/dhamidi/yal/workspace"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Watch a directory tree and re-check lockfiles on change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return runWatch(root)
		},
	}

	return cmd
}

func runWatch(root string) error {
	diags, err := workspace.Load(root)
	if err != nil {
		return err
	}
	for _, diag := range diags {
		reportDiagnostic(diag)
	}

	watcher, err := workspace.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Stop()

	if err := watcher.Watch(root); err != nil {
		return err
	}

	fmt.Printf("Watching %s for lockfile changes (ctrl-c to stop)\n", root)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	for {
		select {
		case event, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			lf, err := lockfile.ParseFile(event.Path)
			reportDiagnostic(workspace.Diagnostic{Path: event.Path, Lockfile: lf, Err: err})
		case <-interrupt:
			fmt.Println("\nStopping")
			return nil
		}
	}
}
