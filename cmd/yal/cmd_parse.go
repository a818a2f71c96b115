package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/yal/format"
	"github.com/dhamidi/yal/lockfile"
	"github.com/dhamidi/yal/report"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a yarn.lock file and dump the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]

			data, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read lockfile: %w", err)
			}
			input := string(data)

			lf, err := lockfile.Parse(input)
			if err != nil {
				fmt.Fprintln(os.Stderr, report.Render(filename, input, err))
				return fmt.Errorf("parse %s: invalid lockfile", filename)
			}

			var encoder format.Encoder
			switch outputFormat {
			case "json":
				encoder = format.NewJSONEncoder(os.Stdout)
			case "line":
				encoder = format.NewLineEncoder(os.Stdout)
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			if err := encoder.Encode(lf); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			if outputFormat == "json" {
				fmt.Println()
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format (json, line)")

	return cmd
}
