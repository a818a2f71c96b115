package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dhamidi/yal/bench"
	"github.com/dhamidi/yal/fixtures"
	"github.com/spf13/cobra"
)

func newBenchCmd() *cobra.Command {
	var iterations int
	var warmup int
	var record string
	var baselinePath string
	var threshold float64

	cmd := &cobra.Command{
		Use:   "bench [file]",
		Short: "Benchmark the parser against bundled and generated lockfiles",
		Long: `Benchmark the parser and print latency percentiles per input.

Without arguments every bundled fixture plus two generated lockfiles are
measured. With a file argument only that lockfile is measured.

Use --record to write the results as a baseline, and --baseline to compare
against one; the command fails when a result regressed beyond --threshold.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(args, iterations, warmup, record, baselinePath, threshold)
		},
	}

	cmd.Flags().IntVarP(&iterations, "iterations", "n", 200, "parse iterations per input")
	cmd.Flags().IntVar(&warmup, "warmup", 5, "warmup iterations per input")
	cmd.Flags().StringVar(&record, "record", "", "write results to this baseline file")
	cmd.Flags().StringVar(&baselinePath, "baseline", "", "compare results against this baseline file")
	cmd.Flags().Float64Var(&threshold, "threshold", 1.25, "allowed ratio of mean latency to the baseline")

	return cmd
}

func runBench(args []string, iterations, warmup int, record, baselinePath string, threshold float64) error {
	runner := &bench.Runner{Iterations: iterations, Warmup: warmup}

	var results []bench.Result

	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read lockfile: %w", err)
		}
		res, err := runner.Run(args[0], string(data))
		if err != nil {
			return err
		}
		displayResult(res)
		results = append(results, res)
	} else {
		for _, name := range fixtures.Names() {
			input, err := fixtures.Load(name)
			if err != nil {
				return err
			}
			res, err := runner.Run(name, input)
			if err != nil {
				return err
			}
			displayResult(res)
			results = append(results, res)
		}

		for _, entries := range []int{100, 1000} {
			name := fmt.Sprintf("generated-%d", entries)
			res, err := runner.Run(name, bench.GenerateLockfile(entries))
			if err != nil {
				return err
			}
			displayResult(res)
			results = append(results, res)
		}
	}

	if baselinePath != "" {
		recorded, err := bench.ReadBaseline(baselinePath)
		if err != nil {
			return err
		}
		regressions, stale := bench.Compare(recorded, results, threshold)
		for _, name := range stale {
			fmt.Printf("\n[STALE] %s: input changed since the baseline was recorded\n", name)
		}
		if len(regressions) > 0 {
			fmt.Println("\nRegressions:")
			fmt.Println("------------")
			for _, reg := range regressions {
				fmt.Printf("  %s: %.1fus -> %.1fus (%.2fx)\n", reg.Name, micros(reg.Baseline), micros(reg.Current), reg.Ratio)
			}
			return fmt.Errorf("%d results regressed beyond %.2fx", len(regressions), threshold)
		}
		fmt.Printf("\nAll results within %.2fx of baseline %s\n", threshold, baselinePath)
	}

	if record != "" {
		b := &bench.Baseline{CreatedAt: time.Now(), Results: results}
		if err := bench.WriteBaseline(record, b); err != nil {
			return err
		}
		fmt.Printf("\nRecorded baseline to %s\n", record)
	}

	return nil
}

func displayResult(res bench.Result) {
	fmt.Printf("\n%s:\n", res.Name)
	fmt.Printf("  Input:       %d bytes, %d packages\n", res.Bytes, res.Packages)
	fmt.Printf("  Iterations:  %d in %.2fms\n", res.Iterations, float64(res.Total.Microseconds())/1000)
	fmt.Printf("  Throughput:  %.2f MB/s\n", res.BytesPerSec/(1024*1024))
	fmt.Println("  Latency:")
	fmt.Printf("    Min:     %.1fus\n", micros(res.Min))
	fmt.Printf("    Mean:    %.1fus\n", micros(res.Mean))
	fmt.Printf("    Median:  %.1fus\n", micros(res.Median))
	fmt.Printf("    P95:     %.1fus\n", micros(res.P95))
	fmt.Printf("    P99:     %.1fus\n", micros(res.P99))
	fmt.Printf("    Max:     %.1fus\n", micros(res.Max))
}

func micros(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1000
}
