// Package bench measures Parse throughput and compares runs against a
// recorded baseline.
package bench

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dhamidi/yal/lockfile"
)

// Result is the latency summary of benchmarking one input.
type Result struct {
	Name        string        `yaml:"name"`
	Digest      string        `yaml:"digest"`
	Bytes       int           `yaml:"bytes"`
	Packages    int           `yaml:"packages"`
	Iterations  int           `yaml:"iterations"`
	Total       time.Duration `yaml:"total"`
	Min         time.Duration `yaml:"min"`
	Mean        time.Duration `yaml:"mean"`
	Median      time.Duration `yaml:"median"`
	P95         time.Duration `yaml:"p95"`
	P99         time.Duration `yaml:"p99"`
	Max         time.Duration `yaml:"max"`
	BytesPerSec float64       `yaml:"bytesPerSec"`
}

// Runner times repeated parses of one input. Zero values fall back to
// 100 iterations with 3 warmup rounds.
type Runner struct {
	Iterations int
	Warmup     int
}

func (r *Runner) Run(name, input string) (Result, error) {
	iterations := r.Iterations
	if iterations <= 0 {
		iterations = 100
	}
	warmup := r.Warmup
	if warmup <= 0 {
		warmup = 3
	}

	lf, err := lockfile.Parse(input)
	if err != nil {
		return Result{}, fmt.Errorf("parse %s: %w", name, err)
	}

	for i := 0; i < warmup; i++ {
		_, _ = lockfile.Parse(input)
	}

	latencies := make([]time.Duration, iterations)
	var total time.Duration
	for i := range latencies {
		start := time.Now()
		if _, err := lockfile.Parse(input); err != nil {
			return Result{}, fmt.Errorf("parse %s: %w", name, err)
		}
		latencies[i] = time.Since(start)
		total += latencies[i]
	}

	min, mean, median, p95, p99, max := summarize(latencies)

	return Result{
		Name:        name,
		Digest:      Digest(input),
		Bytes:       len(input),
		Packages:    len(lf.Packages),
		Iterations:  iterations,
		Total:       total,
		Min:         min,
		Mean:        mean,
		Median:      median,
		P95:         p95,
		P99:         p99,
		Max:         max,
		BytesPerSec: float64(len(input)) / mean.Seconds(),
	}, nil
}

func summarize(latencies []time.Duration) (min, mean, median, p95, p99, max time.Duration) {
	if len(latencies) == 0 {
		return
	}

	sorted := make([]time.Duration, len(latencies))
	copy(sorted, latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	min = sorted[0]
	max = sorted[len(sorted)-1]

	var sum time.Duration
	for _, lat := range sorted {
		sum += lat
	}
	mean = sum / time.Duration(len(sorted))

	median = sorted[len(sorted)/2]
	p95 = sorted[int(float64(len(sorted))*0.95)]
	p99 = sorted[int(float64(len(sorted))*0.99)]

	return
}

// GenerateLockfile synthesizes a parseable lockfile with the given number
// of entries. Output is deterministic for a given count.
func GenerateLockfile(entries int) string {
	var sb strings.Builder
	sb.WriteString("# This file is generated by running \"yarn install\" within your project.\n")
	sb.WriteString("# Manual changes might be lost - proceed with caution!\n\n")
	sb.WriteString("__metadata:\n  version: 8\n  cacheKey: 10c0\n\n")
	for i := 0; i < entries; i++ {
		fmt.Fprintf(&sb, "\"pkg-%d@npm:^1.%d.0\":\n", i, i)
		fmt.Fprintf(&sb, "  version: 1.%d.0\n", i)
		fmt.Fprintf(&sb, "  resolution: \"pkg-%d@npm:1.%d.0\"\n", i, i)
		if i > 0 && i%3 == 0 {
			sb.WriteString("  dependencies:\n")
			fmt.Fprintf(&sb, "    pkg-%d: \"npm:^1.%d.0\"\n", i-1, i-1)
		}
		fmt.Fprintf(&sb, "  checksum: 10c0/%016x\n", uint64(i)*2654435761)
		sb.WriteString("  languageName: node\n")
		sb.WriteString("  linkType: hard\n\n")
	}
	return sb.String()
}
