package bench

import (
	"fmt"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"
)

// Baseline is a recorded set of benchmark results, keyed by result name.
type Baseline struct {
	CreatedAt time.Time `yaml:"createdAt"`
	Results   []Result  `yaml:"results"`
}

// Digest fingerprints a benchmark input so baselines recorded against a
// different input are not compared.
func Digest(input string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(input))
}

func WriteBaseline(path string, b *Baseline) error {
	data, err := yaml.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode baseline: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write baseline %s: %w", path, err)
	}
	return nil
}

func ReadBaseline(path string) (*Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read baseline %s: %w", path, err)
	}
	var b Baseline
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode baseline %s: %w", path, err)
	}
	return &b, nil
}

// Regression reports a result whose mean latency exceeds the baseline's
// by more than the comparison threshold.
type Regression struct {
	Name     string
	Baseline time.Duration
	Current  time.Duration
	Ratio    float64
}

// Compare checks current results against a baseline. threshold is the
// allowed ratio of current mean to baseline mean, e.g. 1.2 permits a 20%
// slowdown. Results whose input digest no longer matches the baseline are
// returned as stale instead of being compared.
func Compare(baseline *Baseline, current []Result, threshold float64) (regressions []Regression, stale []string) {
	recorded := make(map[string]Result, len(baseline.Results))
	for _, res := range baseline.Results {
		recorded[res.Name] = res
	}

	for _, res := range current {
		old, ok := recorded[res.Name]
		if !ok {
			continue
		}
		if old.Digest != res.Digest {
			stale = append(stale, res.Name)
			continue
		}
		ratio := float64(res.Mean) / float64(old.Mean)
		if ratio > threshold {
			regressions = append(regressions, Regression{
				Name:     res.Name,
				Baseline: old.Mean,
				Current:  res.Mean,
				Ratio:    ratio,
			})
		}
	}

	return regressions, stale
}
