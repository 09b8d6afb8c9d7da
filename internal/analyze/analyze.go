// Package analyze computes startup-spread statistics over trees of timing
// records, one experiment per directory:
//
//	<results-dir>/<group>/<experiment>/<identity>.txt
//
// All times are reported in milliseconds.
package analyze

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/ssoonan/pod-activation-experiment/internal/record"
)

// Experiment holds the statistics of one experiment directory.
type Experiment struct {
	Name     string  `json:"name" yaml:"name"`
	Count    int     `json:"count" yaml:"count"`
	MinMs    float64 `json:"min_ms" yaml:"min_ms"`
	MaxMs    float64 `json:"max_ms" yaml:"max_ms"`
	SpreadMs float64 `json:"max_spread_ms" yaml:"max_spread_ms"`
	StdMs    float64 `json:"std_ms" yaml:"std_ms"`
}

// Group is a named set of experiments run under the same conditions.
type Group struct {
	Name        string       `json:"name" yaml:"name"`
	Experiments []Experiment `json:"experiments" yaml:"experiments"`
}

// Distribution summarizes one statistic across a group's experiments.
type Distribution struct {
	MeanMs   float64 `json:"mean_ms" yaml:"mean_ms"`
	MedianMs float64 `json:"median_ms" yaml:"median_ms"`
	MinMs    float64 `json:"min_ms" yaml:"min_ms"`
	MaxMs    float64 `json:"max_ms" yaml:"max_ms"`
}

// Summary aggregates spread and stddev across all experiments of a group.
type Summary struct {
	Group  string       `json:"group" yaml:"group"`
	Runs   int          `json:"runs" yaml:"runs"`
	Spread Distribution `json:"max_spread" yaml:"max_spread"`
	Std    Distribution `json:"std" yaml:"std"`
}

// ReadExperiment reads every record file in dir and computes its stats.
// Files that do not parse as timing records are skipped.
func ReadExperiment(dir string) (Experiment, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return Experiment{}, err
	}

	var times []float64
	for _, path := range paths {
		rec, err := record.ReadFile(path)
		if err != nil {
			continue
		}
		times = append(times, rec.Start.Millis())
	}

	if len(times) == 0 {
		return Experiment{}, fmt.Errorf("no timing records in %s", dir)
	}

	sort.Float64s(times)
	return Experiment{
		Name:     filepath.Base(dir),
		Count:    len(times),
		MinMs:    times[0],
		MaxMs:    times[len(times)-1],
		SpreadMs: times[len(times)-1] - times[0],
		StdMs:    sampleStdDev(times),
	}, nil
}

// ReadTree walks a results directory. When root itself contains record files
// it is treated as a single anonymous experiment; otherwise every
// subdirectory is a group and every directory below it an experiment.
// Directories without records are skipped.
func ReadTree(root string) ([]Group, error) {
	if exp, err := ReadExperiment(root); err == nil {
		return []Group{{Name: filepath.Base(root), Experiments: []Experiment{exp}}}, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading results dir: %w", err)
	}

	var groups []Group
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		group, err := readGroup(filepath.Join(root, entry.Name()))
		if err != nil {
			return nil, err
		}
		if len(group.Experiments) > 0 {
			groups = append(groups, group)
		}
	}

	if len(groups) == 0 {
		return nil, fmt.Errorf("no timing records found under %s", root)
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups, nil
}

func readGroup(dir string) (Group, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Group{}, err
	}

	group := Group{Name: filepath.Base(dir)}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		exp, err := ReadExperiment(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		group.Experiments = append(group.Experiments, exp)
	}

	sort.Slice(group.Experiments, func(i, j int) bool {
		return group.Experiments[i].Name < group.Experiments[j].Name
	})
	return group, nil
}

// Summarize aggregates spread and stddev distributions per group.
func Summarize(groups []Group) []Summary {
	summaries := make([]Summary, 0, len(groups))
	for _, g := range groups {
		var spreads, stds []float64
		for _, e := range g.Experiments {
			spreads = append(spreads, e.SpreadMs)
			stds = append(stds, e.StdMs)
		}
		summaries = append(summaries, Summary{
			Group:  g.Name,
			Runs:   len(g.Experiments),
			Spread: distribution(spreads),
			Std:    distribution(stds),
		})
	}
	return summaries
}

func distribution(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return Distribution{
		MeanMs:   mean(sorted),
		MedianMs: median(sorted),
		MinMs:    sorted[0],
		MaxMs:    sorted[len(sorted)-1],
	}
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// median expects sorted input.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// sampleStdDev is the n-1 standard deviation. A single sample has no spread,
// so it reports 0 rather than NaN.
func sampleStdDev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(n-1))
}
