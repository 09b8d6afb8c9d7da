package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ssoonan/pod-activation-experiment/internal/analyze"
	"github.com/ssoonan/pod-activation-experiment/internal/store"
)

var (
	analyzeOutput string
	analyzeDB     string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <results-dir>",
	Short: "Compute startup spread statistics over recorded timing data",
	Long: `Walks a results tree of the form <results-dir>/<group>/<experiment>/*.txt
(or a flat directory of records) and computes per-experiment startup
statistics: record count, min/max start time, max spread and sample standard
deviation, all in milliseconds. Group summaries aggregate the spread and
stddev distributions across experiments.

With --db, the run is also archived to a SQLite database for later
comparison via "timingctl runs".`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "table", "output format: table, json or yaml")
	analyzeCmd.Flags().StringVar(&analyzeDB, "db", "", "SQLite database to archive this run into")
}

// analysisReport is the machine-readable output shape.
type analysisReport struct {
	Groups    []analyze.Group   `json:"groups" yaml:"groups"`
	Summaries []analyze.Summary `json:"summaries" yaml:"summaries"`
	RunID     string            `json:"run_id,omitempty" yaml:"run_id,omitempty"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	resultsDir := args[0]

	groups, err := analyze.ReadTree(resultsDir)
	if err != nil {
		return err
	}

	report := analysisReport{
		Groups:    groups,
		Summaries: analyze.Summarize(groups),
	}

	if analyzeDB != "" {
		runID, err := archiveRun(resultsDir, groups)
		if err != nil {
			return err
		}
		report.RunID = runID
	}

	switch analyzeOutput {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)

	case "yaml":
		encoder := yaml.NewEncoder(os.Stdout)
		encoder.SetIndent(2)
		return encoder.Encode(report)

	default:
		renderReport(report)
		return nil
	}
}

func archiveRun(resultsDir string, groups []analyze.Group) (string, error) {
	s, err := store.Open(analyzeDB)
	if err != nil {
		return "", fmt.Errorf("opening run database: %w", err)
	}
	defer s.Close()

	run := store.NewRun(resultsDir, groups)
	if err := s.SaveRun(run); err != nil {
		return "", fmt.Errorf("archiving run: %w", err)
	}
	return run.ID, nil
}

func renderReport(report analysisReport) {
	fmt.Println("Experiment statistics:")
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Group", "Experiment", "Records", "Min (ms)", "Max (ms)", "Spread (ms)", "Std (ms)")
	for _, g := range report.Groups {
		for _, e := range g.Experiments {
			table.Append(
				g.Name,
				e.Name,
				fmt.Sprintf("%d", e.Count),
				fmt.Sprintf("%.3f", e.MinMs),
				fmt.Sprintf("%.3f", e.MaxMs),
				fmt.Sprintf("%.3f", e.SpreadMs),
				fmt.Sprintf("%.3f", e.StdMs),
			)
		}
	}
	table.Render()

	fmt.Println()
	fmt.Println("Group summaries:")
	summary := tablewriter.NewWriter(os.Stdout)
	summary.Header("Group", "Runs", "Spread mean", "Spread median", "Spread min", "Spread max", "Std mean", "Std median")
	for _, s := range report.Summaries {
		summary.Append(
			s.Group,
			fmt.Sprintf("%d", s.Runs),
			fmt.Sprintf("%.3f", s.Spread.MeanMs),
			fmt.Sprintf("%.3f", s.Spread.MedianMs),
			fmt.Sprintf("%.3f", s.Spread.MinMs),
			fmt.Sprintf("%.3f", s.Spread.MaxMs),
			fmt.Sprintf("%.3f", s.Std.MeanMs),
			fmt.Sprintf("%.3f", s.Std.MedianMs),
		)
	}
	summary.Render()

	if report.RunID != "" {
		fmt.Println()
		fmt.Printf("Archived as run %s\n", report.RunID)
	}
}
