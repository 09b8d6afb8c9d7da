package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ssoonan/pod-activation-experiment/internal/store"
)

var runsDB string

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List archived analysis runs",
	Long:  `Lists analysis runs previously archived with "timingctl analyze --db".`,
	RunE:  runRuns,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the experiment rows of one archived run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsShowCmd)

	runsCmd.PersistentFlags().StringVar(&runsDB, "db", "", "SQLite database written by analyze --db (required)")
	runsCmd.MarkPersistentFlagRequired("db")
}

func runRuns(cmd *cobra.Command, args []string) error {
	s, err := store.Open(runsDB)
	if err != nil {
		return err
	}
	defer s.Close()

	infos, err := s.ListRuns()
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Println("No archived runs.")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Run ID", "Created", "Results Dir", "Experiments", "Mean Spread (ms)")
	for _, info := range infos {
		table.Append(
			info.ID,
			info.CreatedAt.Format(time.RFC3339),
			info.ResultsDir,
			fmt.Sprintf("%d", info.Experiments),
			fmt.Sprintf("%.3f", info.MeanSpreadMs),
		)
	}
	table.Render()
	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	s, err := store.Open(runsDB)
	if err != nil {
		return err
	}
	defer s.Close()

	run, err := s.GetRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Run %s (%s), results from %s\n", run.ID, run.CreatedAt.Format(time.RFC3339), run.ResultsDir)
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Group", "Experiment", "Records", "Min (ms)", "Max (ms)", "Spread (ms)", "Std (ms)")
	for _, e := range run.Experiments {
		table.Append(
			e.Group,
			e.Experiment,
			fmt.Sprintf("%d", e.Count),
			fmt.Sprintf("%.3f", e.MinMs),
			fmt.Sprintf("%.3f", e.MaxMs),
			fmt.Sprintf("%.3f", e.SpreadMs),
			fmt.Sprintf("%.3f", e.StdMs),
		)
	}
	table.Render()
	return nil
}
