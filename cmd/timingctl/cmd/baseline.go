package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ssoonan/pod-activation-experiment/internal/probe"
)

var (
	baselineDir  string
	baselineName string
)

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Run the baseline timing probe (realtime clock, exits after writing)",
	Long: `Records this process's startup time using CLOCK_REALTIME and exits as soon
as the record is written. Used outside the cluster to measure plain process
startup as a reference point.

The record lands at <dir>/<identity>.txt with the identity key "process".
The identity comes from --name, then HOSTNAME, then the OS hostname.`,
	RunE: runBaseline,
}

func init() {
	rootCmd.AddCommand(baselineCmd)

	baselineCmd.Flags().StringVar(&baselineDir, "dir", "", "target directory (default $SHARED_DIR or /shared)")
	baselineCmd.Flags().StringVar(&baselineName, "name", "", "identity override (default $HOSTNAME or the hostname)")
}

func runBaseline(cmd *cobra.Command, args []string) error {
	cfg := probe.Baseline()
	cfg.Identity = baselineName
	if cfg.Identity == "" {
		cfg.Identity = configuredIdentity()
	}
	cfg.Dir = baselineDir
	if cfg.Dir == "" {
		cfg.Dir = configuredSharedDir()
	}

	return probe.New(cfg).Run(context.Background())
}
