package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/ssoonan/pod-activation-experiment/internal/probe"
	"github.com/ssoonan/pod-activation-experiment/pkg/shutdown"
)

var (
	podDir  string
	podName string
)

var podCmd = &cobra.Command{
	Use:   "pod",
	Short: "Run the pod timing probe (monotonic clock, stays resident)",
	Long: `Records this pod's startup time using CLOCK_MONOTONIC and stays resident
until SIGINT/SIGTERM so the experiment can keep the pod under observation.

The record lands at <dir>/<identity>.txt with the identity key "pod". The
identity is the pod's hostname unless overridden with --name.`,
	RunE: runPod,
}

func init() {
	rootCmd.AddCommand(podCmd)

	podCmd.Flags().StringVar(&podDir, "dir", "", "target directory (default $SHARED_DIR or /shared)")
	podCmd.Flags().StringVar(&podName, "name", "", "identity override (default is the hostname)")
}

func runPod(cmd *cobra.Command, args []string) error {
	cfg := probe.Pod()
	cfg.Identity = podName
	cfg.Dir = podDir
	if cfg.Dir == "" {
		cfg.Dir = configuredSharedDir()
	}

	sm := shutdown.New(5 * time.Second)
	ctx := sm.Notify(context.Background())
	defer sm.Shutdown()

	return probe.New(cfg).Run(ctx)
}
