package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/ssoonan/pod-activation-experiment/internal/probe"
	"github.com/ssoonan/pod-activation-experiment/internal/watch"
	"github.com/ssoonan/pod-activation-experiment/pkg/shutdown"
)

var (
	watchExpect   int
	watchInterval time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a shared directory for timing records as probes come up",
	Long: `Polls the shared directory and logs every timing record as it appears.
With --expect, the watch exits successfully once that many records have been
observed; otherwise it runs until SIGINT/SIGTERM.

Example:
  timingctl watch /shared --expect 50 --interval 500ms`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().IntVar(&watchExpect, "expect", 0, "stop after this many records (0 = watch forever)")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", time.Second, "poll interval")
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := configuredSharedDir()
	if len(args) == 1 {
		dir = args[0]
	}
	if dir == "" {
		dir = probe.DefaultSharedDir
	}

	logger := newLogger().WithField("dir", dir)

	sm := shutdown.New(5 * time.Second)
	ctx := sm.Notify(context.Background())

	logger.Info("watching for timing records", map[string]interface{}{
		"expect":   watchExpect,
		"interval": watchInterval.String(),
	})

	w := watch.New(dir, watchInterval)
	err := w.Run(ctx, watchExpect, func(e watch.Event) {
		logger.Info("record observed", map[string]interface{}{
			"identity": e.Record.Identity,
			"key":      e.Record.IdentityKey,
			"start":    e.Record.Start.Format(),
			"seen":     w.Seen(),
		})
	})

	// A signal is a normal way to leave an open-ended watch.
	if err == context.Canceled {
		err = nil
	}
	if err == nil {
		logger.Info("watch finished", map[string]interface{}{"records": w.Seen()})
	}
	return err
}
