// timing-exporter serves the contents of a shared timing directory as
// Prometheus metrics. Deployed next to the probes so startup spread can be
// scraped while an experiment is still running.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/ssoonan/pod-activation-experiment/internal/exporter"
	"github.com/ssoonan/pod-activation-experiment/internal/probe"
	"github.com/ssoonan/pod-activation-experiment/pkg/logging"
	"github.com/ssoonan/pod-activation-experiment/pkg/shutdown"
)

func main() {
	listen := flag.String("listen", ":9105", "listen address for /metrics")
	dir := flag.String("dir", "", "shared timing directory (default $SHARED_DIR or /shared)")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	logger := logging.NewLogger(logging.ParseLevel(*logLevel), false)

	if *dir == "" {
		if env := os.Getenv(probe.SharedDirEnv); env != "" {
			*dir = env
		} else {
			*dir = probe.DefaultSharedDir
		}
	}

	server := &http.Server{
		Addr:    *listen,
		Handler: exporter.NewRouter(*dir),
	}

	sm := shutdown.New(10 * time.Second)
	sm.Register(shutdown.StopHTTPServer(server, "metrics"))
	ctx := sm.Notify(context.Background())

	go func() {
		logger.Info("exporter listening", map[string]interface{}{
			"addr": *listen,
			"dir":  *dir,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", map[string]interface{}{"error": err.Error()})
			sm.Trigger()
		}
	}()

	<-ctx.Done()
	sm.Shutdown()
	logger.Info("exporter stopped")
}
