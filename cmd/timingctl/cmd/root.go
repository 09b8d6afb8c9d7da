package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ssoonan/pod-activation-experiment/pkg/logging"
)

var (
	cfgFile  string
	logLevel string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "timingctl",
	Short: "Startup timing probes and experiment tooling",
	Long: `timingctl measures how fast a fleet of pods or processes comes up.

The pod and baseline subcommands run the timing probe itself: they record the
process's identity and start time into a shared directory. The remaining
subcommands operate on the recorded data (analyze, watch, runs) or inspect
the host (hostinfo).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.podtiming/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".podtiming"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	viper.AutomaticEnv()

	// The probes' historical environment contract.
	viper.BindEnv("shared_dir", "SHARED_DIR")
	viper.BindEnv("hostname", "HOSTNAME")

	// Missing config file is fine; env and flags still apply.
	_ = viper.ReadInConfig()
}

// configuredSharedDir returns the shared directory from config file or
// SHARED_DIR, or "" when neither is set.
func configuredSharedDir() string {
	return viper.GetString("shared_dir")
}

// configuredIdentity returns the identity override from config file or
// HOSTNAME, or "" when neither is set.
func configuredIdentity() string {
	return viper.GetString("hostname")
}

func newLogger() *logging.Logger {
	return logging.NewLogger(logging.ParseLevel(logLevel), false)
}
