package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/GregTheMadMonk/mhfe-svt/svt"
)

var (
	logLevel   string // Log verbosity level
	configPath string // Optional YAML view config
	lenient    bool   // Accept frame filenames without a digit run
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "svt",
	Short: "Headless viewer and exporter for VTK simulation output sequences",
	Long: "svt loads directories of numbered VTK frame files written by a CFD solver,\n" +
		"orders them by embedded frame number (so frame 2 plays before frame 10),\n" +
		"and exports or serves the sequence.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.ExecuteContext(signalContext()); err != nil {
		os.Exit(1)
	}
}

// init sets up global CLI flags
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML view config file")
	rootCmd.PersistentFlags().BoolVar(&lenient, "lenient", false, "Order frame names without a digit run bytewise instead of failing")
}

// loadViewConfig returns the view config from --config layered over defaults.
func loadViewConfig() svt.ViewConfig {
	if configPath == "" {
		return svt.DefaultViewConfig()
	}
	cfg, err := svt.LoadViewConfig(configPath)
	if err != nil {
		logrus.Fatalf("%v", err)
	}
	return cfg
}

// loadSeries loads and orders the frames from the directory arguments.
// allowEmpty keeps an empty result from being fatal, for callers that can
// wait for frames to appear.
func loadSeries(ctx context.Context, dirs []string, allowEmpty bool) *svt.Series {
	series, err := svt.LoadSeries(ctx, svt.LoadConfig{
		Lenient: lenient,
		Progress: func(name string, done, total int) {
			logrus.Infof("loaded %s (%d/%d)", name, done, total)
		},
	}, dirs...)
	if err != nil {
		logrus.Fatalf("loading frames: %v", err)
	}
	if series.Len() == 0 && !allowEmpty {
		logrus.Fatalf("no frame files found in %v", dirs)
	}
	return series
}

// signalContext returns a context cancelled by SIGINT/SIGTERM.
func signalContext() context.Context {
	ctx, _ := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	return ctx
}
