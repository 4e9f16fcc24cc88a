package main

import (
	"os"

	"github.com/spf13/cobra"

	"propertyscout/config"
	"propertyscout/internal/app"
	"propertyscout/internal/logger"
)

type rootOptions struct {
	logLevel string
	noColor  bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:          "scout",
		Short:        "Rochester mixed-use investment scoring and due diligence",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override LOG_LEVEL")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable coloured output")

	rootCmd.AddCommand(analyzeCmd(opts))
	rootCmd.AddCommand(parcelCmd(opts))
	rootCmd.AddCommand(checklistCmd(opts))
	rootCmd.AddCommand(compsCmd(opts))
	rootCmd.AddCommand(historyCmd(opts))

	return rootCmd
}

// loadApp reads the configuration and wires the application. CLI logs go
// to stderr as text so they do not mix with command output.
func loadApp(cmd *cobra.Command, opts *rootOptions) (*app.App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	} else if os.Getenv("LOG_LEVEL") == "" {
		level = "warn"
	}
	log := logger.NewWithOutput(level, "text", cmd.ErrOrStderr())

	return app.New(cfg, log)
}
