package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vango-transition/internal/config"
	"github.com/vango-dev/vango-transition/internal/errors"
	"github.com/vango-dev/vango-transition/internal/logging"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalFlags are shared by every command.
type globalFlags struct {
	configDir string
	logLevel  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "vango-transition",
		Short: "Simulate and explore nested CSS transitions",
		Long: `vango-transition drives enter/leave CSS class transitions on nested
component trees.

  • simulate replays a YAML scenario on a virtual clock
  • timing resolves the duration a class list implies
  • serve starts a browser playground backed by a live tree`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.configDir, "config", ".", "Directory containing transition.json or transition.yaml")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Override the configured log level")

	rootCmd.AddCommand(
		simulateCmd(flags),
		timingCmd(),
		serveCmd(flags),
		versionCmd(),
	)
	return rootCmd
}

// load reads the configuration and builds the logger.
func (f *globalFlags) load() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(f.configDir)
	if err != nil {
		return nil, nil, err
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	level, err := cfg.Level()
	if err != nil {
		return nil, nil, err
	}
	return cfg, logging.New(level), nil
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
