package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/vango-dev/vango-transition/internal/config"
	"github.com/vango-dev/vango-transition/internal/playground"
	"github.com/vango-dev/vango-transition/internal/scenario"
	"github.com/vango-dev/vango-transition/pkg/tracing"
	"github.com/vango-dev/vango-transition/pkg/transition"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		addr         string
		scenarioPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the browser playground",
		Long: `Start an HTTP server with a page that toggles a nested transition tree.

Every browser tab gets its own tree and event loop. Class changes are
streamed to the page over a WebSocket as DOM patches.

Examples:
  vango-transition serve
  vango-transition serve --addr :8080 --scenario dialog.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := flags.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Playground.Addr = addr
			}

			pc, err := playgroundConfig(cfg, scenarioPath)
			if err != nil {
				return err
			}
			pc.Logger = logger

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			success("Playground running at http://%s", cfg.Playground.Addr)
			if pc.Registry != nil {
				info("Metrics at http://%s/metrics", cfg.Playground.Addr)
			}
			info("Press Ctrl+C to stop")

			return playground.New(pc).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides the config)")
	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "Scenario file for the tree (default: built-in dialog)")

	return cmd
}

// playgroundConfig maps the loaded configuration onto the server's.
func playgroundConfig(cfg *config.Config, scenarioPath string) (playground.Config, error) {
	frame, err := cfg.Frame()
	if err != nil {
		return playground.Config{}, err
	}
	pc := playground.Config{
		Addr:           cfg.Playground.Addr,
		FrameInterval:  frame,
		AllowedOrigins: cfg.Playground.AllowedOrigins,
	}

	if scenarioPath != "" {
		sc, err := scenario.Load(scenarioPath)
		if err != nil {
			return playground.Config{}, err
		}
		pc.Scenario = sc
	}

	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		pc.Registry = reg
		pc.MetricsNamespace = cfg.Metrics.Namespace
	}

	if cfg.Tracing.Enabled {
		name := cfg.Tracing.TracerName
		pc.NewObserver = func(string) transition.Observer {
			return tracing.New(
				tracing.WithTracerName(name),
				tracing.WithTracerProvider(otel.GetTracerProvider()),
			)
		}
	}
	return pc, nil
}
