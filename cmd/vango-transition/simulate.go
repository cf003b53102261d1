package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/vango-dev/vango-transition/internal/scenario"
	"github.com/vango-dev/vango-transition/pkg/metrics"
	"github.com/vango-dev/vango-transition/pkg/tracing"
)

func simulateCmd(flags *globalFlags) *cobra.Command {
	var (
		showMetrics bool
		showSpans   bool
	)

	cmd := &cobra.Command{
		Use:   "simulate <scenario.yaml>",
		Short: "Replay a scenario on a virtual clock",
		Long: `Replay a YAML scenario against an in-memory document.

Time is virtual: frames and timers advance only as the scenario steps say,
so the printed timeline is the same on every run.

Examples:
  vango-transition simulate dialog.yaml
  vango-transition simulate dialog.yaml --metrics --spans`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd.Context(), cmd.OutOrStdout(), flags, args[0], showMetrics, showSpans)
		},
	}

	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "Print Prometheus metrics after the replay")
	cmd.Flags().BoolVar(&showSpans, "spans", false, "Print one trace span per transition run")

	return cmd
}

func runSimulate(ctx context.Context, w io.Writer, flags *globalFlags, path string, showMetrics, showSpans bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, logger, err := flags.load()
	if err != nil {
		return err
	}
	frame, err := cfg.Frame()
	if err != nil {
		return err
	}

	sc, err := scenario.Load(path)
	if err != nil {
		return err
	}

	opts := []scenario.Option{
		scenario.WithLogger(logger),
		scenario.WithFrameInterval(frame),
	}

	var registry *prometheus.Registry
	if showMetrics {
		registry = prometheus.NewRegistry()
		opts = append(opts, scenario.WithObserver(metrics.New(
			metrics.WithRegistry(registry),
			metrics.WithNamespace(cfg.Metrics.Namespace),
		)))
	}

	spans := &spanPrinter{}
	if showSpans {
		tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(spans))
		defer func() { _ = tp.Shutdown(ctx) }()
		opts = append(opts, scenario.WithObserver(tracing.New(
			tracing.WithTracerProvider(tp),
			tracing.WithTracerName(cfg.Tracing.TracerName),
			tracing.WithContext(ctx),
		)))
	}

	logger.Debug("replaying scenario", "name", sc.Name, "path", path, "frame", frame)
	res, err := scenario.Run(sc, opts...)
	if err != nil {
		return err
	}
	if err := res.Write(w); err != nil {
		return err
	}

	if showSpans {
		if err := spans.write(w); err != nil {
			return err
		}
	}
	if registry != nil {
		if err := writeMetrics(w, registry); err != nil {
			return err
		}
	}
	return nil
}

// writeMetrics prints every gathered family in the text exposition format.
func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	fmt.Fprintln(w, "metrics:")
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

// spanPrinter is a synchronous span exporter that keeps finished spans
// until they are written.
type spanPrinter struct {
	spans []sdktrace.ReadOnlySpan
}

// ExportSpans implements sdktrace.SpanExporter.
func (p *spanPrinter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	p.spans = append(p.spans, spans...)
	return nil
}

// Shutdown implements sdktrace.SpanExporter.
func (p *spanPrinter) Shutdown(context.Context) error { return nil }

// write lists spans with start and end relative to the first span.
func (p *spanPrinter) write(w io.Writer) error {
	if len(p.spans) == 0 {
		return nil
	}
	base := p.spans[0].StartTime()
	for _, s := range p.spans {
		if s.StartTime().Before(base) {
			base = s.StartTime()
		}
	}

	if _, err := fmt.Fprintln(w, "spans:"); err != nil {
		return err
	}
	for _, s := range p.spans {
		var node string
		for _, kv := range s.Attributes() {
			if kv.Key == "vango.transition.node" {
				node = kv.Value.AsString()
			}
		}
		_, err := fmt.Fprintf(w, "  %-18s %-12s %8s -> %8s  %s\n",
			s.Name(), node,
			s.StartTime().Sub(base).Round(time.Millisecond),
			s.EndTime().Sub(base).Round(time.Millisecond),
			s.Status().Code)
		if err != nil {
			return err
		}
	}
	return nil
}
