// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/kinfit/telemetry"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	logFormat       string
	logLevel        string
	traceExporter   string
	metricsExporter string
}

// app holds what PersistentPreRunE sets up for the subcommands.
type app struct {
	flags    globalFlags
	log      *slog.Logger
	runID    string
	shutdown func(context.Context) error
}

// execute runs root and then flushes telemetry, whether or not the command
// failed.
func execute(ctx context.Context, root *cobra.Command, a *app) error {
	err := root.ExecuteContext(ctx)

	return errors.Join(err, a.close(ctx, root.ErrOrStderr()))
}

// close dumps prometheus metrics when selected and shuts the providers down.
// It is a no-op when telemetry was never initialised.
func (a *app) close(ctx context.Context, w io.Writer) error {
	if a.shutdown == nil {
		return nil
	}
	stop := a.shutdown
	a.shutdown = nil

	var dumpErr error
	if a.flags.metricsExporter == telemetry.ExporterPrometheus {
		dumpErr = dumpMetrics(w)
	}

	return errors.Join(dumpErr, stop(ctx))
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}
	def := telemetry.DefaultConfig()

	root := &cobra.Command{
		Use:           "kinfit",
		Short:         "Constrained kinematic fits of particle decay trees",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), a.flags.logFormat, a.flags.logLevel)
			if err != nil {
				return err
			}
			a.runID = uuid.NewString()
			a.log = logger.With("run_id", a.runID)

			cfg := telemetry.DefaultConfig()
			cfg.ServiceVersion = version
			cfg.TraceExporter = a.flags.traceExporter
			cfg.MetricExporter = a.flags.metricsExporter
			cfg.Writer = cmd.ErrOrStderr()
			stop, err := telemetry.Init(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("init telemetry: %w", err)
			}
			a.shutdown = stop

			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.logFormat, "log-format", "text", "log format: text or json")
	pf.StringVar(&a.flags.logLevel, "log-level", "warn", "minimum log level: debug, info, warn, error")
	pf.StringVar(&a.flags.traceExporter, "trace-exporter", def.TraceExporter, "trace exporter: none, stdout or otlp")
	pf.StringVar(&a.flags.metricsExporter, "metrics-exporter", def.MetricExporter, "metrics exporter: none, stdout or prometheus")

	root.AddCommand(newFitCmd(a), newValidateCmd(), newVersionCmd())

	return root, a
}

func newLogger(w io.Writer, format, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("--log-level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch format {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("--log-format: unknown format %q", format)
	}
}

// dumpMetrics writes the prometheus registry in text exposition format.
func dumpMetrics(w io.Writer) error {
	g := telemetry.Gatherer()
	if g == nil {
		return nil
	}
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "kinfit", version)
		},
	}
}
