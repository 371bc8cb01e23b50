// SPDX-License-Identifier: MIT

// Package telemetry wires OpenTelemetry tracing and metrics for kinfit.
//
// Init installs global tracer and meter providers from a Config; Metrics is
// a kinfit.Observer recording particle builds, fits and momentum
// computations as OTel instruments.
//
//	shutdown, err := telemetry.Init(ctx, telemetry.DefaultConfig())
//	if err != nil {
//	    return fmt.Errorf("init telemetry: %w", err)
//	}
//	defer shutdown(context.Background())
//
//	m, err := telemetry.NewMetrics(otel.Meter(telemetry.InstrumentationName))
//	c, err := kinfit.New(suite, tracks, kinfit.WithObserver(m))
package telemetry
