// SPDX-License-Identifier: MIT
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/katalvlaran/kinfit/kinfit"
	"github.com/katalvlaran/kinfit/solver"
)

// Metrics records candidate activity. It implements kinfit.Observer and is
// safe for concurrent use.
type Metrics struct {
	// BuildsTotal counts particle-list rebuilds by completeness.
	BuildsTotal metric.Int64Counter

	// FitsTotal counts fit attempts by constraint kind and status.
	FitsTotal metric.Int64Counter

	// FitDuration records fit duration in seconds.
	FitDuration metric.Float64Histogram

	// MomentumTotal counts total-momentum computations by source.
	MomentumTotal metric.Int64Counter
}

var _ kinfit.Observer = (*Metrics)(nil)

// NewMetrics registers the instruments with meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.BuildsTotal, err = meter.Int64Counter(
		"kinfit_particle_builds_total",
		metric.WithDescription("Particle list rebuilds"),
		metric.WithUnit("{build}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create particle_builds_total: %w", err)
	}

	m.FitsTotal, err = meter.Int64Counter(
		"kinfit_fits_total",
		metric.WithDescription("Kinematic fit attempts"),
		metric.WithUnit("{fit}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create fits_total: %w", err)
	}

	m.FitDuration, err = meter.Float64Histogram(
		"kinfit_fit_duration_seconds",
		metric.WithDescription("Kinematic fit duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(1e-6, 1e-5, 1e-4, 1e-3, 0.01, 0.1, 1),
	)
	if err != nil {
		return nil, fmt.Errorf("create fit_duration: %w", err)
	}

	m.MomentumTotal, err = meter.Int64Counter(
		"kinfit_momentum_total",
		metric.WithDescription("Total momentum computations"),
		metric.WithUnit("{computation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create momentum_total: %w", err)
	}

	return m, nil
}

// ParticlesBuilt implements kinfit.Observer.
func (m *Metrics) ParticlesBuilt(built, expected int) {
	m.BuildsTotal.Add(context.Background(), 1,
		metric.WithAttributes(attribute.Bool("complete", built == expected)))
}

// FitDone implements kinfit.Observer.
func (m *Metrics) FitDone(kind solver.ConstraintKind, r kinfit.Result, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("constraint", kind.String()),
		attribute.String("status", Status(r)),
	)
	ctx := context.Background()
	m.FitsTotal.Add(ctx, 1, attrs)
	m.FitDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// MomentumDone implements kinfit.Observer.
func (m *Metrics) MomentumDone(fallback bool) {
	source := "fit"
	if fallback {
		source = "sum"
	}
	m.MomentumTotal.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("source", source)))
}

// Status classifies a fit result into a short label.
func Status(r kinfit.Result) string {
	switch {
	case r.Err == nil && r.Valid():
		return "valid"
	case r.Err == nil && !r.Empty():
		return "invalid"
	case r.Err == nil:
		return "empty"
	case errors.Is(r.Err, kinfit.ErrNoDaughters):
		return "no_daughters"
	case errors.Is(r.Err, kinfit.ErrIncompleteBuild):
		return "incomplete"
	case errors.Is(r.Err, kinfit.ErrGroupNotFound):
		return "group_not_found"
	case errors.Is(r.Err, kinfit.ErrComponentFit):
		return "component_empty"
	case errors.Is(r.Err, kinfit.ErrConstraintFit):
		return "constraint_empty"
	case errors.Is(r.Err, kinfit.ErrInvalidTopState):
		return "invalid_top"
	case errors.Is(r.Err, kinfit.ErrTailFit):
		return "tail_empty"
	case errors.Is(r.Err, kinfit.ErrSolverPanic):
		return "panic"
	case errors.Is(r.Err, kinfit.ErrUnsupported):
		return "unsupported"
	case errors.Is(r.Err, kinfit.ErrFitFailed):
		return "solver_error"
	default:
		return "error"
	}
}
