// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/kinfit/config"
	"github.com/katalvlaran/kinfit/kinfit"
	"github.com/katalvlaran/kinfit/refit"
	"github.com/katalvlaran/kinfit/solver"
	"github.com/katalvlaran/kinfit/telemetry"
)

type fitFlags struct {
	group    string
	mass     float64
	sigma    float64
	json     bool
	parallel int
}

func newFitCmd(a *app) *cobra.Command {
	var f fitFlags
	cmd := &cobra.Command{
		Use:   "fit FILE...",
		Short: "Fit the decay candidates described in YAML files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			over := override{
				group: flagString(cmd, "group", f.group),
				mass:  flagFloat(cmd, "mass", f.mass),
				sigma: flagFloat(cmd, "sigma", f.sigma),
			}
			reports, err := a.fitAll(cmd.Context(), args, over, f.parallel)
			if err != nil {
				return err
			}
			if f.json {
				return writeJSON(cmd.OutOrStdout(), reports)
			}
			writeText(cmd.OutOrStdout(), reports)

			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.group, "group", "", "composite to constrain; overrides the file")
	fl.Float64Var(&f.mass, "mass", kinfit.Unset, "constraint mass in GeV; negative for none; overrides the file")
	fl.Float64Var(&f.sigma, "sigma", kinfit.Unset, "constraint width in GeV; negative for a fixed mass")
	fl.BoolVar(&f.json, "json", false, "print results as JSON")
	fl.IntVar(&f.parallel, "parallel", 1, "number of files fitted concurrently")

	return cmd
}

// override carries the flag values the user set explicitly.
type override struct {
	group       *string
	mass, sigma *float64
}

func flagString(cmd *cobra.Command, name, v string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

func flagFloat(cmd *cobra.Command, name string, v float64) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

// fitAll fits every file, at most parallel at a time. A file that cannot be
// loaded or assembled fails the whole run; a failed fit is reported.
func (a *app) fitAll(ctx context.Context, paths []string, over override, parallel int) ([]report, error) {
	m, err := telemetry.NewMetrics(otel.Meter(telemetry.InstrumentationName))
	if err != nil {
		return nil, err
	}
	if parallel < 1 {
		parallel = 1
	}

	reports := make([]report, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			r, err := a.fitFile(ctx, path, over, m)
			if err != nil {
				return err
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return reports, nil
}

func (a *app) fitFile(ctx context.Context, path string, over override, obs kinfit.Observer) (report, error) {
	_, span := telemetry.StartSpan(ctx, "kinfit.fit", attribute.String("file", path))
	defer span.End()

	d, err := config.Load(path)
	if err != nil {
		telemetry.RecordError(span, err)
		return report{}, err
	}
	log := a.log.With("file", path, "decay", d.Name)
	c, err := d.Build(refit.NewSuite(), kinfit.WithLogger(log), kinfit.WithObserver(obs))
	if err != nil {
		telemetry.RecordError(span, err)
		return report{}, fmt.Errorf("%s: %w", path, err)
	}

	group, mass, sigma := d.Group, d.Constraint.Mass, d.Constraint.Sigma
	if over.group != nil {
		group = *over.group
	}
	if over.mass != nil {
		mass = *over.mass
	}
	if over.sigma != nil {
		sigma = *over.sigma
	}
	r := c.FitTreeMass(group, mass, sigma)
	kind := solver.KindOf(kinfit.SelectConstraint(c.GroupSize(group), mass, sigma))

	span.SetAttributes(
		attribute.String("constraint", kind.String()),
		attribute.String("status", telemetry.Status(r)),
	)
	telemetry.RecordError(span, r.Err)
	log.Debug("fit done", "group", group, "constraint", kind.String(), "status", telemetry.Status(r))

	return newReport(path, d.Name, group, kind, c, r), nil
}
