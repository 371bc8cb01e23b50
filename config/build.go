// SPDX-License-Identifier: MIT
package config

import (
	"fmt"

	"github.com/katalvlaran/kinfit/kinfit"
	"github.com/katalvlaran/kinfit/lorentz"
	"github.com/katalvlaran/kinfit/refit"
	"github.com/katalvlaran/kinfit/solver"
)

// Build assembles the candidate tree described by d on suite. Composites are
// built first, bottom-up; every candidate carries its own constraint from
// the file. opts are applied to every candidate of the tree.
func (d *Decay) Build(suite solver.Suite, opts ...kinfit.Option) (*kinfit.Candidate, error) {
	local := append([]kinfit.Option(nil), opts...)
	local = append(local, kinfit.WithMassConstraint(d.Constraint.Mass, d.Constraint.Sigma))
	c, err := kinfit.New(suite, refit.Tracks, local...)
	if err != nil {
		return nil, err
	}
	for _, sub := range d.Composites {
		sc, err := sub.Build(suite, opts...)
		if err != nil {
			return nil, err
		}
		if err := c.AddComposite(sub.Name, sc); err != nil {
			return nil, fmt.Errorf("%s: %w", d.Name, err)
		}
	}
	for _, dd := range d.Daughters {
		if err := c.AddLeafSearch(dd.Name, dd.Measured(), dd.Search, dd.Mass, dd.Sigma); err != nil {
			return nil, fmt.Errorf("%s: %w", d.Name, err)
		}
	}

	return c, nil
}

// Measured returns the reconstructed particle of d. A daughter without track
// yields a particle no track can be found for.
func (d *Daughter) Measured() *refit.Measured {
	mass := d.Mass
	if mass < 0 {
		mass = 0
	}
	m := &refit.Measured{Name: d.Name, M: mass, Tracks: map[byte]*refit.Track{}}
	if d.Track != nil && d.Source != "" {
		m.Tracks[d.Source[0]] = &refit.Track{
			Point:    vec(d.Track.Point),
			Momentum: vec(d.Track.Momentum),
			Charge:   d.Track.Charge,
		}
	}

	return m
}

func vec(a [3]float64) lorentz.Vector3 {
	return lorentz.Vector3{X: a[0], Y: a[1], Z: a[2]}
}
