// SPDX-License-Identifier: MIT
package refit

import (
	"github.com/katalvlaran/kinfit/decay"
	"github.com/katalvlaran/kinfit/lorentz"
	"github.com/katalvlaran/kinfit/solver"
)

// Track is a straight-line track.
type Track struct {
	Point    lorentz.Vector3
	Momentum lorentz.Vector3
	Charge   int
}

// Measured is a reconstructed particle carrying tracks keyed by source code
// ('c', 'f', 'h', 'p', 'm', 'i', 'g'; see decay.DefaultSearchList).
// It implements decay.Particle.
type Measured struct {
	Name   string
	M      float64
	Tracks map[byte]*Track
}

// NewMeasured returns a particle with a single track of the given source.
func NewMeasured(name string, mass float64, source byte, t Track) *Measured {
	return &Measured{Name: name, M: mass, Tracks: map[byte]*Track{source: &t}}
}

// Mass implements decay.Particle.
func (m *Measured) Mass() float64 { return m.M }

// P4 implements decay.Particle. The four-momentum is taken from the best
// track in the default search order; a trackless particle is at rest.
func (m *Measured) P4() lorentz.P4 {
	if t, ok := m.track(decay.DefaultSearchList); ok {
		return lorentz.FromMomentum(t.Momentum, m.M)
	}

	return lorentz.FromMomentum(lorentz.Vector3{}, m.M)
}

func (m *Measured) track(searchList string) (*Track, bool) {
	for i := 0; i < len(searchList); i++ {
		if t, ok := m.Tracks[searchList[i]]; ok && t != nil {
			return t, true
		}
	}

	return nil, false
}

// Tracks is the decay.TrackSource for Measured particles: it returns the
// first track found walking the search list. Other particle types have no
// track.
var Tracks = decay.TrackSourceFunc(func(p decay.Particle, searchList string) (solver.Track, bool) {
	m, ok := p.(*Measured)
	if !ok {
		return nil, false
	}
	t, ok := m.track(searchList)
	if !ok {
		return nil, false
	}

	return *t, true
})
