// SPDX-License-Identifier: MIT
package decay

import (
	"errors"

	"github.com/katalvlaran/kinfit/lorentz"
	"github.com/katalvlaran/kinfit/solver"
)

// Sentinel errors for decay bookkeeping.
var (
	ErrEmptyName     = errors.New("decay: name is empty or contains '/'")
	ErrDuplicateName = errors.New("decay: duplicate name")
	ErrNilParticle   = errors.New("decay: particle is nil")
	ErrNilComposite  = errors.New("decay: composite is nil")
	ErrCycle         = errors.New("decay: composite would create a cycle")
)

// DefaultSearchList is the track search list used when none is given:
// every track source a reconstructed particle can carry, in priority order.
const DefaultSearchList = "cfhpmig"

// Particle is a measured reconstructed particle. Implementations must be
// comparable (pointer types in practice): the value is used as a map key.
type Particle interface {
	Mass() float64
	P4() lorentz.P4
}

// TrackSource finds the track behind a measured particle.
// searchList tells the source where to look, in order of preference.
type TrackSource interface {
	Track(p Particle, searchList string) (solver.Track, bool)
}

// TrackSourceFunc adapts a function to TrackSource.
type TrackSourceFunc func(p Particle, searchList string) (solver.Track, bool)

// Track implements TrackSource.
func (f TrackSourceFunc) Track(p Particle, searchList string) (solver.Track, bool) {
	return f(p, searchList)
}

// Daughter is the handle a Node creates for every added particle: it keeps
// the source particle and an optional mass hypothesis.
type Daughter struct {
	source Particle
	mass   float64
	p4     lorentz.P4
}

// NewDaughter wraps src. A negative mass keeps the measured mass; otherwise
// the four-momentum is put on shell with the new mass.
func NewDaughter(src Particle, mass float64) *Daughter {
	d := &Daughter{source: src, mass: src.Mass(), p4: src.P4()}
	if mass >= 0 {
		d.mass = mass
		d.p4 = d.p4.WithMass(mass)
	}

	return d
}

// Mass implements Particle.
func (d *Daughter) Mass() float64 { return d.mass }

// P4 implements Particle.
func (d *Daughter) P4() lorentz.P4 { return d.p4 }

// Source returns the measured particle behind d.
func (d *Daughter) Source() Particle { return d.source }
