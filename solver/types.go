// SPDX-License-Identifier: MIT
package solver

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/kinfit/lorentz"
)

// Sentinel errors shared by solver implementations.
var (
	// ErrIncompleteSuite indicates a Suite with a nil member.
	ErrIncompleteSuite = errors.New("solver: suite is incomplete")

	// ErrTooFewParticles indicates a fit requested with fewer inputs than it needs.
	ErrTooFewParticles = errors.New("solver: too few particles")

	// ErrNotConverged indicates the numerical fit did not converge.
	ErrNotConverged = errors.New("solver: fit did not converge")

	// ErrUnsupportedConstraint indicates a constraint type the fitter cannot apply.
	ErrUnsupportedConstraint = errors.New("solver: unsupported constraint")
)

// Track is the opaque measured-track representation a ParticleFactory
// understands. The orchestration layer only moves it around.
type Track interface{}

// State is the kinematic state of a fitted or measured particle.
type State struct {
	// Valid reports whether the state holds a usable result.
	Valid bool

	// Mass is the particle mass carried by the state.
	Mass float64

	// MassSigma is the mass uncertainty used by the fitter.
	MassSigma float64

	// Momentum is the three-momentum at Position.
	Momentum lorentz.Vector3

	// Position is the reference point of the state.
	Position lorentz.Vector3

	// Charge is the particle charge in units of e.
	Charge int
}

// IsValid reports s.Valid.
func (s State) IsValid() bool { return s.Valid }

// P4 returns the on-shell four-momentum of the state.
func (s State) P4() lorentz.P4 {
	return lorentz.FromMomentum(s.Momentum, s.Mass)
}

// Vertex is a fitted decay vertex. The zero Vertex is invalid.
type Vertex struct {
	Valid    bool
	Position lorentz.Vector3
	// Covariance of Position in x, y, z order. Zero when the fitter does
	// not provide one.
	Covariance [3][3]float64
	Chi2       float64
	NDF        float64
}

// PositionError returns the square roots of the covariance diagonal.
func (v Vertex) PositionError() lorentz.Vector3 {
	return lorentz.Vector3{
		X: math.Sqrt(v.Covariance[0][0]),
		Y: math.Sqrt(v.Covariance[1][1]),
		Z: math.Sqrt(v.Covariance[2][2]),
	}
}

// Particle is a fittable particle produced by a ParticleFactory or by a fit.
type Particle interface {
	// CurrentState returns the latest kinematic state of the particle.
	CurrentState() State
}

// Tree is the result of one fit. It exposes a cursor that starts wherever
// the fitter left it; MoveToTop places it on the top (mother) particle.
type Tree interface {
	IsEmpty() bool
	MoveToTop()
	CurrentParticle() Particle
	CurrentDecayVertex() Vertex
	TopParticle() Particle
}

// ParticleFactory turns a measured track into a fittable particle with the
// given mass hypothesis, initial chi2/ndf and mass uncertainty.
type ParticleFactory interface {
	Particle(track Track, mass, chi2, ndf, sigma float64) (Particle, error)
}

// VertexFitter fits a common vertex to a set of particles.
type VertexFitter interface {
	FitVertex(particles []Particle) (Tree, error)
}

// ParticleFitter applies a constraint to the top particle of a fitted tree.
type ParticleFitter interface {
	FitParticle(c ParticleConstraint, tree Tree) (Tree, error)
}

// ConstrainedVertexFitter fits a vertex and a multi-track constraint together.
type ConstrainedVertexFitter interface {
	FitConstrained(particles []Particle, c MultiTrackConstraint) (Tree, error)
}

// Suite bundles the collaborators the orchestration layer needs.
type Suite struct {
	Factory     ParticleFactory
	Vertex      VertexFitter
	Particle    ParticleFitter
	Constrained ConstrainedVertexFitter
}

// Validate returns ErrIncompleteSuite naming the first missing member.
func (s Suite) Validate() error {
	switch {
	case s.Factory == nil:
		return fmt.Errorf("%w: nil Factory", ErrIncompleteSuite)
	case s.Vertex == nil:
		return fmt.Errorf("%w: nil Vertex fitter", ErrIncompleteSuite)
	case s.Particle == nil:
		return fmt.Errorf("%w: nil Particle fitter", ErrIncompleteSuite)
	case s.Constrained == nil:
		return fmt.Errorf("%w: nil Constrained fitter", ErrIncompleteSuite)
	}

	return nil
}

// IsEmptyTree reports whether t is nil or empty.
func IsEmptyTree(t Tree) bool {
	return t == nil || t.IsEmpty()
}
