// SPDX-License-Identifier: MIT
package solver

import "fmt"

// ConstraintKind discriminates the Constraint variants.
type ConstraintKind uint8

const (
	// Unconstrained is the kind of a nil Constraint: vertex-only fit.
	Unconstrained ConstraintKind = iota

	// FixedMass is a single mass constraint on the fitted top particle.
	FixedMass

	// TwoTrackMass is an invariant-mass constraint on exactly two tracks.
	TwoTrackMass

	// MultiTrackMass is an invariant-mass constraint on N tracks.
	MultiTrackMass

	// CustomMultiTrack is any caller-supplied multi-track constraint.
	CustomMultiTrack
)

var kindNames = [...]string{
	Unconstrained:    "unconstrained",
	FixedMass:        "fixed-mass",
	TwoTrackMass:     "two-track-mass",
	MultiTrackMass:   "multi-track-mass",
	CustomMultiTrack: "custom-multi-track",
}

// String implements fmt.Stringer.
func (k ConstraintKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return fmt.Sprintf("ConstraintKind(%d)", uint8(k))
}

// Constraint is any kinematic constraint understood by a fitter.
type Constraint interface {
	Kind() ConstraintKind
}

// ParticleConstraint constrains the mass of a single, already fitted particle.
// A width of zero means the mass is fixed exactly.
type ParticleConstraint interface {
	Constraint
	ConstrainedMass() (mass, sigma float64)
}

// MultiTrackConstraint constrains the first Tracks() particles handed to a
// ConstrainedVertexFitter.
type MultiTrackConstraint interface {
	Constraint
	Tracks() int
}

// KindOf returns c.Kind(), or Unconstrained for a nil constraint.
func KindOf(c Constraint) ConstraintKind {
	if c == nil {
		return Unconstrained
	}

	return c.Kind()
}

// MassConstraint fixes the mass of the fitted top particle.
type MassConstraint struct {
	Mass  float64
	Sigma float64
}

// Kind implements Constraint.
func (MassConstraint) Kind() ConstraintKind { return FixedMass }

// ConstrainedMass implements ParticleConstraint.
func (c MassConstraint) ConstrainedMass() (float64, float64) { return c.Mass, c.Sigma }

// TwoTrackMassConstraint constrains the invariant mass of two tracks.
type TwoTrackMassConstraint struct {
	Mass  float64
	Sigma float64
}

// Kind implements Constraint.
func (TwoTrackMassConstraint) Kind() ConstraintKind { return TwoTrackMass }

// Tracks implements MultiTrackConstraint.
func (TwoTrackMassConstraint) Tracks() int { return 2 }

// MultiTrackMassConstraint constrains the invariant mass of N tracks.
type MultiTrackMassConstraint struct {
	Mass  float64
	Sigma float64
	N     int
}

// Kind implements Constraint.
func (MultiTrackMassConstraint) Kind() ConstraintKind { return MultiTrackMass }

// Tracks implements MultiTrackConstraint.
func (c MultiTrackMassConstraint) Tracks() int { return c.N }
