// SPDX-License-Identifier: MIT

// Package solver defines the contract between the fit orchestration layer
// (package kinfit) and the numerical kinematic fitters it drives.
//
// The fitters themselves are opaque: kinfit never looks inside a Particle
// beyond its current State, and never inspects a Tree beyond the cursor
// operations declared here. Any solver that honours these interfaces can be
// plugged in through a Suite; package refit ships a deterministic algebraic
// reference implementation.
//
// Contract summary:
//
//	ParticleFactory.Particle(track, mass, chi2, ndf, sigma) → Particle
//	VertexFitter.FitVertex(particles)                       → Tree
//	ParticleFitter.FitParticle(constraint, tree)            → Tree
//	ConstrainedVertexFitter.FitConstrained(particles, c)    → Tree
//
// A fitter reports an expected failure (no convergence, degenerate input)
// either by returning an empty Tree or by returning an error; both are
// turned into an empty fit result by the caller. Fitters must not retain
// the particle slices they are given.
//
// Constraints:
//
// Constraint is a tagged union discriminated by Kind():
//
//	Unconstrained     – no constraint (a nil Constraint).
//	FixedMass         – MassConstraint, applied to an already fitted tree.
//	TwoTrackMass      – TwoTrackMassConstraint, fitted together with the vertex.
//	MultiTrackMass    – MultiTrackMassConstraint, fitted together with the vertex.
//	CustomMultiTrack  – any caller-supplied MultiTrackConstraint.
//
// ParticleConstraint values go through the two-stage path (vertex fit, then
// refit of the tree); MultiTrackConstraint values go through the single-stage
// constrained vertex fit.
//
// Errors (sentinel):
//
//	ErrIncompleteSuite       – a Suite is missing one of its fitters.
//	ErrTooFewParticles       – a fit was asked for with too few inputs.
//	ErrNotConverged          – the numerical fit did not converge.
//	ErrUnsupportedConstraint – the fitter does not know the constraint type.
package solver
