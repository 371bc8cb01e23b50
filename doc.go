// SPDX-License-Identifier: MIT

// Package kinfit is the module root of a constrained kinematic-fit
// orchestrator for particle decay trees.
//
// What is it?
//
//	A candidate (B_s → J/ψ φ, Λ_b → J/ψ p K, ...) is a tree of measured
//	daughters and composite sub-candidates. kinfit flattens that tree into
//	fittable particles, picks a mass constraint from a requested mass and
//	width, drives a vertex fitter through a one- or two-stage fit, and
//	caches the result until the inputs change.
//
// Under the hood the work is split across these packages:
//
//	lorentz/   - three- and four-vectors
//	solver/    - the fitter interfaces and the constraint variants
//	decay/     - named daughters, composites and hierarchical lookup
//	kinfit/    - Candidate: particle building, constraint selection, fit, cache
//	linalg/    - dense matrices and LU solves
//	refit/     - a straight-line reference fitter implementing solver
//	config/    - YAML decay descriptions
//	telemetry/ - OpenTelemetry setup and a metrics Observer
//	cmd/kinfit - the command-line front end
//
// Quick start:
//
//	suite := refit.NewSuite()
//	jpsi, _ := kinfit.New(suite, refit.Tracks)
//	_ = jpsi.AddLeaf("mu+", muPlus, -1, -1)
//	_ = jpsi.AddLeaf("mu-", muMinus, -1, -1)
//	jpsi.SetMassConstraint(3.0969, -1)
//	fmt.Println(jpsi.Mass(), jpsi.TopVertex().Position)
package kinfit
