// SPDX-License-Identifier: MIT

// Package kinfit orchestrates constrained kinematic fits of reconstructed
// decay chains.
//
// A Candidate is a decay candidate whose daughters are measured particles
// (leaf daughters, backed by tracks) or other Candidates (composites). It
// decides what to fit, in which grouping and under which constraint, runs
// the fit through an opaque solver.Suite, and caches the result until the
// candidate changes.
//
// Components:
//
//   - Particle builder   – turns every leaf daughter into a solver.Particle
//     (mass hypothesis, mass sigma, track) and flattens composites
//     recursively into one ordered list with two lookup indices.
//   - Constraint selector – SelectConstraint maps (group size, mass, sigma)
//     to one of the solver.Constraint variants.
//   - Fit orchestrator   – vertex-fits the constrained group ("component"),
//     optionally refits it under a mass constraint, then vertex-fits the
//     result together with the remaining daughters ("tail").
//   - Result cache       – three staleness flags (particles, fit, momentum)
//     so that each derived quantity is recomputed at most once per change.
//   - Momentum aggregator – total four-momentum from the fitted top particle,
//     or the plain sum of the daughters when no valid fit exists.
//
// Failure model:
//
// Expected failures never surface as panics or error returns from the read
// accessors. A failed or impossible fit yields an empty Result whose Err
// field carries one of the sentinels below; missing names are logged and
// skipped; undefined masses read as -1. Panics raised inside the solver are
// recovered and reported as ErrSolverPanic.
//
//	ErrNoDaughters      – the candidate has no daughters; the solver is not called.
//	ErrIncompleteBuild  – fewer fittable particles than daughters (missing track).
//	ErrGroupNotFound    – the named group is not a composite of the candidate.
//	ErrComponentFit     – the component vertex fit returned an empty tree.
//	ErrConstraintFit    – the constrained refit returned an empty tree.
//	ErrInvalidTopState  – the constrained component has no valid state.
//	ErrTailFit          – the final vertex fit returned an empty tree.
//	ErrFitFailed        – the solver returned an error.
//	ErrSolverPanic      – the solver panicked.
//	ErrUnsupported      – the constraint is neither a particle nor a multi-track constraint.
//
// Diagnostics are written to a *slog.Logger with a "category" attribute
// (ParticleNotFound, FitFailed, FitNotFound).
//
// Thread safety:
//
// A Candidate is single-threaded. Read accessors mutate the private cache,
// so even concurrent reads must be serialized by the caller. Composites are
// borrowed and must not be mutated while a parent is in use; call Reset on
// the parent after changing one.
//
// Example:
//
//	jpsi, _ := kinfit.New(suite, tracks, kinfit.WithMassConstraint(3.0969, -1))
//	_ = jpsi.AddLeaf("mu+", muPlus, 0.105658, 1e-6)
//	_ = jpsi.AddLeaf("mu-", muMinus, 0.105658, 1e-6)
//
//	bs, _ := kinfit.New(suite, tracks)
//	_ = bs.AddComposite("JPsi", jpsi)
//	_ = bs.AddLeaf("K+", kPlus, 0.493677, -1)
//	_ = bs.AddLeaf("K-", kMinus, 0.493677, -1)
//
//	res := bs.FitTreeMass("JPsi", 3.0969, -1)
//	if !res.Empty() {
//	    fmt.Println(bs.Mass(), bs.TotalMomentum())
//	}
package kinfit
