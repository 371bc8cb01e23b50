// SPDX-License-Identifier: MIT

// Package refit is a small reference implementation of the solver
// interfaces, good enough to drive kinfit end to end without a detector
// toolkit.
//
// Tracks are straight lines: a reference point and a momentum. The vertex
// fit minimizes the summed squared distance of closest approach,
//
//	A = Σ (I − d dᵀ),  b = Σ (I − d dᵀ) p,  A·x = b,
//
// where d is the unit direction and p the reference point of each track.
// Mass constraints rescale the momenta of the constrained tracks by a common
// factor until their invariant mass matches, solved by Newton iteration.
//
// Nothing here models magnetic fields, energy loss or covariance
// propagation; chi2 is computed with a single isotropic position resolution.
package refit
