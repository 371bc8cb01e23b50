// SPDX-License-Identifier: MIT

// Package lorentz provides the small kinematic value types shared by every
// other package: three-vectors for positions and momenta, and four-momenta
// (px, py, pz, E) with invariant-mass helpers.
//
// All types are plain values. Methods never mutate the receiver; sums and
// scalings return a new value, so a P4 can be copied and compared freely.
//
// Conventions:
//
//   - Natural units: momenta and masses share one unit (GeV by convention).
//   - Mass() of a space-like four-vector (E² < p²) is reported as the
//     negative square root of |E² − p²|, mirroring the usual ROOT behavior,
//     so a tiny numerical overshoot does not turn into NaN.
//
// Example:
//
//	k := lorentz.FromPxPyPzM(0.3, 0.1, 1.2, 0.493677)
//	pi := lorentz.FromPxPyPzM(-0.2, 0.4, 0.9, 0.13957)
//	fmt.Printf("%.4f\n", k.Add(pi).Mass())
package lorentz
