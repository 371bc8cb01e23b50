// SPDX-License-Identifier: MIT

// Package linalg provides the small dense linear algebra the reference fitter
// needs: a row-major Dense matrix and an LU decomposition with partial
// pivoting that solves linear systems and inverts the matrix.
//
// Matrices are tiny (the 3×3 vertex normal equations and their inverse, the vertex covariance), so
// the implementation favours clarity over blocking or SIMD.
//
// Errors:
//
//	ErrInvalidDimensions - non-positive dimensions.
//	ErrIndexOutOfBounds  - At/Set outside the matrix.
//	ErrDimensionMismatch - operands of incompatible shape.
//	ErrSingular          - a pivot vanished during decomposition.
package linalg
