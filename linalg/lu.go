// SPDX-License-Identifier: MIT
package linalg

import (
	"fmt"
	"math"
)

// Tolerance is the relative pivot magnitude below which a matrix is treated
// as singular.
const Tolerance = 1e-12

// LU is a Doolittle decomposition P·A = L·U with partial pivoting, stored
// compactly: L below the diagonal (unit diagonal implied), U on and above.
type LU struct {
	n    int
	lu   []float64
	perm []int
}

// Decompose factorizes the square matrix m.
//
// Stage 1 (Validate): m must be square.
// Stage 2 (Prepare): copy m into the compact buffer and find its scale.
// Stage 3 (Execute): for each column pick the largest pivot, swap, eliminate.
//
// Returns ErrSingular when a pivot is below Tolerance relative to the
// largest element of m.
// Complexity: O(n³) time, O(n²) memory.
func Decompose(m Matrix) (*LU, error) {
	rows, cols := m.Rows(), m.Cols()
	if rows != cols {
		return nil, fmt.Errorf("LU: non-square matrix %dx%d: %w", rows, cols, ErrDimensionMismatch)
	}
	n := rows

	f := &LU{n: n, lu: make([]float64, n*n), perm: make([]int, n)}
	var scale float64
	for i := 0; i < n; i++ {
		f.perm[i] = i
		for j := 0; j < n; j++ {
			v, err := m.At(i, j)
			if err != nil {
				return nil, fmt.Errorf("LU: %w", err)
			}
			f.lu[i*n+j] = v
			scale = math.Max(scale, math.Abs(v))
		}
	}
	if scale == 0 {
		return nil, fmt.Errorf("LU: zero matrix: %w", ErrSingular)
	}

	a := f.lu
	for k := 0; k < n; k++ {
		p := k
		for i := k + 1; i < n; i++ {
			if math.Abs(a[i*n+k]) > math.Abs(a[p*n+k]) {
				p = i
			}
		}
		if math.Abs(a[p*n+k]) <= Tolerance*scale {
			return nil, fmt.Errorf("LU: zero pivot at %d: %w", k, ErrSingular)
		}
		if p != k {
			for j := 0; j < n; j++ {
				a[k*n+j], a[p*n+j] = a[p*n+j], a[k*n+j]
			}
			f.perm[k], f.perm[p] = f.perm[p], f.perm[k]
		}
		for i := k + 1; i < n; i++ {
			a[i*n+k] /= a[k*n+k]
			l := a[i*n+k]
			for j := k + 1; j < n; j++ {
				a[i*n+j] -= l * a[k*n+j]
			}
		}
	}

	return f, nil
}

// Solve returns x with A·x = b.
// Forward substitution on L, then backward substitution on U.
func (f *LU) Solve(b []float64) ([]float64, error) {
	n := f.n
	if len(b) != n {
		return nil, fmt.Errorf("Solve: %d equations, %d values: %w", n, len(b), ErrDimensionMismatch)
	}
	x := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := b[f.perm[i]]
		for k := 0; k < i; k++ {
			sum -= f.lu[i*n+k] * x[k]
		}
		x[i] = sum
	}
	for i := n - 1; i >= 0; i-- {
		sum := x[i]
		for k := i + 1; k < n; k++ {
			sum -= f.lu[i*n+k] * x[k]
		}
		x[i] = sum / f.lu[i*n+i]
	}

	return x, nil
}

// Inverse returns the inverse of the decomposed matrix, solving one identity
// column at a time.
// Complexity: O(n³) time, O(n²) memory.
func (f *LU) Inverse() (*Dense, error) {
	inv, err := NewDense(f.n, f.n)
	if err != nil {
		return nil, fmt.Errorf("Inverse: %w", err)
	}
	e := make([]float64, f.n)
	for col := 0; col < f.n; col++ {
		for i := range e {
			e[i] = 0
		}
		e[col] = 1
		x, err := f.Solve(e)
		if err != nil {
			return nil, fmt.Errorf("Inverse: %w", err)
		}
		for i := 0; i < f.n; i++ {
			inv.data[i*f.n+col] = x[i]
		}
	}

	return inv, nil
}
