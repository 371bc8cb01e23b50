// SPDX-License-Identifier: MIT
package linalg

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrInvalidDimensions indicates that requested matrix dimensions are non-positive.
	ErrInvalidDimensions = errors.New("linalg: dimensions must be > 0")

	// ErrIndexOutOfBounds indicates that a row or column index is outside valid range.
	ErrIndexOutOfBounds = errors.New("linalg: index out of bounds")

	// ErrDimensionMismatch indicates operands whose shapes do not fit together.
	ErrDimensionMismatch = errors.New("linalg: dimension mismatch")

	// ErrSingular indicates a (numerically) singular matrix.
	ErrSingular = errors.New("linalg: matrix is singular")
)

// Matrix is the read/write view the algorithms in this package accept.
type Matrix interface {
	Rows() int
	Cols() int
	At(row, col int) (float64, error)
	Set(row, col int, v float64) error
}

// denseErrorf wraps an underlying error with Dense method context.
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

// Dense is a row-major matrix of float64 values.
type Dense struct {
	r, c int       // number of rows and columns
	data []float64 // flat backing storage, length == r*c
}

// NewDense creates an r×c Dense matrix initialized to zeros.
// Complexity: O(r*c) time and memory.
func NewDense(rows, cols int) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}

	return &Dense{r: rows, c: cols, data: make([]float64, rows*cols)}, nil
}

// Identity returns the n×n identity matrix.
func Identity(n int) (*Dense, error) {
	m, err := NewDense(n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
	}

	return m, nil
}

// Rows returns the number of rows in the matrix.
func (m *Dense) Rows() int { return m.r }

// Cols returns the number of columns in the matrix.
func (m *Dense) Cols() int { return m.c }

// indexOf computes the flat index for (row, col) or returns ErrIndexOutOfBounds.
func (m *Dense) indexOf(method string, row, col int) (int, error) {
	if row < 0 || row >= m.r || col < 0 || col >= m.c {
		return 0, denseErrorf(method, row, col, ErrIndexOutOfBounds)
	}

	return row*m.c + col, nil
}

// At retrieves the element at (row, col).
func (m *Dense) At(row, col int) (float64, error) {
	idx, err := m.indexOf("At", row, col)
	if err != nil {
		return 0, err
	}

	return m.data[idx], nil
}

// Set assigns value v at (row, col).
func (m *Dense) Set(row, col int, v float64) error {
	idx, err := m.indexOf("Set", row, col)
	if err != nil {
		return err
	}
	m.data[idx] = v

	return nil
}

// AddOuter accumulates s·u·vᵀ into m in place. u must have Rows() entries
// and v Cols() entries.
func (m *Dense) AddOuter(s float64, u, v []float64) error {
	if len(u) != m.r || len(v) != m.c {
		return fmt.Errorf("AddOuter: %dx%d with %d,%d: %w", m.r, m.c, len(u), len(v), ErrDimensionMismatch)
	}
	for i := 0; i < m.r; i++ {
		for j := 0; j < m.c; j++ {
			m.data[i*m.c+j] += s * u[i] * v[j]
		}
	}

	return nil
}

// MulVec returns m·x.
// Complexity: O(r*c).
func (m *Dense) MulVec(x []float64) ([]float64, error) {
	if len(x) != m.c {
		return nil, fmt.Errorf("MulVec: %dx%d by %d: %w", m.r, m.c, len(x), ErrDimensionMismatch)
	}
	out := make([]float64, m.r)
	for i := 0; i < m.r; i++ {
		var sum float64
		for j := 0; j < m.c; j++ {
			sum += m.data[i*m.c+j] * x[j]
		}
		out[i] = sum
	}

	return out, nil
}
