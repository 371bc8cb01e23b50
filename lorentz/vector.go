// SPDX-License-Identifier: MIT
package lorentz

import (
	"fmt"
	"math"
)

// Vector3 is a Cartesian three-vector. It is used both for positions
// (vertex coordinates) and for three-momenta.
type Vector3 struct {
	X, Y, Z float64
}

// Add returns v + w.
func (v Vector3) Add(w Vector3) Vector3 {
	return Vector3{X: v.X + w.X, Y: v.Y + w.Y, Z: v.Z + w.Z}
}

// Sub returns v − w.
func (v Vector3) Sub(w Vector3) Vector3 {
	return Vector3{X: v.X - w.X, Y: v.Y - w.Y, Z: v.Z - w.Z}
}

// Scale returns s·v.
func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{X: s * v.X, Y: s * v.Y, Z: s * v.Z}
}

// Dot returns the scalar product v·w.
func (v Vector3) Dot(w Vector3) float64 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

// Mag2 returns |v|².
func (v Vector3) Mag2() float64 {
	return v.Dot(v)
}

// Mag returns |v|.
func (v Vector3) Mag() float64 {
	return math.Sqrt(v.Mag2())
}

// Unit returns v/|v|, or the zero vector when |v| == 0.
func (v Vector3) Unit() Vector3 {
	m := v.Mag()
	if m == 0 {
		return Vector3{}
	}

	return v.Scale(1 / m)
}

// String implements fmt.Stringer.
func (v Vector3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// P4 is a four-momentum (Px, Py, Pz, E).
// The zero value is the null four-vector and is the identity of Add.
type P4 struct {
	Px, Py, Pz, E float64
}

// FromPxPyPzE builds a P4 from its Cartesian components.
func FromPxPyPzE(px, py, pz, e float64) P4 {
	return P4{Px: px, Py: py, Pz: pz, E: e}
}

// FromPxPyPzM builds an on-shell P4 from a three-momentum and a mass:
// E = sqrt(px² + py² + pz² + m²).
func FromPxPyPzM(px, py, pz, m float64) P4 {
	return P4{Px: px, Py: py, Pz: pz, E: math.Sqrt(px*px + py*py + pz*pz + m*m)}
}

// FromMomentum builds an on-shell P4 from a three-momentum and a mass.
func FromMomentum(p Vector3, m float64) P4 {
	return FromPxPyPzM(p.X, p.Y, p.Z, m)
}

// Add returns the component-wise sum p + q.
func (p P4) Add(q P4) P4 {
	return P4{Px: p.Px + q.Px, Py: p.Py + q.Py, Pz: p.Pz + q.Pz, E: p.E + q.E}
}

// Momentum returns the spatial part of p.
func (p P4) Momentum() Vector3 {
	return Vector3{X: p.Px, Y: p.Py, Z: p.Pz}
}

// P returns |p⃗|.
func (p P4) P() float64 {
	return p.Momentum().Mag()
}

// Pt returns the transverse momentum sqrt(px² + py²).
func (p P4) Pt() float64 {
	return math.Hypot(p.Px, p.Py)
}

// M2 returns the squared invariant mass E² − |p⃗|².
func (p P4) M2() float64 {
	return p.E*p.E - p.Momentum().Mag2()
}

// Mass returns the invariant mass. For space-like vectors the result is
// −sqrt(|M2|).
func (p P4) Mass() float64 {
	m2 := p.M2()
	if m2 < 0 {
		return -math.Sqrt(-m2)
	}

	return math.Sqrt(m2)
}

// WithMass returns the on-shell four-vector that keeps p's three-momentum
// and carries mass m.
func (p P4) WithMass(m float64) P4 {
	return FromPxPyPzM(p.Px, p.Py, p.Pz, m)
}

// String implements fmt.Stringer.
func (p P4) String() string {
	return fmt.Sprintf("(%g, %g, %g; %g)", p.Px, p.Py, p.Pz, p.E)
}

// Sum adds up any number of four-vectors. Sum() is the zero P4.
func Sum(ps ...P4) P4 {
	var total P4
	for _, p := range ps {
		total = total.Add(p)
	}

	return total
}
