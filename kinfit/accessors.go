// SPDX-License-Identifier: MIT
package kinfit

import "github.com/katalvlaran/kinfit/solver"

// The read accessors below run the default fit first when the cached fit is
// stale, then read the cached tree.

// IsEmpty reports whether the cached fit holds no tree.
func (c *Candidate) IsEmpty() bool {
	c.ensureFit()

	return c.result.Empty()
}

// IsValidFit reports whether the cached fit has a top particle with a
// valid state.
func (c *Candidate) IsValidFit() bool {
	top := c.TopParticle()
	if top == nil {
		return false
	}

	return top.CurrentState().IsValid()
}

// CurrentParticle returns the particle under the tree cursor, nil when the
// fit is empty.
func (c *Candidate) CurrentParticle() solver.Particle {
	if c.IsEmpty() {
		return nil
	}

	return c.result.Tree.CurrentParticle()
}

// CurrentVertex returns the decay vertex under the tree cursor; the zero
// (invalid) Vertex when the fit is empty.
func (c *Candidate) CurrentVertex() solver.Vertex {
	if c.IsEmpty() {
		return solver.Vertex{}
	}

	return c.result.Tree.CurrentDecayVertex()
}

// TopParticle returns the top particle of the fitted tree, nil when the fit
// is empty.
func (c *Candidate) TopParticle() solver.Particle {
	if c.IsEmpty() {
		return nil
	}

	return c.result.Tree.TopParticle()
}

// TopVertex moves the tree cursor to the top and returns its decay vertex;
// the zero Vertex when the fit is empty.
func (c *Candidate) TopVertex() solver.Vertex {
	if c.IsEmpty() {
		return solver.Vertex{}
	}
	c.result.Tree.MoveToTop()

	return c.result.Tree.CurrentDecayVertex()
}

// Mass returns the fitted mass of the top particle, -1 when there is no
// valid fit.
func (c *Candidate) Mass() float64 {
	top := c.TopParticle()
	if top == nil {
		return Unset
	}
	st := top.CurrentState()
	if !st.IsValid() {
		return Unset
	}

	return st.Mass
}
