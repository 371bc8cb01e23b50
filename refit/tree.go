// SPDX-License-Identifier: MIT
package refit

import "github.com/katalvlaran/kinfit/solver"

// Particle is a fittable straight-line particle.
type Particle struct {
	state solver.State
	chi2  float64
	ndf   float64
}

// CurrentState implements solver.Particle.
func (p *Particle) CurrentState() solver.State { return p.state }

// Chi2 returns the chi2 accumulated by the particle.
func (p *Particle) Chi2() float64 { return p.chi2 }

// NDF returns the degrees of freedom accumulated by the particle.
func (p *Particle) NDF() float64 { return p.ndf }

// Tree is a one-level decay tree: a top particle, its refitted daughters and
// the decay vertex. The cursor starts on the last daughter.
type Tree struct {
	top      *Particle
	children []*Particle
	vertex   solver.Vertex
	cursor   *Particle
}

func newTree(top *Particle, children []*Particle, v solver.Vertex) *Tree {
	t := &Tree{top: top, children: children, vertex: v, cursor: top}
	if n := len(children); n > 0 {
		t.cursor = children[n-1]
	}

	return t
}

// IsEmpty implements solver.Tree.
func (t *Tree) IsEmpty() bool { return t == nil || t.top == nil }

// MoveToTop implements solver.Tree.
func (t *Tree) MoveToTop() { t.cursor = t.top }

// CurrentParticle implements solver.Tree.
func (t *Tree) CurrentParticle() solver.Particle {
	if t.cursor == nil {
		return nil
	}

	return t.cursor
}

// CurrentDecayVertex implements solver.Tree. Only the top particle has a
// decay vertex; the daughters are final-state particles.
func (t *Tree) CurrentDecayVertex() solver.Vertex {
	if t.cursor != nil && t.cursor == t.top {
		return t.vertex
	}

	return solver.Vertex{}
}

// TopParticle implements solver.Tree.
func (t *Tree) TopParticle() solver.Particle {
	if t.top == nil {
		return nil
	}

	return t.top
}

// Children returns the refitted daughters in input order.
func (t *Tree) Children() []*Particle { return t.children }
