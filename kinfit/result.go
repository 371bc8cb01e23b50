// SPDX-License-Identifier: MIT
package kinfit

import "github.com/katalvlaran/kinfit/solver"

// Result is the outcome of one fit: a tree, or an empty result and the
// reason it is empty.
type Result struct {
	// Tree is the fitted tree; nil when the fit did not produce one.
	Tree solver.Tree

	// Err explains an empty result. It is nil for a successful fit.
	Err error
}

// Empty reports whether the result holds no usable tree.
func (r Result) Empty() bool {
	return solver.IsEmptyTree(r.Tree)
}

// Valid reports whether the result is non-empty and its top particle has a
// valid state.
func (r Result) Valid() bool {
	if r.Empty() {
		return false
	}
	top := r.Tree.TopParticle()

	return top != nil && top.CurrentState().IsValid()
}
