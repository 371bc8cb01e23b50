// SPDX-License-Identifier: MIT
package kinfit

import "github.com/katalvlaran/kinfit/solver"

// SelectConstraint picks the constraint variant for a group of groupSize
// particles:
//
//	mass < 0              → nil (vertex-only fit)
//	sigma < 0             → solver.MassConstraint with zero width
//	groupSize == 2        → solver.TwoTrackMassConstraint
//	otherwise             → solver.MultiTrackMassConstraint with N = groupSize
func SelectConstraint(groupSize int, mass, sigma float64) solver.Constraint {
	switch {
	case mass < 0:
		return nil
	case sigma < 0:
		return solver.MassConstraint{Mass: mass}
	case groupSize == 2:
		return solver.TwoTrackMassConstraint{Mass: mass, Sigma: sigma}
	default:
		return solver.MultiTrackMassConstraint{Mass: mass, Sigma: sigma, N: groupSize}
	}
}

// GroupSize is the number of particles a constraint on group applies to:
// the declared daughters of the named composite, or every daughter of c.
// An unknown group has size 0; the fit reports it.
func (c *Candidate) GroupSize(group string) int {
	if group == "" {
		return len(c.node.FullDaughters())
	}
	comp, ok := c.node.Composite(group)
	if !ok {
		return 0
	}

	return len(comp.Decay().DaughterNames())
}
