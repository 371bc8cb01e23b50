// SPDX-License-Identifier: MIT
package kinfit

import "github.com/katalvlaran/kinfit/lorentz"

// TotalMomentum returns the total four-momentum of the candidate, computing
// it first when stale.
//
// With a valid fit it is the top particle's fitted momentum put on shell with
// the fitted mass. Otherwise it is the plain sum of the own daughters'
// four-momenta and of every composite's TotalMomentum.
func (c *Candidate) TotalMomentum() lorentz.P4 {
	if c.stale.momentum {
		c.computeMomentum()
	}

	return c.p4
}

// P4 is an alias of TotalMomentum, so a Candidate reads like any other
// particle.
func (c *Candidate) P4() lorentz.P4 {
	return c.TotalMomentum()
}

func (c *Candidate) computeMomentum() {
	fallback := !c.IsValidFit()
	if !fallback {
		st := c.TopParticle().CurrentState()
		c.p4 = lorentz.FromMomentum(st.Momentum, st.Mass)
	} else {
		c.log.Info("simple momentum sum computed", "category", CategoryFitNotFound,
			"op", "TotalMomentum")
		var total lorentz.P4
		daughters := c.node.Daughters()
		for i := len(daughters) - 1; i >= 0; i-- {
			total = total.Add(daughters[i].P4())
		}
		for i := len(c.comps) - 1; i >= 0; i-- {
			total = total.Add(c.comps[i].TotalMomentum())
		}
		c.p4 = total
	}
	c.stale.momentum = false
	c.obs.MomentumDone(fallback)
}
