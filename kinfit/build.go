// SPDX-License-Identifier: MIT
package kinfit

import (
	"github.com/katalvlaran/kinfit/decay"
	"github.com/katalvlaran/kinfit/solver"
)

// buildParticles rebuilds the particle list and both indices from scratch.
//
// Stage 1: drop the previous list and indices.
// Stage 2: flatten own daughters and composites (addParticles).
// Stage 3: clear the particle-list staleness.
func (c *Candidate) buildParticles() {
	expected := len(c.node.FullDaughters())
	c.particles = make([]solver.Particle, 0, expected)
	c.byDaughter = make(map[decay.Particle]int, expected)
	c.byComp = make(map[*Candidate]span, len(c.comps))

	c.addParticles(c.suite.Factory, &c.particles, c.byDaughter, c.byComp)
	c.stale.particles = false
	c.obs.ParticlesBuilt(len(c.particles), expected)
}

// addParticles appends the fittable particles of c to dst: own daughters in
// reverse order, then every composite (reverse order) recursively. Daughters
// without a track are skipped, which leaves dst shorter than the full
// daughter list.
func (c *Candidate) addParticles(f solver.ParticleFactory, dst *[]solver.Particle,
	km map[decay.Particle]int, cm map[*Candidate]span) {
	daughters := c.node.Daughters()
	for i := len(daughters) - 1; i >= 0; i-- {
		d := daughters[i]
		sigma, ok := c.msig[d]
		if !ok || sigma < 0 {
			sigma = DefaultMassSigma
		}
		track, ok := c.node.Track(d)
		if !ok {
			continue
		}
		p, err := f.Particle(track, d.Mass(), 0, 0, sigma)
		if err != nil || p == nil {
			c.log.Debug("particle not built", "op", "buildParticles", "err", err)
			continue
		}
		km[d] = len(*dst)
		*dst = append(*dst, p)
	}
	for i := len(c.comps) - 1; i >= 0; i-- {
		sub := c.comps[i]
		from := len(*dst)
		sub.addParticles(f, dst, km, cm)
		cm[sub] = span{from: from, to: len(*dst)}
	}
}

func (c *Candidate) refreshParticles() {
	if c.stale.particles {
		c.buildParticles()
	}
}

// complete reports whether every daughter got a fittable particle.
func (c *Candidate) complete() bool {
	return len(c.particles) == len(c.node.FullDaughters())
}

// FittedParticles returns the full fittable-particle list, rebuilding it
// first when stale. The returned slice is a copy.
func (c *Candidate) FittedParticles() []solver.Particle {
	c.refreshParticles()

	return append([]solver.Particle(nil), c.particles...)
}

// FittedParticle returns the fittable particle built for a daughter handle
// (own or of any composite).
func (c *Candidate) FittedParticle(d decay.Particle) (solver.Particle, bool) {
	c.refreshParticles()
	i, ok := c.byDaughter[d]
	if !ok {
		return nil, false
	}

	return c.particles[i], true
}

// CompositeParticles returns the particles contributed by the composite
// registered under the (hierarchical) name, in build order.
func (c *Candidate) CompositeParticles(name string) []solver.Particle {
	c.refreshParticles()
	comp, ok := c.node.Composite(name)
	if !ok {
		c.log.Warn("composite not found", "category", CategoryParticleNotFound,
			"op", "CompositeParticles", "name", name)
		return nil
	}
	sub, ok := comp.(*Candidate)
	if !ok {
		return nil
	}
	s, ok := c.byComp[sub]
	if !ok {
		return nil
	}

	return append([]solver.Particle(nil), c.particles[s.from:s.to]...)
}

// FittedParticlesNamed returns the fittable particles of the named
// daughters ("jpsi/mu+" reaches into composites), without duplicates.
//
// The name "*" appends every particle not selected yet, in reverse build
// order, and ends the selection. Unknown names are logged once each and
// skipped. The result is empty when the particle build is incomplete.
func (c *Candidate) FittedParticlesNamed(names ...string) []solver.Particle {
	c.refreshParticles()
	if !c.complete() {
		return nil
	}
	out := make([]solver.Particle, 0, len(c.particles))
	taken := make([]bool, len(c.particles))
	for _, name := range names {
		if name == "*" {
			for j := len(c.particles) - 1; j >= 0; j-- {
				if !taken[j] {
					taken[j] = true
					out = append(out, c.particles[j])
				}
			}
			break
		}
		i, ok := c.lookup(name)
		if !ok {
			c.log.Warn("particle not found", "category", CategoryParticleNotFound,
				"op", "FittedParticlesNamed", "name", name)
			continue
		}
		if taken[i] {
			continue
		}
		taken[i] = true
		out = append(out, c.particles[i])
	}

	return out
}

func (c *Candidate) lookup(name string) (int, bool) {
	d, ok := c.node.Daughter(name)
	if !ok {
		return 0, false
	}
	i, ok := c.byDaughter[d]

	return i, ok
}
