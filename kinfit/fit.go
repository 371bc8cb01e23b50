// SPDX-License-Identifier: MIT
package kinfit

import (
	"errors"
	"fmt"
	"time"

	"github.com/katalvlaran/kinfit/solver"
)

// FitTree returns the cached fit, running the default fit first when the
// cache is stale. The default fit covers every daughter under the
// candidate's own mass constraint.
func (c *Candidate) FitTree() Result {
	c.ensureFit()

	return c.result
}

// Refit runs the default fit unconditionally and caches its result.
func (c *Candidate) Refit() Result {
	return c.FitTreeMass("", c.mass, c.sigma)
}

// FitTreeMass fits with the constraint SelectConstraint picks for group,
// mass and sigma. An empty group means the whole candidate.
// The result replaces the cached fit.
func (c *Candidate) FitTreeMass(group string, mass, sigma float64) Result {
	return c.fit(group, SelectConstraint(c.GroupSize(group), mass, sigma))
}

// FitTreeWith fits with an explicit constraint (nil for vertex-only).
// A solver.MultiTrackConstraint is fitted together with the vertex over the
// whole candidate, the group's declared daughters first; a
// solver.ParticleConstraint is applied to the group before the remaining
// daughters join it. The result replaces the cached fit.
func (c *Candidate) FitTreeWith(group string, con solver.Constraint) Result {
	return c.fit(group, con)
}

func (c *Candidate) ensureFit() {
	if c.stale.fit {
		c.Refit()
	}
}

// fit runs one fit attempt and stores its result. The cache is cleared and
// marked fresh before the attempt, so a failure leaves it empty.
func (c *Candidate) fit(group string, con solver.Constraint) Result {
	c.result = Result{}
	c.stale.fit = false
	c.stale.momentum = true

	start := time.Now()
	r := c.runFit(group, con)
	if errors.Is(r.Err, ErrFitFailed) || errors.Is(r.Err, ErrSolverPanic) {
		c.log.Warn("kin fit reset", "category", CategoryFitFailed,
			"op", "fit", "group", group, "constraint", solver.KindOf(con).String(), "err", r.Err)
	}
	c.result = r
	c.obs.FitDone(solver.KindOf(con), r, time.Since(start))

	return r
}

// runFit partitions the particles and dispatches on the constraint family.
//
// Stage 1: refresh the particle list; an empty or incomplete build fails
// fast without reaching the solver.
// Stage 2: resolve the group into "group/<daughter>" names plus "*".
// Stage 3: multi-track constraints → single-stage constrained vertex fit;
// everything else → component/tail two-stage fit.
func (c *Candidate) runFit(group string, con solver.Constraint) Result {
	c.refreshParticles()
	if len(c.node.FullDaughters()) == 0 {
		return Result{Err: ErrNoDaughters}
	}
	if !c.complete() {
		return Result{Err: fmt.Errorf("%w: %d particles for %d daughters",
			ErrIncompleteBuild, len(c.particles), len(c.node.FullDaughters()))}
	}

	var names []string
	split := len(c.particles)
	if group != "" {
		comp, ok := c.node.Composite(group)
		if !ok {
			c.log.Warn("daughter not found", "category", CategoryParticleNotFound,
				"op", "fit", "name", group)
			return Result{Err: fmt.Errorf("%w: %q", ErrGroupNotFound, group)}
		}
		declared := comp.Decay().DaughterNames()
		names = make([]string, 0, len(declared)+1)
		for _, d := range declared {
			names = append(names, group+"/"+d)
		}
		names = append(names, "*")
		split = len(declared)
	}

	switch k := con.(type) {
	case nil:
	case solver.MultiTrackConstraint:
		if names == nil {
			names = []string{"*"}
		}
		list := c.FittedParticlesNamed(names...)
		return c.guard(func() Result {
			tree, err := c.suite.Constrained.FitConstrained(list, k)
			if err != nil {
				return Result{Err: fmt.Errorf("%w: constrained vertex fit: %w", ErrFitFailed, err)}
			}
			if solver.IsEmptyTree(tree) {
				return Result{Err: ErrComponentFit}
			}
			return Result{Tree: tree}
		})
	case solver.ParticleConstraint:
	default:
		return Result{Err: fmt.Errorf("%w: %s", ErrUnsupported, k.Kind())}
	}

	var comp, tail []solver.Particle
	if names == nil {
		comp = append(comp, c.particles...)
	} else {
		all := c.FittedParticlesNamed(names...)
		if len(all) < split {
			return Result{Err: fmt.Errorf("%w: group %q resolved %d of %d daughters",
				ErrIncompleteBuild, group, len(all), split)}
		}
		comp, tail = all[:split:split], all[split:]
	}
	pc, _ := con.(solver.ParticleConstraint)

	return c.guard(func() Result { return c.twoStage(comp, tail, pc) })
}

// twoStage fits the component, applies pc to it when given, then fits the
// constrained component together with the tail.
func (c *Candidate) twoStage(comp, tail []solver.Particle, pc solver.ParticleConstraint) Result {
	tree, err := c.suite.Vertex.FitVertex(comp)
	if err != nil {
		return Result{Err: fmt.Errorf("%w: component vertex fit: %w", ErrFitFailed, err)}
	}
	if solver.IsEmptyTree(tree) {
		return Result{Err: ErrComponentFit}
	}
	if pc != nil {
		tree, err = c.suite.Particle.FitParticle(pc, tree)
		if err != nil {
			return Result{Err: fmt.Errorf("%w: constrained refit: %w", ErrFitFailed, err)}
		}
		if solver.IsEmptyTree(tree) {
			return Result{Err: ErrConstraintFit}
		}
	}
	tree.MoveToTop()
	if len(tail) == 0 {
		return Result{Tree: tree}
	}

	top := tree.CurrentParticle()
	if top == nil || !top.CurrentState().IsValid() {
		return Result{Err: ErrInvalidTopState}
	}
	final, err := c.suite.Vertex.FitVertex(append(tail, top))
	if err != nil {
		return Result{Err: fmt.Errorf("%w: final vertex fit: %w", ErrFitFailed, err)}
	}
	if solver.IsEmptyTree(final) {
		return Result{Err: ErrTailFit}
	}

	return Result{Tree: final}
}

// guard runs fn and turns a solver panic into an empty result.
func (c *Candidate) guard(fn func() Result) (r Result) {
	defer func() {
		if p := recover(); p != nil {
			r = Result{Err: fmt.Errorf("%w: %v", ErrSolverPanic, p)}
		}
	}()

	return fn()
}
