// SPDX-License-Identifier: MIT
package refit

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/kinfit/linalg"
	"github.com/katalvlaran/kinfit/lorentz"
	"github.com/katalvlaran/kinfit/solver"
)

// Default tuning.
const (
	DefaultResolution    = 0.01 // cm, isotropic position resolution
	DefaultMaxIterations = 50
	DefaultTolerance     = 1e-9 // GeV, mass residual at convergence
)

// ErrBadTrack indicates a factory input that is not a refit Track or has
// zero momentum.
var ErrBadTrack = errors.New("refit: track is not usable")

// Option configures a Fitter.
type Option func(*Fitter)

// WithResolution sets the position resolution used for chi2.
func WithResolution(r float64) Option {
	return func(f *Fitter) {
		if r > 0 {
			f.resolution = r
		}
	}
}

// WithMaxIterations bounds the Newton iterations of a mass constraint.
func WithMaxIterations(n int) Option {
	return func(f *Fitter) {
		if n > 0 {
			f.maxIter = n
		}
	}
}

// Fitter implements every solver interface.
type Fitter struct {
	resolution float64
	maxIter    int
}

// NewFitter returns a Fitter with default tuning.
func NewFitter(opts ...Option) *Fitter {
	f := &Fitter{resolution: DefaultResolution, maxIter: DefaultMaxIterations}
	for _, opt := range opts {
		opt(f)
	}

	return f
}

// NewSuite returns a solver.Suite backed by one Fitter.
func NewSuite(opts ...Option) solver.Suite {
	f := NewFitter(opts...)

	return solver.Suite{Factory: f, Vertex: f, Particle: f, Constrained: f}
}

// Particle implements solver.ParticleFactory.
func (f *Fitter) Particle(track solver.Track, mass, chi2, ndf, sigma float64) (solver.Particle, error) {
	t, ok := track.(Track)
	if !ok {
		if tp, isPtr := track.(*Track); isPtr && tp != nil {
			t, ok = *tp, true
		}
	}
	if !ok || t.Momentum.Mag2() == 0 {
		return nil, fmt.Errorf("%w: %T", ErrBadTrack, track)
	}

	return &Particle{
		state: solver.State{
			Valid:     true,
			Mass:      mass,
			MassSigma: sigma,
			Momentum:  t.Momentum,
			Position:  t.Point,
			Charge:    t.Charge,
		},
		chi2: chi2,
		ndf:  ndf,
	}, nil
}

// FitVertex implements solver.VertexFitter.
//
// Stage 1 (Validate): at least two particles with valid states.
// Stage 2 (Execute): accumulate the normal equations and solve for x.
// Stage 3 (Finalize): move every daughter to x and combine into the top.
//
// Parallel tracks give a singular system; that is an empty tree, not an
// error.
func (f *Fitter) FitVertex(in []solver.Particle) (solver.Tree, error) {
	states, err := validStates(in)
	if err != nil {
		return nil, err
	}
	v, ok := f.vertex(states)
	if !ok {
		return &Tree{}, nil
	}

	return f.combine(states, nil, v), nil
}

// FitParticle implements solver.ParticleFitter. The daughters of the tree
// top are rescaled together until their invariant mass is the constrained
// mass; a positive sigma adds the mass pull to the chi2.
func (f *Fitter) FitParticle(c solver.ParticleConstraint, tree solver.Tree) (solver.Tree, error) {
	t, ok := tree.(*Tree)
	if !ok || t.IsEmpty() {
		return nil, fmt.Errorf("%w: tree %T", solver.ErrUnsupportedConstraint, tree)
	}
	mass, sigma := c.ConstrainedMass()
	states := make([]solver.State, len(t.children))
	for i, ch := range t.children {
		states[i] = ch.state
	}
	k, pull, err := f.scale(states, mass)
	if err != nil {
		if errors.Is(err, solver.ErrNotConverged) {
			return &Tree{}, nil
		}
		return nil, err
	}
	for i := range states {
		states[i].Momentum = states[i].Momentum.Scale(k)
	}
	v := t.vertex
	if sigma > 0 {
		v.Chi2 += pull * pull / (sigma * sigma)
	}
	out := f.combine(states, t.top, v)
	out.top.state.Mass = mass
	out.top.state.MassSigma = math.Max(sigma, 0)

	return out, nil
}

// FitConstrained implements solver.ConstrainedVertexFitter: a vertex fit over
// all particles with the invariant mass of the first c.Tracks() constrained.
// Only mass constraints are understood.
func (f *Fitter) FitConstrained(in []solver.Particle, c solver.MultiTrackConstraint) (solver.Tree, error) {
	var mass, sigma float64
	switch k := c.(type) {
	case solver.TwoTrackMassConstraint:
		mass, sigma = k.Mass, k.Sigma
	case solver.MultiTrackMassConstraint:
		mass, sigma = k.Mass, k.Sigma
	default:
		return nil, fmt.Errorf("%w: %s", solver.ErrUnsupportedConstraint, solver.KindOf(c))
	}
	n := c.Tracks()
	states, err := validStates(in)
	if err != nil {
		return nil, err
	}
	if n < 1 || n > len(states) {
		return nil, fmt.Errorf("%w: constraint on %d of %d particles", solver.ErrTooFewParticles, n, len(states))
	}
	v, ok := f.vertex(states)
	if !ok {
		return &Tree{}, nil
	}
	k, pull, err := f.scale(states[:n], mass)
	if err != nil {
		if errors.Is(err, solver.ErrNotConverged) {
			return &Tree{}, nil
		}
		return nil, err
	}
	for i := 0; i < n; i++ {
		states[i].Momentum = states[i].Momentum.Scale(k)
	}
	if sigma > 0 {
		v.Chi2 += pull * pull / (sigma * sigma)
	}

	return f.combine(states, nil, v), nil
}

func validStates(in []solver.Particle) ([]solver.State, error) {
	if len(in) < 2 {
		return nil, fmt.Errorf("%w: %d", solver.ErrTooFewParticles, len(in))
	}
	states := make([]solver.State, len(in))
	for i, p := range in {
		if p == nil || !p.CurrentState().IsValid() {
			return nil, fmt.Errorf("%w: particle %d has no valid state", solver.ErrTooFewParticles, i)
		}
		states[i] = p.CurrentState()
	}

	return states, nil
}

// vertex solves the normal equations A·x = b with A = Σ(I − d·dᵀ). The
// position covariance is resolution²·A⁻¹. ok is false for a singular system.
func (f *Fitter) vertex(states []solver.State) (v solver.Vertex, ok bool) {
	a, _ := linalg.NewDense(3, 3)
	b := make([]float64, 3)
	projs := make([]*linalg.Dense, len(states))
	for i, s := range states {
		d := s.Momentum.Unit()
		dv := []float64{d.X, d.Y, d.Z}
		proj, _ := linalg.Identity(3)
		_ = proj.AddOuter(-1, dv, dv)
		pb, _ := proj.MulVec([]float64{s.Position.X, s.Position.Y, s.Position.Z})
		for r := 0; r < 3; r++ {
			b[r] += pb[r]
			for c := 0; c < 3; c++ {
				v, _ := proj.At(r, c)
				w, _ := a.At(r, c)
				_ = a.Set(r, c, w+v)
			}
		}
		projs[i] = proj
	}
	lu, err := linalg.Decompose(a)
	if err != nil {
		return solver.Vertex{}, false
	}
	sol, err := lu.Solve(b)
	if err != nil {
		return solver.Vertex{}, false
	}
	inv, err := lu.Inverse()
	if err != nil {
		return solver.Vertex{}, false
	}
	v = solver.Vertex{Valid: true, Position: lorentz.Vector3{X: sol[0], Y: sol[1], Z: sol[2]}}
	s2 := f.resolution * f.resolution
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			w, _ := inv.At(r, c)
			v.Covariance[r][c] = s2 * w
		}
	}
	for i, s := range states {
		r := v.Position.Sub(s.Position)
		res, _ := projs[i].MulVec([]float64{r.X, r.Y, r.Z})
		v.Chi2 += (res[0]*res[0] + res[1]*res[1] + res[2]*res[2]) / s2
	}

	return v, true
}

// scale finds k > 0 such that the states with momenta scaled by k have
// invariant mass target. pull is the unscaled mass minus target.
func (f *Fitter) scale(states []solver.State, target float64) (k, pull float64, err error) {
	massAt := func(k float64) float64 {
		var sum lorentz.P4
		for _, s := range states {
			sum = sum.Add(lorentz.FromMomentum(s.Momentum.Scale(k), s.Mass))
		}
		return sum.Mass()
	}
	var threshold float64
	for _, s := range states {
		threshold += s.Mass
	}
	if target <= threshold {
		return 0, 0, fmt.Errorf("%w: mass %g below threshold %g", solver.ErrNotConverged, target, threshold)
	}

	pull = massAt(1) - target
	k = 1.0
	const h = 1e-6
	for i := 0; i < f.maxIter; i++ {
		r := massAt(k) - target
		if math.Abs(r) < DefaultTolerance {
			return k, pull, nil
		}
		slope := (massAt(k+h) - massAt(k-h)) / (2 * h)
		if slope <= 0 {
			break
		}
		next := k - r/slope
		if next <= 0 {
			next = k / 2
		}
		k = next
	}

	return 0, 0, fmt.Errorf("%w: after %d iterations", solver.ErrNotConverged, f.maxIter)
}

// combine moves the states to the vertex, builds daughters and the top
// particle. A non-nil prev top donates its ndf bookkeeping.
func (f *Fitter) combine(states []solver.State, prev *Particle, v solver.Vertex) *Tree {
	x, chi2 := v.Position, v.Chi2
	children := make([]*Particle, len(states))
	var sum lorentz.P4
	charge := 0
	for i, s := range states {
		s.Position = x
		children[i] = &Particle{state: s}
		sum = sum.Add(s.P4())
		charge += s.Charge
	}
	ndf := float64(2*len(states) - 3)
	if prev != nil {
		ndf = prev.ndf
	}
	top := &Particle{
		state: solver.State{
			Valid:    true,
			Mass:     sum.Mass(),
			Momentum: sum.Momentum(),
			Position: x,
			Charge:   charge,
		},
		chi2: chi2,
		ndf:  ndf,
	}

	v.NDF = ndf

	return newTree(top, children, v)
}
