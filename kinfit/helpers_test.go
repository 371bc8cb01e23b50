// SPDX-License-Identifier: MIT
package kinfit_test

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/katalvlaran/kinfit/decay"
	"github.com/katalvlaran/kinfit/kinfit"
	"github.com/katalvlaran/kinfit/lorentz"
	"github.com/katalvlaran/kinfit/solver"
	"github.com/stretchr/testify/require"
)

// ---- measured inputs ----

type meas struct {
	id    string
	p4    lorentz.P4
	track bool
}

func (m *meas) Mass() float64  { return m.p4.Mass() }
func (m *meas) P4() lorentz.P4 { return m.p4 }

func tracked(id string, px, py, pz, e float64) *meas {
	return &meas{id: id, p4: lorentz.FromPxPyPzE(px, py, pz, e), track: true}
}

func untracked(id string, px, py, pz, e float64) *meas {
	return &meas{id: id, p4: lorentz.FromPxPyPzE(px, py, pz, e)}
}

type fakeTrack struct {
	id string
	p  lorentz.Vector3
}

var tracks = decay.TrackSourceFunc(func(p decay.Particle, _ string) (solver.Track, bool) {
	m, ok := p.(*meas)
	if !ok || !m.track {
		return nil, false
	}
	return fakeTrack{id: m.id, p: m.p4.Momentum()}, true
})

// ---- scripted solver ----

type fakeParticle struct {
	id string
	st solver.State
}

func (p *fakeParticle) CurrentState() solver.State { return p.st }

func ids(ps []solver.Particle) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.(*fakeParticle).id
	}
	return out
}

type fakeTree struct {
	top    *fakeParticle
	kids   []solver.Particle
	cursor solver.Particle
	vertex solver.Vertex
	empty  bool
}

func (t *fakeTree) IsEmpty() bool                     { return t.empty }
func (t *fakeTree) MoveToTop()                        { t.cursor = t.top }
func (t *fakeTree) CurrentParticle() solver.Particle  { return t.cursor }
func (t *fakeTree) TopParticle() solver.Particle      { return t.top }
func (t *fakeTree) CurrentDecayVertex() solver.Vertex {
	if t.cursor == solver.Particle(t.top) {
		return t.vertex
	}
	return solver.Vertex{}
}

type constrainedCall struct {
	ids []string
	c   solver.MultiTrackConstraint
}

// fakeSolver records every call and combines particles by plain four-vector
// sums. Hooks let a test make a stage fail.
type fakeSolver struct {
	built       int
	vertex      [][]string
	refits      []solver.ParticleConstraint
	constrained []constrainedCall

	vertexHook  func(call int, in []string) (empty bool, err error)
	refitHook   func() (empty bool, err error)
	invalidTop  bool
	panicVertex bool
}

func (s *fakeSolver) suite() solver.Suite {
	return solver.Suite{Factory: s, Vertex: s, Particle: s, Constrained: s}
}

func (s *fakeSolver) Particle(track solver.Track, mass, chi2, ndf float64, sigma float64) (solver.Particle, error) {
	s.built++
	tr := track.(fakeTrack)
	return &fakeParticle{id: tr.id, st: solver.State{Valid: true, Mass: mass, MassSigma: sigma, Momentum: tr.p}}, nil
}

func combine(id string, in []solver.Particle) *fakeTree {
	var total lorentz.P4
	for _, p := range in {
		total = total.Add(p.CurrentState().P4())
	}
	top := &fakeParticle{id: id, st: solver.State{Valid: true, Mass: total.Mass(), Momentum: total.Momentum()}}
	t := &fakeTree{top: top, kids: append([]solver.Particle(nil), in...),
		vertex: solver.Vertex{Valid: true, Position: lorentz.Vector3{Z: 0.1 * float64(len(in))}}}
	if len(in) > 0 {
		t.cursor = in[len(in)-1]
	}
	return t
}

func (s *fakeSolver) FitVertex(in []solver.Particle) (solver.Tree, error) {
	names := ids(in)
	s.vertex = append(s.vertex, names)
	if s.panicVertex {
		panic("matrix not positive definite")
	}
	if s.vertexHook != nil {
		empty, err := s.vertexHook(len(s.vertex), names)
		if err != nil {
			return nil, err
		}
		if empty {
			return &fakeTree{empty: true}, nil
		}
	}
	return combine("vtx("+strings.Join(names, ",")+")", in), nil
}

func (s *fakeSolver) FitParticle(c solver.ParticleConstraint, t solver.Tree) (solver.Tree, error) {
	s.refits = append(s.refits, c)
	if s.refitHook != nil {
		empty, err := s.refitHook()
		if err != nil {
			return nil, err
		}
		if empty {
			return &fakeTree{empty: true}, nil
		}
	}
	in := t.(*fakeTree)
	m, _ := c.ConstrainedMass()
	top := &fakeParticle{id: "mc(" + in.top.id + ")", st: in.top.st}
	top.st.Mass = m
	top.st.Valid = !s.invalidTop
	return &fakeTree{top: top, kids: in.kids, cursor: in.cursor, vertex: in.vertex}, nil
}

func (s *fakeSolver) FitConstrained(in []solver.Particle, c solver.MultiTrackConstraint) (solver.Tree, error) {
	names := ids(in)
	s.constrained = append(s.constrained, constrainedCall{ids: names, c: c})
	t := combine("cvf("+strings.Join(names, ",")+")", in)
	return t, nil
}

func (s *fakeSolver) fits() int { return len(s.vertex) + len(s.constrained) }

// ---- diagnostics capture ----

type recorder struct {
	mu      sync.Mutex
	records []slog.Record
}

func (r *recorder) Enabled(context.Context, slog.Level) bool { return true }
func (r *recorder) Handle(_ context.Context, rec slog.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return nil
}
func (r *recorder) WithAttrs([]slog.Attr) slog.Handler { return r }
func (r *recorder) WithGroup(string) slog.Handler      { return r }

// count returns the number of records with the given category.
func (r *recorder) count(category string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, rec := range r.records {
		rec.Attrs(func(a slog.Attr) bool {
			if a.Key == "category" && a.Value.String() == category {
				n++
				return false
			}
			return true
		})
	}
	return n
}

// ---- observer ----

type countingObserver struct {
	builds    int
	fits      []solver.ConstraintKind
	results   []kinfit.Result
	momenta   int
	fallbacks int
}

func (o *countingObserver) ParticlesBuilt(int, int) { o.builds++ }
func (o *countingObserver) FitDone(k solver.ConstraintKind, r kinfit.Result, _ time.Duration) {
	o.fits = append(o.fits, k)
	o.results = append(o.results, r)
}
func (o *countingObserver) MomentumDone(fallback bool) {
	o.momenta++
	if fallback {
		o.fallbacks++
	}
}

// ---- fixtures ----

type fixture struct {
	solver *fakeSolver
	log    *recorder
	obs    *countingObserver
}

func newFixture() *fixture {
	return &fixture{solver: &fakeSolver{}, log: &recorder{}, obs: &countingObserver{}}
}

func (f *fixture) candidate(t *testing.T, opts ...kinfit.Option) *kinfit.Candidate {
	t.Helper()
	opts = append([]kinfit.Option{kinfit.WithLogger(slog.New(f.log)), kinfit.WithObserver(f.obs)}, opts...)
	c, err := kinfit.New(f.solver.suite(), tracks, opts...)
	require.NoError(t, err)
	return c
}

// dimuon builds a two-muon composite named mu+/mu-.
func (f *fixture) dimuon(t *testing.T, opts ...kinfit.Option) *kinfit.Candidate {
	t.Helper()
	c := f.candidate(t, opts...)
	require.NoError(t, c.AddLeaf("mu+", tracked("mu+", 1, 0, 0, 5), -1, -1))
	require.NoError(t, c.AddLeaf("mu-", tracked("mu-", -1, 0, 0, 5), -1, -1))
	return c
}

// bs builds Bs → JPsi(mu+ mu-) K+ K-.
func (f *fixture) bs(t *testing.T) (*kinfit.Candidate, *kinfit.Candidate) {
	t.Helper()
	jpsi := f.dimuon(t)
	b := f.candidate(t)
	require.NoError(t, b.AddComposite("JPsi", jpsi))
	require.NoError(t, b.AddLeaf("K+", tracked("K+", 0, 1, 0, 2), -1, -1))
	require.NoError(t, b.AddLeaf("K-", tracked("K-", 0, -1, 0, 2), -1, -1))
	return b, jpsi
}

var errSolver = errors.New("singular covariance")

func topID(t *testing.T, r kinfit.Result) string {
	t.Helper()
	require.False(t, r.Empty(), "result must not be empty: %v", r.Err)
	return r.Tree.TopParticle().(*fakeParticle).id
}
