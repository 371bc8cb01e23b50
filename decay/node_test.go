// SPDX-License-Identifier: MIT
package decay_test

import (
	"testing"

	"github.com/katalvlaran/kinfit/decay"
	"github.com/katalvlaran/kinfit/lorentz"
	"github.com/katalvlaran/kinfit/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type measured struct {
	id string
	p4 lorentz.P4
}

func (m *measured) Mass() float64  { return m.p4.Mass() }
func (m *measured) P4() lorentz.P4 { return m.p4 }

type comp struct{ node *decay.Node }

func (c *comp) Decay() *decay.Node { return c.node }

// trackByID returns the measured id as the "track" and records the search list.
func trackByID(seen map[string]string) decay.TrackSource {
	return decay.TrackSourceFunc(func(p decay.Particle, search string) (solver.Track, bool) {
		m, ok := p.(*measured)
		if !ok || m.id == "" {
			return nil, false
		}
		seen[m.id] = search
		return m.id, true
	})
}

func newMeasured(id string, px, py, pz, m float64) *measured {
	return &measured{id: id, p4: lorentz.FromPxPyPzM(px, py, pz, m)}
}

// TestNode_AddDaughter covers handle creation, mass hypothesis and name rules.
func TestNode_AddDaughter(t *testing.T) {
	n := decay.NewNode(nil)
	mu := newMeasured("mu", 1, 2, 3, 0.105658)

	h, err := n.AddDaughter("mu+", mu, "", -1)
	require.NoError(t, err)
	assert.NotSame(t, mu, h, "a handle distinct from the input is returned")
	assert.InDelta(t, mu.Mass(), h.Mass(), 1e-12, "negative mass keeps the measured mass")
	assert.Same(t, mu, n.Original(h))

	search, ok := n.SearchList(h)
	require.True(t, ok)
	assert.Equal(t, decay.DefaultSearchList, search)

	k, err := n.AddDaughter("K+", newMeasured("k", 0, 1, 0, 0.13957), "cf", 0.493677)
	require.NoError(t, err)
	assert.InDelta(t, 0.493677, k.Mass(), 1e-12, "mass hypothesis applied")
	assert.InDelta(t, 0.493677, k.P4().Mass(), 1e-9, "p4 put on shell with the hypothesis")
	assert.Equal(t, 1.0, k.P4().Py, "three-momentum kept")

	_, err = n.AddDaughter("mu+", mu, "", -1)
	assert.ErrorIs(t, err, decay.ErrDuplicateName)
	_, err = n.AddDaughter("", mu, "", -1)
	assert.ErrorIs(t, err, decay.ErrEmptyName)
	_, err = n.AddDaughter("a/b", mu, "", -1)
	assert.ErrorIs(t, err, decay.ErrEmptyName)
	_, err = n.AddDaughter("x", nil, "", -1)
	assert.ErrorIs(t, err, decay.ErrNilParticle)

	assert.Equal(t, []string{"mu+", "K+"}, n.DaughterNames())
	assert.Len(t, n.Daughters(), 2)
}

// TestNode_HierarchicalLookup resolves daughters and composites through
// nested composites.
func TestNode_HierarchicalLookup(t *testing.T) {
	jpsi := &comp{node: decay.NewNode(nil)}
	mup, err := jpsi.node.AddDaughter("mu+", newMeasured("mu+", 1, 0, 0, 0.1), "", -1)
	require.NoError(t, err)
	_, err = jpsi.node.AddDaughter("mu-", newMeasured("mu-", -1, 0, 0, 0.1), "", -1)
	require.NoError(t, err)

	bs := decay.NewNode(nil)
	kp, err := bs.AddDaughter("K+", newMeasured("k+", 0, 1, 0, 0.49), "", -1)
	require.NoError(t, err)
	require.NoError(t, bs.AddComposite("JPsi", jpsi))

	got, ok := bs.Daughter("JPsi/mu+")
	require.True(t, ok)
	assert.Same(t, mup, got)
	got, ok = bs.Daughter("K+")
	require.True(t, ok)
	assert.Same(t, kp, got)

	_, ok = bs.Daughter("JPsi/e+")
	assert.False(t, ok)
	_, ok = bs.Daughter("Phi/K+")
	assert.False(t, ok)

	c, ok := bs.Composite("JPsi")
	require.True(t, ok)
	assert.Same(t, jpsi, c)

	top := &comp{node: decay.NewNode(nil)}
	require.NoError(t, top.node.AddComposite("Bs", &comp{node: bs}))
	c, ok = top.node.Composite("Bs/JPsi")
	require.True(t, ok)
	assert.Same(t, jpsi, c)

	assert.Len(t, bs.FullDaughters(), 3, "own daughter plus both muons")
	assert.Equal(t, []string{"JPsi"}, bs.CompositeNames())
}

// TestNode_AddCompositeErrors covers nil, duplicate and cyclic composites.
func TestNode_AddCompositeErrors(t *testing.T) {
	a := &comp{node: decay.NewNode(nil)}
	b := &comp{node: decay.NewNode(nil)}

	assert.ErrorIs(t, a.node.AddComposite("x", nil), decay.ErrNilComposite)
	require.NoError(t, a.node.AddComposite("b", b))
	assert.ErrorIs(t, a.node.AddComposite("b", &comp{node: decay.NewNode(nil)}), decay.ErrDuplicateName)
	assert.ErrorIs(t, b.node.AddComposite("a", a), decay.ErrCycle)
	assert.ErrorIs(t, a.node.AddComposite("self", a), decay.ErrCycle)
}

// TestNode_Track asks the source with the original particle and search list.
func TestNode_Track(t *testing.T) {
	seen := map[string]string{}
	n := decay.NewNode(trackByID(seen))

	h, err := n.AddDaughter("pi", newMeasured("pi", 1, 0, 0, 0.14), "hp", 0.5)
	require.NoError(t, err)
	tr, ok := n.Track(h)
	require.True(t, ok)
	assert.Equal(t, "pi", tr)
	assert.Equal(t, "hp", seen["pi"])

	noTrack, err := n.AddDaughter("gamma", newMeasured("", 0, 0, 1, 0), "", -1)
	require.NoError(t, err)
	_, ok = n.Track(noTrack)
	assert.False(t, ok, "source without a track")

	_, ok = n.Track(newMeasured("stranger", 0, 0, 0, 0))
	assert.False(t, ok, "particles not registered in the node have no track")

	_, ok = decay.NewNode(nil).Track(h)
	assert.False(t, ok, "nil source")
}

// TestNode_Clone yields fresh handles with identical attributes.
func TestNode_Clone(t *testing.T) {
	n := decay.NewNode(nil)
	src := newMeasured("k", 0, 1, 0, 0.14)
	h, err := n.AddDaughter("K", src, "c", 0.493677)
	require.NoError(t, err)
	sub := &comp{node: decay.NewNode(nil)}
	require.NoError(t, n.AddComposite("sub", sub))

	c, remap := n.Clone()
	nh, ok := remap[h]
	require.True(t, ok)
	assert.NotSame(t, h, nh)
	assert.Equal(t, h.P4(), nh.P4())
	assert.Same(t, src, c.Original(nh))

	got, ok := c.Daughter("K")
	require.True(t, ok)
	assert.Same(t, nh, got)
	s, _ := c.SearchList(nh)
	assert.Equal(t, "c", s)

	cs, ok := c.Composite("sub")
	require.True(t, ok)
	assert.Same(t, sub, cs, "composites are shared, not copied")
}
