// SPDX-License-Identifier: MIT
package kinfit_test

import (
	"testing"

	"github.com/katalvlaran/kinfit/decay"
	"github.com/katalvlaran/kinfit/kinfit"
	"github.com/katalvlaran/kinfit/lorentz"
	"github.com/katalvlaran/kinfit/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNew_RejectsIncompleteSuite ASSERTS New validates the solver suite.
func TestNew_RejectsIncompleteSuite(t *testing.T) {
	c, err := kinfit.New(solver.Suite{}, tracks)
	assert.Nil(t, c)
	assert.ErrorIs(t, err, solver.ErrIncompleteSuite)
}

// TestCandidate_Defaults checks the initial constraint and sigma values.
func TestCandidate_Defaults(t *testing.T) {
	f := newFixture()
	c := f.candidate(t)

	assert.Equal(t, -1.0, c.ConstraintMass())
	assert.Equal(t, -1.0, c.ConstraintSigma())
	assert.Equal(t, -1.0, c.MassSigma(untracked("x", 0, 0, 0, 1)), "unknown daughter")
	assert.True(t, c.IsEmpty(), "a candidate without daughters has nothing to fit")
	assert.ErrorIs(t, c.FitTree().Err, kinfit.ErrNoDaughters)
	assert.ErrorIs(t, c.FitTreeMass("", 5.0, 0.01).Err, kinfit.ErrNoDaughters)
	assert.Zero(t, f.solver.fits(), "the solver is never called")
	assert.Equal(t, lorentz.P4{}, c.TotalMomentum())
}

// TestCandidate_AddErrors ASSERTS structural misuse is reported.
func TestCandidate_AddErrors(t *testing.T) {
	f := newFixture()
	c := f.dimuon(t)

	assert.ErrorIs(t, c.AddLeaf("mu+", tracked("x", 0, 0, 0, 1), -1, -1), decay.ErrDuplicateName)
	assert.ErrorIs(t, c.AddLeaf("", tracked("x", 0, 0, 0, 1), -1, -1), decay.ErrEmptyName)
	assert.ErrorIs(t, c.AddComposite("sub", nil), decay.ErrNilComposite)
	assert.ErrorIs(t, c.AddComposite("self", c), decay.ErrCycle)
	assert.Len(t, c.Decay().Daughters(), 2)
}

// TestCandidate_DirectNodeMutation ASSERTS a composite added behind the
// candidate's back makes the next fit fail closed without calling the solver.
func TestCandidate_DirectNodeMutation(t *testing.T) {
	f := newFixture()
	c := f.dimuon(t)
	require.True(t, c.IsValidFit())
	fits := f.solver.fits()

	g := newFixture()
	require.NoError(t, c.Decay().AddComposite("X", g.dimuon(t)))
	c.Reset()

	r := c.FitTree()
	assert.ErrorIs(t, r.Err, kinfit.ErrIncompleteBuild)
	assert.True(t, r.Empty())
	assert.Equal(t, fits, f.solver.fits())
}

// TestCandidate_MassSigmaMerge ASSERTS composition copies the composite's
// sigma entries and never shares the map.
func TestCandidate_MassSigmaMerge(t *testing.T) {
	f := newFixture()
	jpsi := f.candidate(t)
	require.NoError(t, jpsi.AddLeaf("mu+", tracked("mu+", 1, 0, 0, 5), 0.105658, 1e-6))
	require.NoError(t, jpsi.AddLeaf("mu-", tracked("mu-", -1, 0, 0, 5), 0.105658, -1))

	b := f.candidate(t)
	require.NoError(t, b.AddComposite("JPsi", jpsi))
	mup, _ := b.Decay().Daughter("JPsi/mu+")
	mum, _ := b.Decay().Daughter("JPsi/mu-")
	assert.Equal(t, 1e-6, b.MassSigma(mup))
	assert.Equal(t, -1.0, b.MassSigma(mum), "raw unset value copied as is")

	require.NoError(t, jpsi.AddLeaf("gamma", tracked("gamma", 0, 0, 1, 1), 0, 0.5))
	g, _ := jpsi.Decay().Daughter("gamma")
	assert.Equal(t, 0.5, jpsi.MassSigma(g))
	assert.Equal(t, -1.0, b.MassSigma(g), "later composite changes do not leak into the parent")
}

// TestCandidate_Clone ASSERTS a clone remaps sigmas to fresh handles, keeps
// composites, and starts unconstrained.
func TestCandidate_Clone(t *testing.T) {
	f := newFixture()
	b, _ := f.bs(t)
	kp, _ := b.Decay().Daughter("K+")
	require.NoError(t, b.AddLeaf("pi", tracked("pi", 0, 0, 1, 3), 0.13957, 0.003))
	b.SetMassConstraint(5.3, -1)

	c := b.Clone()
	ckp, ok := c.Decay().Daughter("K+")
	require.True(t, ok)
	assert.NotSame(t, kp, ckp, "fresh handle")
	assert.Same(t, b.Decay().Original(kp), c.Decay().Original(ckp))

	pi, _ := c.Decay().Daughter("pi")
	assert.Equal(t, 0.003, c.MassSigma(pi))
	mup, _ := c.Decay().Daughter("JPsi/mu+")
	assert.Equal(t, -1.0, c.MassSigma(mup))

	assert.Equal(t, -1.0, c.ConstraintMass())
	assert.Equal(t, ids(b.FittedParticles()), ids(c.FittedParticles()))
}
