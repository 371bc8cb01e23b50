// SPDX-License-Identifier: MIT
package kinfit

import (
	"fmt"
	"log/slog"

	"github.com/katalvlaran/kinfit/decay"
	"github.com/katalvlaran/kinfit/lorentz"
	"github.com/katalvlaran/kinfit/solver"
)

// DefaultMassSigma is the mass uncertainty given to a leaf daughter whose
// sigma is unset or negative when its fittable particle is built.
const DefaultMassSigma = 1.0e-7

// Unset is the value reported for an undefined mass, sigma or constraint.
const Unset = -1.0

// Option configures a Candidate at construction time.
type Option func(c *Candidate)

// WithLogger sets the logger used for diagnostics. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(c *Candidate) {
		if l != nil {
			c.log = l
		}
	}
}

// WithObserver installs an Observer. A nil observer is ignored.
func WithObserver(o Observer) Option {
	return func(c *Candidate) {
		if o != nil {
			c.obs = o
		}
	}
}

// WithMassConstraint sets the initial mass constraint (see SetMassConstraint).
func WithMassConstraint(mass, sigma float64) Option {
	return func(c *Candidate) {
		c.mass, c.sigma = mass, sigma
	}
}

// staleness holds the three dirty bits of the cache. A bit is false only
// while the matching cached value reflects the current inputs.
type staleness struct {
	particles bool
	fit       bool
	momentum  bool
}

func allStale() staleness {
	return staleness{particles: true, fit: true, momentum: true}
}

// span is the half-open range of the particle list a composite contributed.
type span struct{ from, to int }

// Candidate is a decay candidate that can be kinematically fitted.
//
// The zero value is not usable; build candidates with New.
type Candidate struct {
	node  *decay.Node
	suite solver.Suite
	log   *slog.Logger
	obs   Observer

	comps []*Candidate                // parallel to node.Composites()
	msig  map[decay.Particle]float64 // daughter handle → mass sigma, raw

	mass, sigma float64 // requested constraint; negative mass = none

	stale      staleness
	particles  []solver.Particle
	byDaughter map[decay.Particle]int
	byComp     map[*Candidate]span
	result     Result
	p4         lorentz.P4
}

// New returns an empty Candidate that fits through suite and looks up the
// tracks of its leaf daughters through tracks.
// Returns solver.ErrIncompleteSuite if suite has a nil member.
func New(suite solver.Suite, tracks decay.TrackSource, opts ...Option) (*Candidate, error) {
	if err := suite.Validate(); err != nil {
		return nil, fmt.Errorf("kinfit: %w", err)
	}
	c := &Candidate{
		node:  decay.NewNode(tracks),
		suite: suite,
		log:   slog.Default(),
		obs:   nopObserver{},
		msig:  make(map[decay.Particle]float64),
		mass:  Unset,
		sigma: Unset,
		stale: allStale(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Decay returns the daughter bookkeeping of c. It implements decay.Composite.
//
// The Node is for lookups only. Daughters added to it directly are unknown
// to c: the cache is not invalidated, their mass sigmas are not recorded and
// composite daughters are not built. Once such a change is seen, every fit
// of c fails with ErrIncompleteBuild. Use AddLeaf and AddComposite instead.
func (c *Candidate) Decay() *decay.Node {
	return c.node
}

// AddLeaf adds a measured particle under name with the default track search
// list. A negative mass keeps the measured mass; sigma is stored as given
// (negative means unset).
func (c *Candidate) AddLeaf(name string, p decay.Particle, mass, sigma float64) error {
	return c.AddLeafSearch(name, p, decay.DefaultSearchList, mass, sigma)
}

// AddLeafSearch is AddLeaf with an explicit track search list.
func (c *Candidate) AddLeafSearch(name string, p decay.Particle, searchList string, mass, sigma float64) error {
	h, err := c.node.AddDaughter(name, p, searchList, mass)
	if err != nil {
		return fmt.Errorf("kinfit: add %q: %w", name, err)
	}
	c.msig[h] = sigma
	c.Reset()

	return nil
}

// AddComposite adds a previously built candidate under name. The
// composite's mass-sigma entries are copied into c; keys c already has keep
// their value. comp is borrowed, not copied.
func (c *Candidate) AddComposite(name string, comp *Candidate) error {
	if comp == nil {
		return fmt.Errorf("kinfit: add %q: %w", name, decay.ErrNilComposite)
	}
	if err := c.node.AddComposite(name, comp); err != nil {
		return fmt.Errorf("kinfit: add %q: %w", name, err)
	}
	c.comps = append(c.comps, comp)
	mergeSigmas(c.msig, comp.msig)
	c.Reset()

	return nil
}

// mergeSigmas copies the entries of src missing from dst.
func mergeSigmas(dst, src map[decay.Particle]float64) {
	for k, v := range src {
		if _, ok := dst[k]; !ok {
			dst[k] = v
		}
	}
}

// Clone returns a new Candidate over fresh daughter handles for the same
// measured particles and the same composites. Mass sigmas are carried over
// to the new handles, composite entries are merged in, and the clone starts
// without a mass constraint and with an empty cache.
func (c *Candidate) Clone() *Candidate {
	node, remap := c.node.Clone()
	nc := &Candidate{
		node:  node,
		suite: c.suite,
		log:   c.log,
		obs:   c.obs,
		comps: append([]*Candidate(nil), c.comps...),
		msig:  make(map[decay.Particle]float64, len(c.msig)),
		mass:  Unset,
		sigma: Unset,
		stale: allStale(),
	}
	for old, fresh := range remap {
		if s, ok := c.msig[old]; ok {
			nc.msig[fresh] = s
		}
	}
	for _, comp := range nc.comps {
		mergeSigmas(nc.msig, comp.msig)
	}

	return nc
}

// SetMassConstraint sets the constraint used by FitTree. A negative mass
// removes it; with a non-negative mass, a negative sigma asks for a fixed
// mass and a non-negative sigma for a width-aware multi-track constraint.
func (c *Candidate) SetMassConstraint(mass, sigma float64) {
	c.mass, c.sigma = mass, sigma
	c.stale.fit = true
	c.stale.momentum = true
}

// ConstraintMass returns the requested constraint mass, -1 when unset.
func (c *Candidate) ConstraintMass() float64 { return c.mass }

// ConstraintSigma returns the requested constraint sigma, -1 when unset.
func (c *Candidate) ConstraintSigma() float64 { return c.sigma }

// MassSigma returns the raw mass sigma recorded for a daughter handle, or
// -1 when none is recorded. No default is substituted here.
func (c *Candidate) MassSigma(d decay.Particle) float64 {
	if s, ok := c.msig[d]; ok {
		return s
	}

	return Unset
}

// Reset marks the particle list, the fit and the total momentum as stale.
// Call it after upstream data (tracks, composites) changed.
func (c *Candidate) Reset() {
	c.stale = allStale()
}
