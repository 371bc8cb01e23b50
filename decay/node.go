// SPDX-License-Identifier: MIT
package decay

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/kinfit/solver"
)

// Composite is a sub-candidate that can be used as a daughter. It exposes
// its own Node so that names can be resolved through it.
type Composite interface {
	Decay() *Node
}

// Node is the named daughter/composite structure of one decay candidate.
type Node struct {
	tracks TrackSource

	names     []string
	daughters []Particle
	byName    map[string]Particle
	search    map[Particle]string

	compNames  []string
	comps      []Composite
	compByName map[string]Composite
}

// NewNode returns an empty Node that resolves tracks through tracks.
// A nil TrackSource makes every track lookup fail.
func NewNode(tracks TrackSource) *Node {
	return &Node{
		tracks:     tracks,
		byName:     make(map[string]Particle),
		search:     make(map[Particle]string),
		compByName: make(map[string]Composite),
	}
}

func (n *Node) checkName(name string) error {
	if name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("%w: %q", ErrEmptyName, name)
	}
	if _, ok := n.byName[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	if _, ok := n.compByName[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}

	return nil
}

// AddDaughter registers p under name and returns the handle that stands for
// it from now on. An empty searchList selects DefaultSearchList; a negative
// mass keeps p's mass.
func (n *Node) AddDaughter(name string, p Particle, searchList string, mass float64) (Particle, error) {
	if p == nil {
		return nil, ErrNilParticle
	}
	if err := n.checkName(name); err != nil {
		return nil, err
	}
	if searchList == "" {
		searchList = DefaultSearchList
	}
	d := NewDaughter(original(p), mass)
	n.names = append(n.names, name)
	n.daughters = append(n.daughters, d)
	n.byName[name] = d
	n.search[d] = searchList

	return d, nil
}

// AddComposite registers c under name.
func (n *Node) AddComposite(name string, c Composite) error {
	if c == nil || c.Decay() == nil {
		return ErrNilComposite
	}
	if err := n.checkName(name); err != nil {
		return err
	}
	if c.Decay().contains(n) {
		return fmt.Errorf("%w: %q", ErrCycle, name)
	}
	n.compNames = append(n.compNames, name)
	n.comps = append(n.comps, c)
	n.compByName[name] = c

	return nil
}

func (n *Node) contains(target *Node) bool {
	if n == target {
		return true
	}
	for _, c := range n.comps {
		if c.Decay().contains(target) {
			return true
		}
	}

	return false
}

// Daughters returns the own daughters in insertion order.
func (n *Node) Daughters() []Particle {
	return append([]Particle(nil), n.daughters...)
}

// DaughterNames returns the own daughter names in insertion order.
func (n *Node) DaughterNames() []string {
	return append([]string(nil), n.names...)
}

// Composites returns the composites in insertion order.
func (n *Node) Composites() []Composite {
	return append([]Composite(nil), n.comps...)
}

// CompositeNames returns the composite names in insertion order.
func (n *Node) CompositeNames() []string {
	return append([]string(nil), n.compNames...)
}

// FullDaughters returns the own daughters followed by every composite's
// full daughter list, recursively.
func (n *Node) FullDaughters() []Particle {
	out := n.Daughters()
	for _, c := range n.comps {
		out = append(out, c.Decay().FullDaughters()...)
	}

	return out
}

// Daughter resolves a hierarchical daughter name such as "jpsi/mu+".
func (n *Node) Daughter(name string) (Particle, bool) {
	head, rest, nested := strings.Cut(name, "/")
	if !nested {
		p, ok := n.byName[name]
		return p, ok
	}
	c, ok := n.compByName[head]
	if !ok {
		return nil, false
	}

	return c.Decay().Daughter(rest)
}

// Composite resolves a hierarchical composite name such as "bs/jpsi".
func (n *Node) Composite(name string) (Composite, bool) {
	head, rest, nested := strings.Cut(name, "/")
	c, ok := n.compByName[head]
	if !ok || !nested {
		return c, ok
	}

	return c.Decay().Composite(rest)
}

// SearchList returns the track search list recorded for an own daughter.
func (n *Node) SearchList(p Particle) (string, bool) {
	s, ok := n.search[p]
	return s, ok
}

// Track returns the track behind an own daughter, asking the TrackSource
// with the original measured particle.
func (n *Node) Track(p Particle) (solver.Track, bool) {
	s, ok := n.search[p]
	if !ok || n.tracks == nil {
		return nil, false
	}

	return n.tracks.Track(original(p), s)
}

// Original returns the measured particle behind a daughter handle, or p
// itself when p is not a handle.
func (n *Node) Original(p Particle) Particle {
	return original(p)
}

func original(p Particle) Particle {
	for {
		d, ok := p.(*Daughter)
		if !ok {
			return p
		}
		p = d.source
	}
}

// Clone returns a Node with fresh daughter handles over the same measured
// particles (same names, mass hypotheses and search lists) and the same
// composites. The returned map goes from the old handles to the new ones.
func (n *Node) Clone() (*Node, map[Particle]Particle) {
	c := NewNode(n.tracks)
	remap := make(map[Particle]Particle, len(n.daughters))
	for i, old := range n.daughters {
		d := &Daughter{source: original(old), mass: old.Mass(), p4: old.P4()}
		c.names = append(c.names, n.names[i])
		c.daughters = append(c.daughters, d)
		c.byName[n.names[i]] = d
		c.search[d] = n.search[old]
		remap[old] = d
	}
	for i, comp := range n.comps {
		c.compNames = append(c.compNames, n.compNames[i])
		c.comps = append(c.comps, comp)
		c.compByName[n.compNames[i]] = comp
	}

	return c, remap
}
