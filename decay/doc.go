// SPDX-License-Identifier: MIT

// Package decay keeps the bookkeeping of a reconstructed decay candidate:
// which measured particles and which previously built composites it is made
// of, under which names, and how to reach the track behind each daughter.
//
// A Node is the "decay vertex" collaborator used by package kinfit. It knows
// nothing about fitting. It offers:
//
//   - AddDaughter / AddComposite   – register named inputs.
//   - Daughters / Composites       – ordered views (copies) of the inputs.
//   - FullDaughters                – own daughters plus every composite's, recursively.
//   - Daughter(name), Composite(name) – hierarchical lookup ("jpsi/mu+").
//   - Track(p)                     – track lookup through the configured TrackSource,
//     using the original measured particle and its search list.
//   - Clone                        – fresh daughter handles over the same inputs.
//
// Daughters are cloned on insertion (see Daughter) so that a mass
// hypothesis can be attached without touching the caller's particle; the
// clone is the identity handle used everywhere else.
//
// Errors (sentinel):
//
//	ErrEmptyName      – a daughter or composite name is empty or contains '/'.
//	ErrDuplicateName  – the name is already taken in this node.
//	ErrNilParticle    – a nil particle was added.
//	ErrNilComposite   – a nil composite was added.
//	ErrCycle          – the composite contains this node.
//
// A Node is not safe for concurrent mutation.
package decay
