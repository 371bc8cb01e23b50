// SPDX-License-Identifier: MIT

// Package config reads decay descriptions from YAML and turns them into
// kinfit candidate trees on the refit reference fitter.
//
//	name: Bs
//	constraint: {mass: 5.36688, sigma: -1}
//	daughters:
//	  - name: K+
//	    mass: 0.493677
//	    track: {point: [0, 0, 0], momentum: [1.2, -0.4, 3.0], charge: 1}
//	composites:
//	  - name: JPsi
//	    constraint: {mass: 3.0969}
//	    daughters: [...]
//
// Omitted masses and sigmas default to -1 (unset) and the search list to
// decay.DefaultSearchList. Files are validated with struct tags plus a few
// cross-field checks before use.
package config
