// SPDX-License-Identifier: MIT
package kinfit

import (
	"time"

	"github.com/katalvlaran/kinfit/solver"
)

// Observer receives notifications about the work a Candidate does.
// Implementations must be cheap; they run inline.
type Observer interface {
	// ParticlesBuilt is called after every particle-list rebuild.
	ParticlesBuilt(built, expected int)

	// FitDone is called once per fit attempt.
	FitDone(kind solver.ConstraintKind, r Result, elapsed time.Duration)

	// MomentumDone is called after every momentum computation;
	// fallback is true when the plain daughter sum was used.
	MomentumDone(fallback bool)
}

type nopObserver struct{}

func (nopObserver) ParticlesBuilt(int, int)                              {}
func (nopObserver) FitDone(solver.ConstraintKind, Result, time.Duration) {}
func (nopObserver) MomentumDone(bool)                                    {}
