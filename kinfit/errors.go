// SPDX-License-Identifier: MIT
package kinfit

import "errors"

// Sentinel errors carried by Result.Err.
var (
	ErrIncompleteBuild = errors.New("kinfit: incomplete particle build")
	ErrNoDaughters     = errors.New("kinfit: candidate has no daughters")
	ErrGroupNotFound   = errors.New("kinfit: group not found")
	ErrComponentFit    = errors.New("kinfit: component vertex fit is empty")
	ErrConstraintFit   = errors.New("kinfit: constrained refit is empty")
	ErrInvalidTopState = errors.New("kinfit: constrained component state is invalid")
	ErrTailFit         = errors.New("kinfit: final vertex fit is empty")
	ErrFitFailed       = errors.New("kinfit: fit failed")
	ErrSolverPanic     = errors.New("kinfit: solver panicked")
	ErrUnsupported     = errors.New("kinfit: unsupported constraint")
)

// Diagnostic categories used as the "category" log attribute.
const (
	CategoryParticleNotFound = "ParticleNotFound"
	CategoryFitFailed        = "FitFailed"
	CategoryFitNotFound      = "FitNotFound"
)
