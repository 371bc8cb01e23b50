// SPDX-License-Identifier: MIT
package kinfit_test

import (
	"fmt"

	"github.com/katalvlaran/kinfit/kinfit"
	"github.com/katalvlaran/kinfit/solver"
)

// ExampleSelectConstraint shows how mass and sigma pick the constraint.
func ExampleSelectConstraint() {
	fmt.Println(solver.KindOf(kinfit.SelectConstraint(2, -1, 0)))
	fmt.Println(solver.KindOf(kinfit.SelectConstraint(2, 3.0969, -1)))
	fmt.Println(solver.KindOf(kinfit.SelectConstraint(2, 3.0969, 0.001)))
	fmt.Println(solver.KindOf(kinfit.SelectConstraint(3, 5.2793, 0.001)))
	// Output:
	// unconstrained
	// fixed-mass
	// two-track-mass
	// multi-track-mass
}
