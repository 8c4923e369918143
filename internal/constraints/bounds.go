package constraints

import (
	"fmt"
	"math"

	"github.com/pinggolf/cryoplanner/internal/solver"
)

// F12 (non-negativity and tight upper bounds) is enforced at the point each
// variable is created throughout this package — every AddVar call in
// production.go, labor.go, shipments.go, inventory.go, slidingwindow.go,
// demand.go, trucks.go, and pallets.go already passes a physically derived
// upper bound and a zero lower bound. checkBounds is a construction-time
// sanity pass catching any variable that slipped through without one.
func checkBounds(p solver.Problem) []string {
	var problems []string
	for _, v := range p.Vars {
		if v.LB < 0 {
			problems = append(problems, fmt.Sprintf("variable %q has negative lower bound %v", v.Name, v.LB))
		}
		if math.IsInf(v.UB, 1) {
			problems = append(problems, fmt.Sprintf("variable %q has no upper bound", v.Name))
		}
	}
	return problems
}
