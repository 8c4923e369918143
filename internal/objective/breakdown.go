package objective

import (
	"github.com/pinggolf/cryoplanner/internal/constraints"
	"github.com/pinggolf/cryoplanner/internal/index"
	"github.com/pinggolf/cryoplanner/internal/network"
	"github.com/pinggolf/cryoplanner/internal/solver"
)

// CostBreakdown is the objective's five cost categories (§4.3.3), each
// summed independently from the same term builders Build uses, so
// "reported objective equals the sum of category subtotals" (testable
// property 8) holds by construction rather than by a separate
// reconciliation pass.
type CostBreakdown struct {
	Labor      float64
	Production float64
	Transport  float64
	Holding    float64
	Shortage   float64
	Total      float64
}

// Breakdown evaluates each cost category against a solved variable-value
// vector. Indices outside values are skipped rather than panicking, so a
// partial/infeasible incumbent (e.g. from a timed-out solve) still yields a
// best-effort breakdown instead of a crash.
func Breakdown(m *network.Model, idx *index.Indexes, v *constraints.Vars, values []float64) CostBreakdown {
	sum := func(terms []solver.Term) float64 {
		var total float64
		for _, t := range terms {
			if t.VarIndex < 0 || t.VarIndex >= len(values) {
				continue
			}
			total += t.Coef * values[t.VarIndex]
		}
		return total
	}

	b := CostBreakdown{
		Labor:      sum(laborTerms(m, v)),
		Production: sum(productionTerms(m, idx, v)),
		Transport:  sum(transportTerms(m, idx, v)),
		Holding:    sum(holdingTerms(m, idx, v)),
		Shortage:   sum(shortageTerms(m, v)),
	}
	b.Total = b.Labor + b.Production + b.Transport + b.Holding + b.Shortage
	return b
}
