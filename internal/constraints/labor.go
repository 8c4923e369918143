package constraints

import (
	"fmt"

	"github.com/pinggolf/cryoplanner/internal/index"
	"github.com/pinggolf/cryoplanner/internal/network"
	"github.com/pinggolf/cryoplanner/internal/solver"
)

// addLabor instantiates labor_hours_used/paid, fixed/overtime split, and
// uses_overtime for every manufacturing (node, date) pair present in
// ProdIdx, implementing F3 (labor capacity) and F4 (piecewise labor cost).
func addLabor(b *solver.Builder, m *network.Model, idx *index.Indexes, v *Vars) {
	seen := make(map[LaborKey]bool)
	var keys []LaborKey
	for _, k := range idx.ProdIdx {
		lk := LaborKey{Node: k.Node, Date: k.Date}
		if !seen[lk] {
			seen[lk] = true
			keys = append(keys, lk)
		}
	}

	for _, lk := range keys {
		ld, ok := m.LaborDay(lk.Date)
		if !ok {
			continue
		}
		node, _ := m.Node(lk.Node)
		tag := fmt.Sprintf("%s,%s", lk.Node, lk.Date.Format("2006-01-02"))

		usedVar := b.AddVar("labor_hours_used["+tag+"]", solver.Continuous, 0, maxDailyHours(ld))
		paidVar := b.AddVar("labor_hours_paid["+tag+"]", solver.Continuous, 0, maxDailyHours(ld))
		fixedVar := b.AddVar("fixed_hours_used["+tag+"]", solver.Continuous, 0, ld.FixedHours)
		otVar := b.AddVar("overtime_hours_used["+tag+"]", solver.Continuous, 0, ld.MaxOvertimeHrs)
		usesOT := b.AddVar("uses_overtime["+tag+"]", solver.Binary, 0, 1)
		anyProd := b.AddVar("any_production["+tag+"]", solver.Binary, 0, 1)

		v.LaborHoursUsed[lk] = usedVar
		v.LaborHoursPaid[lk] = paidVar
		v.FixedHoursUsed[lk] = fixedVar
		v.OvertimeHoursUsed[lk] = otVar
		v.UsesOvertime[lk] = usesOT

		var producedVars []int
		rhsTerms := []solver.Term{{VarIndex: usedVar, Coef: -1}}
		for _, pk := range idx.ProdIdx {
			if pk.Node != lk.Node || !pk.Date.Equal(lk.Date) {
				continue
			}
			rate := node.ProductionRatePerHour[pk.Product]
			if rate <= 0 {
				continue
			}
			prodVar, ok := v.Production[pk]
			if !ok {
				continue
			}
			rhsTerms = append(rhsTerms, solver.Term{VarIndex: prodVar, Coef: 1.0 / rate})
			if pv, ok := v.ProductProduced[pk]; ok {
				producedVars = append(producedVars, pv)
				rhsTerms = append(rhsTerms, solver.Term{VarIndex: pv, Coef: node.DefaultChangeoverHours})
			}
		}
		rhsTerms = append(rhsTerms, solver.Term{
			VarIndex: anyProd,
			Coef:     node.DailyStartupHours + node.DailyShutdownHours - node.DefaultChangeoverHours,
		})

		// F3: labor_hours_used = sum_p production/rate + overhead.
		b.AddConstraint(solver.Constraint{
			Name: "F3[" + tag + "]", Terms: rhsTerms, Sense: solver.EQ, RHS: 0,
		})
		// labor_hours_used <= max_daily_hours is already the variable's UB.

		for _, pv := range producedVars {
			b.AddConstraint(solver.Constraint{
				Name: "F3-anyprod[" + tag + "]",
				Terms: []solver.Term{
					{VarIndex: pv, Coef: 1},
					{VarIndex: anyProd, Coef: -1},
				},
				Sense: solver.LE, RHS: 0,
			})
		}

		// F4: labor_hours_used = fixed_hours_used + overtime_hours_used.
		b.AddConstraint(solver.Constraint{
			Name: "F4-split[" + tag + "]",
			Terms: []solver.Term{
				{VarIndex: usedVar, Coef: 1},
				{VarIndex: fixedVar, Coef: -1},
				{VarIndex: otVar, Coef: -1},
			},
			Sense: solver.EQ, RHS: 0,
		})

		// overtime_hours_used <= max_ot * uses_overtime.
		b.AddConstraint(solver.Constraint{
			Name: "F4-otlink[" + tag + "]",
			Terms: []solver.Term{
				{VarIndex: otVar, Coef: 1},
				{VarIndex: usesOT, Coef: -ld.MaxOvertimeHrs},
			},
			Sense: solver.LE, RHS: 0,
		})

		if ld.IsFixedDay {
			b.AddConstraint(solver.Constraint{
				Name: "F4-paid-fixed[" + tag + "]",
				Terms: []solver.Term{
					{VarIndex: paidVar, Coef: 1},
					{VarIndex: usedVar, Coef: -1},
				},
				Sense: solver.EQ, RHS: 0,
			})
		} else {
			b.AddConstraint(solver.Constraint{
				Name: "F4-paid-min[" + tag + "]",
				Terms: []solver.Term{
					{VarIndex: paidVar, Coef: 1},
					{VarIndex: anyProd, Coef: -ld.MinPaymentHours},
				},
				Sense: solver.GE, RHS: 0,
			})
			b.AddConstraint(solver.Constraint{
				Name: "F4-paid-used[" + tag + "]",
				Terms: []solver.Term{
					{VarIndex: paidVar, Coef: 1},
					{VarIndex: usedVar, Coef: -1},
				},
				Sense: solver.GE, RHS: 0,
			})
		}
	}
}
