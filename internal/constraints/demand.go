package constraints

import (
	"fmt"

	"github.com/pinggolf/cryoplanner/internal/index"
	"github.com/pinggolf/cryoplanner/internal/network"
	"github.com/pinggolf/cryoplanner/internal/solver"
	"github.com/pinggolf/cryoplanner/pkg/domain/entities"
)

// addShortage instantiates shortage[dest,p,t] for every forecast entry when
// shortages are allowed. Shared between age-cohort and sliding-window F7
// wiring so neither mode duplicates shortage accounting.
func addShortage(b *solver.Builder, m *network.Model, v *Vars, cfg Config) {
	if !cfg.AllowShortages {
		return
	}
	for _, f := range m.Forecast() {
		key := f.Key()
		name := fmt.Sprintf("shortage[%s,%s,%s]", f.Destination, f.Product, f.Date.Format("2006-01-02"))
		v.Shortage[key] = b.AddVar(name, solver.Continuous, 0, float64(f.Quantity))
	}
}

// addDemand instantiates demand_from_cohort (F8 eligibility is already
// baked into DemandCohortIdx by the index builder) and wires F7 (demand
// satisfaction) for every forecast entry, age-cohort mode only. Must run
// before addInventory so F5 can look up these variables by a reshaped key.
func addDemand(b *solver.Builder, m *network.Model, idx *index.Indexes, v *Vars) {
	byEntry := make(map[entities.ForecastKey][]index.DemandCohortKey)
	for _, dk := range idx.DemandCohortIdx {
		key := entities.ForecastKey{Destination: dk.Destination, Product: dk.Product, Date: dk.Date}
		byEntry[key] = append(byEntry[key], dk)
	}

	for _, dk := range idx.DemandCohortIdx {
		name := fmt.Sprintf("demand_from_cohort[%s,%s,%s,%s,%s]",
			dk.Destination, dk.Product, dk.Date.Format("2006-01-02"), dk.ProdDate.Format("2006-01-02"), dk.State)
		qty := m.Demand(dk.Destination, dk.Product, dk.Date)
		varIdx := b.AddVar(name, solver.Continuous, 0, float64(qty))
		v.DemandFromCohort[dk] = varIdx
	}

	for _, f := range m.Forecast() {
		key := f.Key()
		name := fmt.Sprintf("F7[%s,%s,%s]", f.Destination, f.Product, f.Date.Format("2006-01-02"))
		var terms []solver.Term
		for _, dk := range byEntry[key] {
			terms = append(terms, solver.Term{VarIndex: v.DemandFromCohort[dk], Coef: 1})
		}
		if sv, ok := v.Shortage[key]; ok {
			terms = append(terms, solver.Term{VarIndex: sv, Coef: 1})
		}

		b.AddConstraint(solver.Constraint{
			Name: name, Terms: terms, Sense: solver.EQ, RHS: float64(f.Quantity),
		})
	}
}
