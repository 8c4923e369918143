// Package objective builds the cost-minimization objective (§4.3.3) from an
// assembled variable table: labor, production, transport, holding, and
// shortage-penalty terms summed into one solver.Objective.
package objective

import (
	"github.com/pinggolf/cryoplanner/internal/constraints"
	"github.com/pinggolf/cryoplanner/internal/index"
	"github.com/pinggolf/cryoplanner/internal/network"
	"github.com/pinggolf/cryoplanner/internal/solver"
	"github.com/pinggolf/cryoplanner/pkg/domain/entities"
)

// Build assembles the complete minimize-cost objective.
func Build(m *network.Model, idx *index.Indexes, v *constraints.Vars) solver.Objective {
	var terms []solver.Term

	terms = append(terms, laborTerms(m, v)...)
	terms = append(terms, productionTerms(m, idx, v)...)
	terms = append(terms, transportTerms(m, idx, v)...)
	terms = append(terms, holdingTerms(m, idx, v)...)
	terms = append(terms, shortageTerms(m, v)...)

	return solver.Objective{Terms: terms, Minimize: true}
}

// laborTerms implements the F4 cost rule: regular/overtime rates on fixed
// days, a single non-fixed rate applied to paid (not used) hours otherwise.
func laborTerms(m *network.Model, v *constraints.Vars) []solver.Term {
	var terms []solver.Term
	seen := make(map[constraints.LaborKey]bool)
	for lk := range v.LaborHoursUsed {
		if seen[lk] {
			continue
		}
		seen[lk] = true
		ld, ok := m.LaborDay(lk.Date)
		if !ok {
			continue
		}
		if ld.IsFixedDay {
			if fv, ok := v.FixedHoursUsed[lk]; ok {
				terms = append(terms, solver.Term{VarIndex: fv, Coef: ld.RegularRate})
			}
			if ov, ok := v.OvertimeHoursUsed[lk]; ok {
				terms = append(terms, solver.Term{VarIndex: ov, Coef: ld.OvertimeRate})
			}
		} else if pv, ok := v.LaborHoursPaid[lk]; ok {
			terms = append(terms, solver.Term{VarIndex: pv, Coef: ld.NonFixedRate})
		}
	}
	return terms
}

func productionTerms(m *network.Model, idx *index.Indexes, v *constraints.Vars) []solver.Term {
	costs := m.Costs()
	var terms []solver.Term
	for _, pk := range idx.ProdIdx {
		rate, ok := costs.ProductionCostPerUnit[pk.Product]
		if !ok || rate == 0 {
			continue
		}
		if pv, ok := v.Production[pk]; ok {
			terms = append(terms, solver.Term{VarIndex: pv, Coef: rate})
		}
	}
	return terms
}

// transportTerms uses each leg's own CostPerUnit (§3.1) as the authoritative
// rate, with CostStructure.TransportCostPerUnit available as a per-leg
// override for callers that want to price transport independently of the
// network topology's baked-in figures.
func transportTerms(m *network.Model, idx *index.Indexes, v *constraints.Vars) []solver.Term {
	costs := m.Costs()
	legRate := make(map[entities.LegKey]float64)
	for _, n := range m.Nodes() {
		for _, l := range m.LegsFrom(n.ID) {
			legRate[entities.LegKey{Origin: l.Origin, Destination: l.Destination}] = l.CostPerUnit
		}
	}

	var terms []solver.Term
	for shipKey, varIdx := range v.ShipmentCohort {
		lk := entities.LegKey{Origin: shipKey.Origin, Destination: shipKey.Destination}
		rate, ok := costs.TransportCostPerUnit[lk]
		if !ok {
			rate, ok = legRate[lk]
		}
		if !ok || rate == 0 {
			continue
		}
		terms = append(terms, solver.Term{VarIndex: varIdx, Coef: rate})
	}
	return terms
}

// holdingTerms charges per-unit-day or per-pallet-day storage cost,
// selected per (node, state) by configuration, plus a one-time
// per-pallet-entry cost approximated on a cohort's first storage day (its
// exact "new pallet entered storage" day would require a Δpallet_count
// variable per period; charging the entry fee on day one of each cohort's
// life is a close, much simpler proxy since the vast majority of pallet
// entries coincide with a cohort's first appearance).
func holdingTerms(m *network.Model, idx *index.Indexes, v *constraints.Vars) []solver.Term {
	costs := m.Costs()
	var terms []solver.Term

	storageCostFor := func(node entities.NodeID, state entities.State) (entities.StorageCost, bool) {
		byState, ok := costs.StorageByNodeState[node]
		if !ok {
			return entities.StorageCost{}, false
		}
		sc, ok := byState[state]
		return sc, ok
	}

	switch idx.Mode {
	case index.AgeCohort:
		for _, c := range idx.CohortIdx {
			sc, ok := storageCostFor(c.Node, c.State)
			if !ok {
				continue
			}
			invVar := v.InventoryCohort[c]
			if sc.PalletGranular {
				if pv, ok := v.PalletCount[c]; ok {
					terms = append(terms, solver.Term{VarIndex: pv, Coef: sc.PerPalletPerDay})
					if c.ProdDate.Equal(c.CurrDate) {
						terms = append(terms, solver.Term{VarIndex: pv, Coef: sc.PerPalletEntry})
					}
				}
			} else if sc.PerUnitPerDay != 0 {
				terms = append(terms, solver.Term{VarIndex: invVar, Coef: sc.PerUnitPerDay})
			}
		}
	case index.SlidingWindow:
		for _, a := range idx.AggregateIdx {
			sc, ok := storageCostFor(a.Node, a.State)
			if !ok {
				continue
			}
			invVar := v.AggregateInventory[a]
			if sc.PalletGranular {
				key := index.PalletKey{Node: a.Node, Product: a.Product, State: a.State, CurrDate: a.Date}
				if pv, ok := v.PalletCount[key]; ok {
					terms = append(terms, solver.Term{VarIndex: pv, Coef: sc.PerPalletPerDay})
				}
			} else if sc.PerUnitPerDay != 0 {
				terms = append(terms, solver.Term{VarIndex: invVar, Coef: sc.PerUnitPerDay})
			}
		}
	}
	return terms
}

func shortageTerms(m *network.Model, v *constraints.Vars) []solver.Term {
	costs := m.Costs()
	var terms []solver.Term
	for _, sv := range v.Shortage {
		terms = append(terms, solver.Term{VarIndex: sv, Coef: costs.ShortagePenaltyPerUnit})
	}
	return terms
}
