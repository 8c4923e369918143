package constraints

import (
	"fmt"

	"github.com/pinggolf/cryoplanner/internal/index"
	"github.com/pinggolf/cryoplanner/internal/network"
	"github.com/pinggolf/cryoplanner/internal/solver"
	"github.com/pinggolf/cryoplanner/pkg/domain/entities"
)

// addSlidingWindow instantiates aggregate_inventory[n,p,s,t] and
// demand_from_aggregate[dest,p,t] for sliding-window mode, wiring the
// aggregate analogue of F5 (flow conservation without a cohort dimension)
// and F6 (windowed shelf-life enforcement). Without a per-batch production
// date there is no exact way to tie a unit of aggregate inventory back to
// its age, so F6 is encoded as a rolling-window supply cap: cumulative
// demand served over any trailing (shelf_life - min_remaining) window can
// never exceed cumulative ambient inflow over that same window — the
// "explicit windowed inflow-sum constraint" option named alongside
// index-restriction in the design notes.
func addSlidingWindow(b *solver.Builder, m *network.Model, idx *index.Indexes, v *Vars) {
	legLookup := make(map[[2]entities.NodeID]legInfo)
	for _, n := range m.Nodes() {
		for _, l := range m.LegsFrom(n.ID) {
			legLookup[[2]entities.NodeID{l.Origin, l.Destination}] = legInfo{transitDays: l.TransitDays, departState: l.DepartureState}
		}
	}

	arrivals := make(map[index.AggregateKey][]int)
	departures := make(map[index.AggregateKey][]int)

	for shipKey, varIdx := range v.ShipmentCohort {
		ak := index.AggregateKey{Node: shipKey.Destination, Product: shipKey.Product, State: shipKey.State, Date: shipKey.DeliveryDate}
		arrivals[ak] = append(arrivals[ak], varIdx)

		leg, ok := legLookup[[2]entities.NodeID{shipKey.Origin, shipKey.Destination}]
		if !ok {
			continue
		}
		departDate := shipKey.DeliveryDate.AddDate(0, 0, -leg.transitDays)
		dk := index.AggregateKey{Node: shipKey.Origin, Product: shipKey.Product, State: leg.departState, Date: departDate}
		departures[dk] = append(departures[dk], varIdx)
	}

	initByAgg := make(map[index.AggregateKey]entities.Quantity)
	start := m.Horizon().Start
	for _, inv := range m.InitialInventory() {
		key := index.AggregateKey{Node: inv.Node, Product: inv.Product, State: inv.State, Date: start}
		initByAgg[key] += inv.Quantity
	}

	addWindowedDemand(b, m, idx, v)

	for _, a := range idx.AggregateIdx {
		node, _ := m.Node(a.Node)
		name := fmt.Sprintf("aggregate_inventory[%s,%s,%s,%s]", a.Node, a.Product, a.State, a.Date.Format("2006-01-02"))
		ub := aggregateUpperBound(m, idx, a)
		invVar := b.AddVar(name, solver.Continuous, 0, ub)
		v.AggregateInventory[a] = invVar

		terms := []solver.Term{{VarIndex: invVar, Coef: 1}}
		rhs := 0.0

		priorKey := a
		priorKey.Date = a.Date.AddDate(0, 0, -1)
		if priorVar, ok := v.AggregateInventory[priorKey]; ok {
			terms = append(terms, solver.Term{VarIndex: priorVar, Coef: -1})
		} else {
			rhs += float64(initByAgg[a])
		}

		if node.CanManufacture && a.State == entities.Ambient {
			if prodVar, ok := v.Production[index.ProdKey{Node: a.Node, Product: a.Product, Date: a.Date}]; ok {
				terms = append(terms, solver.Term{VarIndex: prodVar, Coef: -1})
			}
		}
		for _, arrVar := range arrivals[a] {
			terms = append(terms, solver.Term{VarIndex: arrVar, Coef: -1})
		}
		for _, depVar := range departures[a] {
			terms = append(terms, solver.Term{VarIndex: depVar, Coef: 1})
		}

		if node.HasDemand && a.State == entities.Ambient {
			fk := entities.ForecastKey{Destination: a.Node, Product: a.Product, Date: a.Date}
			if demVar, ok := v.DemandFromAggregate[fk]; ok {
				terms = append(terms, solver.Term{VarIndex: demVar, Coef: 1})
			}
		}

		b.AddConstraint(solver.Constraint{
			Name: "F5agg[" + name + "]", Terms: terms, Sense: solver.EQ, RHS: rhs,
		})
	}
}

// addWindowedDemand instantiates demand_from_aggregate per forecast entry,
// wires F7 against it, and adds the rolling-window F6 cap.
func addWindowedDemand(b *solver.Builder, m *network.Model, idx *index.Indexes, v *Vars) {
	for _, f := range m.Forecast() {
		key := f.Key()
		name := fmt.Sprintf("demand_from_aggregate[%s,%s,%s]", f.Destination, f.Product, f.Date.Format("2006-01-02"))
		varIdx := b.AddVar(name, solver.Continuous, 0, float64(f.Quantity))
		v.DemandFromAggregate[key] = varIdx

		terms := []solver.Term{{VarIndex: varIdx, Coef: 1}}
		if sv, ok := v.Shortage[key]; ok {
			terms = append(terms, solver.Term{VarIndex: sv, Coef: 1})
		}
		b.AddConstraint(solver.Constraint{
			Name: fmt.Sprintf("F7agg[%s,%s,%s]", f.Destination, f.Product, f.Date.Format("2006-01-02")),
			Terms: terms, Sense: solver.EQ, RHS: float64(f.Quantity),
		})
	}

	policy := m.ShelfLife()
	window := policy.Days(entities.Ambient) - policy.MinRemainingDaysAtDemand
	if window < 0 {
		return
	}

	ambientArrivals := make(map[entities.ForecastKey][]int)
	for shipKey, varIdx := range v.ShipmentCohort {
		if shipKey.State == entities.Ambient {
			k := entities.ForecastKey{Destination: shipKey.Destination, Product: shipKey.Product, Date: shipKey.DeliveryDate}
			ambientArrivals[k] = append(ambientArrivals[k], varIdx)
		}
	}

	for _, dk := range idx.DemandAggregateIdx {
		var demandTerms, supplyTerms []solver.Term
		for d := dk.MinProdDate; !d.After(dk.Date); d = d.AddDate(0, 0, 1) {
			fk := entities.ForecastKey{Destination: dk.Destination, Product: dk.Product, Date: d}
			if dv, ok := v.DemandFromAggregate[fk]; ok {
				demandTerms = append(demandTerms, solver.Term{VarIndex: dv, Coef: 1})
			}
			if pv, ok := v.Production[index.ProdKey{Node: dk.Destination, Product: dk.Product, Date: d}]; ok {
				supplyTerms = append(supplyTerms, solver.Term{VarIndex: pv, Coef: 1})
			}
			for _, av := range ambientArrivals[fk] {
				supplyTerms = append(supplyTerms, solver.Term{VarIndex: av, Coef: 1})
			}
		}
		if len(demandTerms) == 0 {
			continue
		}
		terms := append(demandTerms, negate(supplyTerms)...)
		b.AddConstraint(solver.Constraint{
			Name:  fmt.Sprintf("F6[%s,%s,%s]", dk.Destination, dk.Product, dk.Date.Format("2006-01-02")),
			Terms: terms, Sense: solver.LE, RHS: 0,
		})
	}
}

func negate(terms []solver.Term) []solver.Term {
	out := make([]solver.Term, len(terms))
	for i, t := range terms {
		out[i] = solver.Term{VarIndex: t.VarIndex, Coef: -t.Coef}
	}
	return out
}

func aggregateUpperBound(m *network.Model, idx *index.Indexes, a index.AggregateKey) float64 {
	node, _ := m.Node(a.Node)
	product, _ := m.Product(a.Product)
	var total float64
	for _, pk := range idx.ProdIdx {
		if pk.Node == a.Node && pk.Product == a.Product {
			total += dailyCapacityUnits(m, node, product, pk.Date)
		}
	}
	if total == 0 {
		total = float64(entities.UnitsPerPallet) * 1000
	}
	return total
}
