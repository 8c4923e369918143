package constraints

import (
	"fmt"

	"github.com/pinggolf/cryoplanner/internal/index"
	"github.com/pinggolf/cryoplanner/internal/network"
	"github.com/pinggolf/cryoplanner/internal/solver"
	"github.com/pinggolf/cryoplanner/pkg/domain/entities"
)

type legInfo struct {
	transitDays int
	departState entities.State
}

// addInventory instantiates inventory_cohort[n,p,prod_d,t,s] and the F5
// flow-conservation constraint tying it to production, arrivals, departures,
// and demand consumption. Must run after addDemand and addShipments so it
// can look up their variables directly by a reshaped key instead of
// re-deriving a second index.
func addInventory(b *solver.Builder, m *network.Model, idx *index.Indexes, v *Vars) {
	legLookup := make(map[[2]entities.NodeID]legInfo)
	for _, n := range m.Nodes() {
		for _, l := range m.LegsFrom(n.ID) {
			legLookup[[2]entities.NodeID{l.Origin, l.Destination}] = legInfo{transitDays: l.TransitDays, departState: l.DepartureState}
		}
	}

	arrivals := make(map[index.CohortKey][]int)
	departures := make(map[index.CohortKey][]int)
	for shipKey, varIdx := range v.ShipmentCohort {
		// ArrivalProdDate is the cohort identity the shipment takes on upon
		// arrival: shipKey.ProdDate (the pre-freeze production date) for
		// every state except Thawed, where it is re-anchored to the
		// delivery date — the post-thaw shelf-life clock starts at the true
		// thaw date, not the original production date.
		arrivalKey := index.CohortKey{
			Node: shipKey.Destination, Product: shipKey.Product,
			ProdDate: shipKey.ArrivalProdDate, CurrDate: shipKey.DeliveryDate, State: shipKey.State,
		}
		arrivals[arrivalKey] = append(arrivals[arrivalKey], varIdx)

		leg, ok := legLookup[[2]entities.NodeID{shipKey.Origin, shipKey.Destination}]
		if !ok {
			continue
		}
		// departKey always matches against the origin's true production
		// date, never ArrivalProdDate: thaw re-anchoring only ever applies
		// to the state the shipment arrives in, not the one it departs in.
		departDate := shipKey.DeliveryDate.AddDate(0, 0, -leg.transitDays)
		departKey := index.CohortKey{
			Node: shipKey.Origin, Product: shipKey.Product,
			ProdDate: shipKey.ProdDate, CurrDate: departDate, State: leg.departState,
		}
		departures[departKey] = append(departures[departKey], varIdx)
	}

	initInv := initialInventoryByCohort(m)

	for _, c := range idx.CohortIdx {
		node, _ := m.Node(c.Node)
		name := fmt.Sprintf("inventory_cohort[%s,%s,%s,%s,%s]",
			c.Node, c.Product, c.ProdDate.Format("2006-01-02"), c.CurrDate.Format("2006-01-02"), c.State)
		ub := cohortUpperBound(m, idx, c)
		invVar := b.AddVar(name, solver.Continuous, 0, ub)
		v.InventoryCohort[c] = invVar

		terms := []solver.Term{{VarIndex: invVar, Coef: 1}}
		rhs := 0.0

		priorKey := c
		priorKey.CurrDate = c.CurrDate.AddDate(0, 0, -1)
		if priorVar, ok := v.InventoryCohort[priorKey]; ok {
			terms = append(terms, solver.Term{VarIndex: priorVar, Coef: -1})
		} else {
			rhs += float64(initInv[c])
		}

		if node.CanManufacture && c.State == entities.Ambient && c.ProdDate.Equal(c.CurrDate) {
			if prodVar, ok := v.Production[index.ProdKey{Node: c.Node, Product: c.Product, Date: c.CurrDate}]; ok {
				terms = append(terms, solver.Term{VarIndex: prodVar, Coef: -1})
			}
		}

		for _, arrVar := range arrivals[c] {
			terms = append(terms, solver.Term{VarIndex: arrVar, Coef: -1})
		}
		for _, depVar := range departures[c] {
			terms = append(terms, solver.Term{VarIndex: depVar, Coef: 1})
		}

		if node.HasDemand {
			dk := index.DemandCohortKey{Destination: c.Node, Product: c.Product, Date: c.CurrDate, ProdDate: c.ProdDate, State: c.State}
			if demVar, ok := v.DemandFromCohort[dk]; ok {
				terms = append(terms, solver.Term{VarIndex: demVar, Coef: 1})
			}
		}

		b.AddConstraint(solver.Constraint{
			Name: "F5[" + name + "]", Terms: terms, Sense: solver.EQ, RHS: rhs,
		})
	}
}

// initialInventoryByCohort maps each InitialInventory entry onto the
// (node, product, prod_date, state) cohort it seeds at the horizon's first
// day. When no production_date is given, the cohort is treated as the
// oldest still-valid one for its state (age exactly at the shelf-life
// limit) per the entity's documented contract.
func initialInventoryByCohort(m *network.Model) map[index.CohortKey]entities.Quantity {
	out := make(map[index.CohortKey]entities.Quantity)
	start := m.Horizon().Start
	policy := m.ShelfLife()
	for _, inv := range m.InitialInventory() {
		prodDate := inv.ProductionDate
		if !inv.HasProductionDate() {
			prodDate = start.AddDate(0, 0, -policy.Days(inv.State))
		}
		key := index.CohortKey{Node: inv.Node, Product: inv.Product, ProdDate: prodDate, CurrDate: start, State: inv.State}
		out[key] += inv.Quantity
	}
	return out
}

// cohortUpperBound bounds a cohort's inventory by the total production
// capacity ever available to that (node, product) pair across the horizon
// — a cohort can never hold more than could ever have been produced.
func cohortUpperBound(m *network.Model, idx *index.Indexes, c index.CohortKey) float64 {
	node, _ := m.Node(c.Node)
	product, _ := m.Product(c.Product)
	var total float64
	for _, pk := range idx.ProdIdx {
		if pk.Node == c.Node && pk.Product == c.Product {
			total += dailyCapacityUnits(m, node, product, pk.Date)
		}
	}
	if total == 0 {
		total = float64(entities.UnitsPerPallet) * 1000
	}
	return total
}
