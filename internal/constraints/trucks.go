package constraints

import (
	"fmt"
	"time"

	"github.com/pinggolf/cryoplanner/internal/index"
	"github.com/pinggolf/cryoplanner/internal/network"
	"github.com/pinggolf/cryoplanner/internal/solver"
	"github.com/pinggolf/cryoplanner/pkg/domain/entities"
)

// addTrucks instantiates truck_used[k,t] and truck_load[k,dest,p,t], and
// wires F9 (capacity per scheduled truck run, split per intermediate stop)
// and F10 (D-1/D0 loading timing). truck_used[k,t] is never even
// instantiated for a date outside the truck's day mask — TruckIdx already
// excludes those — so the per-truck half of "truck_used = 0 off-schedule"
// is enforced by construction. The complementary half — that a route with
// a truck schedule can't move cargo on a date none of its trucks run —
// still needs an explicit constraint, since a scheduled date's absence
// from TruckIdx only omits that truck's own variables; it does not by
// itself stop shipment_cohort from being used directly. addTruckGating
// supplies that constraint.
func addTrucks(b *solver.Builder, m *network.Model, idx *index.Indexes, v *Vars) {
	for _, tk := range idx.TruckIdx {
		name := fmt.Sprintf("truck_used[%s,%s]", tk.Truck, tk.Date.Format("2006-01-02"))
		v.TruckUsed[tk] = b.AddVar(name, solver.Binary, 0, 1)
	}

	for _, tk := range idx.TruckIdx {
		var truck entities.Truck
		found := false
		for _, t := range m.TrucksOn(tk.Date) {
			if t.ID == tk.Truck {
				truck = t
				found = true
				break
			}
		}
		if !found {
			continue
		}

		var capTerms []solver.Term
		for _, dest := range truck.Destinations() {
			for _, p := range m.Products() {
				loadVar := addTruckLoad(b, m, v, truck, dest, p, tk)
				if loadVar == -1 {
					continue
				}
				capTerms = append(capTerms, solver.Term{VarIndex: loadVar, Coef: 1})
			}
		}

		capTerms = append(capTerms, solver.Term{VarIndex: v.TruckUsed[tk], Coef: -float64(truck.CapacityUnits)})
		b.AddConstraint(solver.Constraint{
			Name: fmt.Sprintf("F9[%s,%s]", tk.Truck, tk.Date.Format("2006-01-02")),
			Terms: capTerms, Sense: solver.LE, RHS: 0,
		})
	}
}

// addTruckLoad instantiates one truck_load[k,dest,p,t] variable and ties it
// to the matching shipment_cohort entries via F9's truck-to-shipment
// linkage and F10's D-1/D0 timing restriction, returning its variable index
// (or -1 if the truck carries nothing to this destination on this date).
func addTruckLoad(b *solver.Builder, m *network.Model, v *Vars, truck entities.Truck, dest entities.NodeID, p entities.Product, tk index.TruckKey) int {
	transitDays := -1
	for _, l := range m.LegsFrom(truck.Origin) {
		if l.Destination == dest {
			transitDays = l.TransitDays
			break
		}
	}
	if transitDays < 0 {
		return -1 // no leg connects this truck's origin to this stop
	}
	deliveryDate := tk.Date.AddDate(0, 0, transitDays)

	var eligible []int
	for shipKey, varIdx := range v.ShipmentCohort {
		if shipKey.Origin != truck.Origin || shipKey.Destination != dest || shipKey.Product != p.ID {
			continue
		}
		if !shipKey.DeliveryDate.Equal(deliveryDate) {
			continue
		}
		cutoff := tk.Date
		if truck.Departure == entities.Morning {
			cutoff = tk.Date.AddDate(0, 0, -1)
		}
		if shipKey.ProdDate.After(cutoff) {
			continue // F10: D-1 (morning) vs D0 (afternoon) loading cutoff
		}
		eligible = append(eligible, varIdx)
	}
	if len(eligible) == 0 {
		return -1
	}

	name := fmt.Sprintf("truck_load[%s,%s,%s,%s]", truck.ID, dest, p.ID, tk.Date.Format("2006-01-02"))
	loadVar := b.AddVar(name, solver.Continuous, 0, float64(truck.CapacityUnits))
	key := TruckLoadKey{Truck: truck.ID, Dest: dest, Product: p.ID, Date: tk.Date}
	v.TruckLoad[key] = loadVar

	terms := []solver.Term{{VarIndex: loadVar, Coef: -1}}
	for _, e := range eligible {
		terms = append(terms, solver.Term{VarIndex: e, Coef: 1})
	}
	b.AddConstraint(solver.Constraint{
		Name: "F9-link[" + name + "]", Terms: terms, Sense: solver.EQ, RHS: 0,
	})
	return loadVar
}

// addTruckGating forces every shipment_cohort group on a truck-scheduled
// route to zero on a delivery date whose load date no scheduled truck
// covers. Routes nobody ever assigns a truck to are left alone — trucks
// are an optional capacity/schedule layer on top of a leg, not a mandatory
// one, so a leg with no truck configured for it at all ships unconstrained
// by day-of-week, same as before this function existed. A route WITH a
// truck schedule is different: addTruckLoad's F9-link already forces
// truck_load (and therefore implicitly the matching shipments) to the
// right value on days the truck runs, but it has nothing to say about
// days the truck doesn't run, since no truck_load variable is even
// instantiated for those dates.
func addTruckGating(b *solver.Builder, m *network.Model, idx *index.Indexes, v *Vars) {
	truckedRoutes := make(map[[2]entities.NodeID]bool)
	for _, tk := range idx.TruckIdx {
		for _, t := range m.TrucksOn(tk.Date) {
			if t.ID != tk.Truck {
				continue
			}
			for _, dest := range t.Destinations() {
				truckedRoutes[[2]entities.NodeID{t.Origin, dest}] = true
			}
		}
	}
	if len(truckedRoutes) == 0 {
		return
	}

	legTransit := make(map[[2]entities.NodeID]int)
	for _, n := range m.Nodes() {
		for _, l := range m.LegsFrom(n.ID) {
			legTransit[[2]entities.NodeID{l.Origin, l.Destination}] = l.TransitDays
		}
	}

	type groupKey struct {
		origin, dest entities.NodeID
		product       entities.ProductID
		deliver       time.Time
	}
	groups := make(map[groupKey][]int)
	for shipKey, varIdx := range v.ShipmentCohort {
		route := [2]entities.NodeID{shipKey.Origin, shipKey.Destination}
		if !truckedRoutes[route] {
			continue
		}
		gk := groupKey{origin: shipKey.Origin, dest: shipKey.Destination, product: shipKey.Product, deliver: shipKey.DeliveryDate}
		groups[gk] = append(groups[gk], varIdx)
	}

	for gk, vars := range groups {
		transitDays, ok := legTransit[[2]entities.NodeID{gk.origin, gk.dest}]
		if !ok {
			continue
		}
		loadDate := gk.deliver.AddDate(0, 0, -transitDays)

		served := false
		for _, t := range m.TrucksOn(loadDate) {
			if t.Origin != gk.origin {
				continue
			}
			for _, dest := range t.Destinations() {
				if dest == gk.dest {
					served = true
					break
				}
			}
			if served {
				break
			}
		}
		if served {
			continue // addTruckLoad's F9-link already binds this group
		}

		name := fmt.Sprintf("truck_gate[%s->%s,%s,%s]", gk.origin, gk.dest, gk.product, gk.deliver.Format("2006-01-02"))
		terms := make([]solver.Term, 0, len(vars))
		for _, vi := range vars {
			terms = append(terms, solver.Term{VarIndex: vi, Coef: 1})
		}
		b.AddConstraint(solver.Constraint{
			Name: "F9-gate[" + name + "]", Terms: terms, Sense: solver.EQ, RHS: 0,
		})
	}
}
