package constraints

import (
	"fmt"
	"math"

	"github.com/pinggolf/cryoplanner/internal/index"
	"github.com/pinggolf/cryoplanner/internal/network"
	"github.com/pinggolf/cryoplanner/internal/solver"
	"github.com/pinggolf/cryoplanner/pkg/domain/entities"
)

// addPallets instantiates pallet_count for every PalletIdx entry and wires
// F11 (integer pallet ceiling): pallet_count*320 >= inventory_units. The
// objective (holding cost) then charges the solver for each pallet, so the
// minimizer drives pallet_count to the exact ceiling on its own — no
// explicit "round up" logic is needed in the constraint itself.
func addPallets(b *solver.Builder, m *network.Model, idx *index.Indexes, v *Vars) {
	for _, pk := range idx.PalletIdx {
		var invVar int
		var ok bool
		switch idx.Mode {
		case index.AgeCohort:
			invVar, ok = v.InventoryCohort[pk]
		case index.SlidingWindow:
			invVar, ok = v.AggregateInventory[index.AggregateKey{Node: pk.Node, Product: pk.Product, State: pk.State, Date: pk.CurrDate}]
		}
		if !ok {
			continue
		}

		node, _ := m.Node(pk.Node)
		product, _ := m.Product(pk.Product)
		// F12 implementation note: bound pallet_count by the ceiling of
		// *daily* production capacity, not the cumulative horizon total —
		// the cumulative bound is 20x-30x looser and materially slows
		// branch-and-bound.
		dailyCap := dailyCapacityUnits(m, node, product, pk.CurrDate)
		ub := math.Ceil(dailyCap / float64(entities.UnitsPerPallet))
		if ub == 0 {
			ub = 1000 // no manufacturing at this node/date; fall back to a generic cap
		}

		name := fmt.Sprintf("pallet_count[%s,%s,%s,%s]", pk.Node, pk.Product, pk.State, pk.CurrDate.Format("2006-01-02"))
		palletVar := b.AddVar(name, solver.Integer, 0, ub)
		v.PalletCount[pk] = palletVar

		b.AddConstraint(solver.Constraint{
			Name: "F11[" + name + "]",
			Terms: []solver.Term{
				{VarIndex: palletVar, Coef: float64(entities.UnitsPerPallet)},
				{VarIndex: invVar, Coef: -1},
			},
			Sense: solver.GE, RHS: 0,
		})
	}
}
