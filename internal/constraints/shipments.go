package constraints

import (
	"fmt"

	"github.com/pinggolf/cryoplanner/internal/index"
	"github.com/pinggolf/cryoplanner/internal/network"
	"github.com/pinggolf/cryoplanner/internal/solver"
	"github.com/pinggolf/cryoplanner/pkg/domain/entities"
)

// addShipments instantiates shipment_cohort[o,d,p,prod_d,deliv_d,s] for
// every entry in ShipmentIdx, bounded by the capacity of any single truck
// (the tightest easy upper bound — a shipment can never exceed what one
// truck could carry, since routing is a fixed schedule, not flexible).
func addShipments(b *solver.Builder, m *network.Model, idx *index.Indexes, v *Vars) {
	for _, k := range idx.ShipmentIdx {
		name := fmt.Sprintf("shipment_cohort[%s->%s,%s,%s,%s,%s]",
			k.Origin, k.Destination, k.Product,
			k.ProdDate.Format("2006-01-02"), k.DeliveryDate.Format("2006-01-02"), k.State)
		idxVar := b.AddVar(name, solver.Continuous, 0, float64(entities.TruckCapacityUnits))
		v.ShipmentCohort[k] = idxVar
	}
}
