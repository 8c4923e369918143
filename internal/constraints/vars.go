// Package constraints instantiates decision variables and constraint
// families F1-F12 (§4.3) against a solver.Builder, from a network.Model and
// its index.Indexes. One file per family: production.go (F1/F2), labor.go
// (F3/F4), inventory.go (F5), slidingwindow.go (F6), demand.go (F7/F8),
// trucks.go (F9/F10), pallets.go (F11), bounds.go (F12); assembler.go ties
// them together into a single solver.Problem.
package constraints

import (
	"time"

	"github.com/pinggolf/cryoplanner/internal/index"
	"github.com/pinggolf/cryoplanner/internal/solver"
	"github.com/pinggolf/cryoplanner/pkg/domain/entities"
)

// LaborKey identifies a labor-day decision at a manufacturing node.
type LaborKey struct {
	Node entities.NodeID
	Date time.Time
}

// TruckLoadKey identifies one destination's load on one truck run.
type TruckLoadKey struct {
	Truck   entities.TruckID
	Dest    entities.NodeID
	Product entities.ProductID
	Date    time.Time
}

// Vars holds every decision-variable index, keyed by the domain key it was
// instantiated for, so constraint families and the extractor can look up
// the same variable by the same key without re-deriving indices.
type Vars struct {
	Production      map[index.ProdKey]int
	MixCount        map[index.ProdKey]int
	ProductProduced map[index.ProdKey]int

	InventoryCohort    map[index.CohortKey]int
	AggregateInventory map[index.AggregateKey]int

	ShipmentCohort map[index.ShipmentKey]int

	DemandFromCohort map[index.DemandCohortKey]int
	// DemandFromAggregate is sliding-window mode's coarser analogue: one
	// variable per forecast entry instead of one per eligible cohort.
	DemandFromAggregate map[entities.ForecastKey]int

	Shortage map[entities.ForecastKey]int

	TruckUsed map[index.TruckKey]int
	TruckLoad map[TruckLoadKey]int

	LaborHoursUsed    map[LaborKey]int
	LaborHoursPaid    map[LaborKey]int
	FixedHoursUsed    map[LaborKey]int
	OvertimeHoursUsed map[LaborKey]int
	UsesOvertime      map[LaborKey]int

	PalletCount map[index.PalletKey]int
}

func newVars() *Vars {
	return &Vars{
		Production:          make(map[index.ProdKey]int),
		MixCount:             make(map[index.ProdKey]int),
		ProductProduced:      make(map[index.ProdKey]int),
		InventoryCohort:      make(map[index.CohortKey]int),
		AggregateInventory:   make(map[index.AggregateKey]int),
		ShipmentCohort:       make(map[index.ShipmentKey]int),
		DemandFromCohort:     make(map[index.DemandCohortKey]int),
		DemandFromAggregate:  make(map[entities.ForecastKey]int),
		Shortage:             make(map[entities.ForecastKey]int),
		TruckUsed:            make(map[index.TruckKey]int),
		TruckLoad:            make(map[TruckLoadKey]int),
		LaborHoursUsed:       make(map[LaborKey]int),
		LaborHoursPaid:       make(map[LaborKey]int),
		FixedHoursUsed:       make(map[LaborKey]int),
		OvertimeHoursUsed:    make(map[LaborKey]int),
		UsesOvertime:         make(map[LaborKey]int),
		PalletCount:          make(map[index.PalletKey]int),
	}
}

// Config selects which optional enforcement/accounting paths the assembler
// wires in, per the configuration flags listed in §6.1.
type Config struct {
	EnforceMixSize  bool
	AllowShortages  bool
	Mode            index.Mode
}
