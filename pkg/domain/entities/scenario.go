package entities

import "time"

// Horizon is the planning window, inclusive of both endpoints.
type Horizon struct {
	Start time.Time
	End   time.Time
}

// Days returns the number of calendar days spanned by the horizon.
func (h Horizon) Days() int {
	return int(h.End.Sub(h.Start).Hours()/24) + 1
}

// Scenario bundles every C1 input needed to build a network.Model: the
// static network (products, nodes, legs, trucks), the calendars (labor,
// forecast, initial inventory), and the cost/solve parameters. It is the
// single argument to network.Build, assembling one aggregate input before
// handing it to the planning engine.
type Scenario struct {
	Name    string
	Horizon Horizon

	Products []Product
	Nodes    []Node
	Legs     []Leg
	Trucks   []Truck

	LaborCalendar    []LaborDay
	Forecast         []ForecastEntry
	InitialInventory []InitialInventory

	ShelfLife ShelfLifePolicy
	Costs     CostStructure

	// AllowShortages permits unmet demand at ShortagePenaltyPerUnit instead
	// of forcing infeasibility when true.
	AllowShortages bool
}
