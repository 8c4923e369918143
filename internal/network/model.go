// Package network holds the canonical, immutable network and calendar model
// (C1): products, nodes, legs, trucks, labor calendar, demand, and initial
// inventory, plus the lookups every downstream component (index, constraints,
// extractor) uses to navigate them.
package network

import (
	"sort"
	"time"

	"github.com/pinggolf/cryoplanner/pkg/domain/entities"
)

// Model is the validated, read-only view of a Scenario. It is safe for
// concurrent read-only use by multiple planner.Drivers, per the scenario
// lifecycle rule that C1 is loaded once and immutable thereafter.
type Model struct {
	name    string
	horizon entities.Horizon
	loc     *time.Location

	products map[entities.ProductID]entities.Product
	nodes    map[entities.NodeID]entities.Node

	legsFrom map[entities.NodeID][]entities.Leg
	legsTo   map[entities.NodeID][]entities.Leg

	trucksByWeekday map[time.Weekday][]entities.Truck
	laborByDate     map[int64]entities.LaborDay

	demand     map[entities.ForecastKey]entities.Quantity
	forecast   []entities.ForecastEntry
	initInv    []entities.InitialInventory

	shelfLife entities.ShelfLifePolicy
	costs     entities.CostStructure

	allowShortages bool

	// maxTransitDays is the largest TransitDays across all legs, used to
	// extend the effective horizon forward per §3.3.
	maxTransitDays int
}

// Name returns the scenario name the model was built from.
func (m *Model) Name() string { return m.name }

// Horizon returns the planning window as configured (not transit-extended).
func (m *Model) Horizon() entities.Horizon { return m.horizon }

// EffectiveEnd returns the horizon end extended forward by the maximum leg
// transit time, so shipments departing within horizon but delivering just
// beyond it are still representable (§3.3).
func (m *Model) EffectiveEnd() time.Time {
	return m.horizon.End.AddDate(0, 0, m.maxTransitDays)
}

// ShelfLife returns the configured shelf-life policy.
func (m *Model) ShelfLife() entities.ShelfLifePolicy { return m.shelfLife }

// Costs returns the configured cost structure.
func (m *Model) Costs() entities.CostStructure { return m.costs }

// AllowShortages reports whether unmet demand is permitted at a penalty.
func (m *Model) AllowShortages() bool { return m.allowShortages }

// Product looks up a product by id. The bool is false for an unknown id;
// Build already validated every reference, so callers downstream of a
// successfully built Model can treat a false here as a programming error.
func (m *Model) Product(id entities.ProductID) (entities.Product, bool) {
	p, ok := m.products[id]
	return p, ok
}

// Products returns every product, sorted by id for deterministic iteration.
func (m *Model) Products() []entities.Product {
	out := make([]entities.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Node looks up a node by id.
func (m *Model) Node(id entities.NodeID) (entities.Node, bool) {
	n, ok := m.nodes[id]
	return n, ok
}

// Nodes returns every node, sorted by id for deterministic iteration.
func (m *Model) Nodes() []entities.Node {
	out := make([]entities.Node, 0, len(m.nodes))
	for _, n := range m.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LegsFrom returns every leg departing the given node, in scenario input order.
func (m *Model) LegsFrom(origin entities.NodeID) []entities.Leg {
	return m.legsFrom[origin]
}

// LegsTo returns every leg arriving at the given node, in scenario input order.
func (m *Model) LegsTo(dest entities.NodeID) []entities.Leg {
	return m.legsTo[dest]
}

// TrucksOn returns every truck scheduled to run on the given date's weekday.
func (m *Model) TrucksOn(date time.Time) []entities.Truck {
	return m.trucksByWeekday[date.In(m.loc).Weekday()]
}

// LaborDay looks up the labor-cost rules for a date. Build guarantees a
// value exists for every date in [horizon.Start, horizon.End] whenever any
// node can manufacture, so a false here past Build means the caller passed
// a date outside the horizon.
func (m *Model) LaborDay(date time.Time) (entities.LaborDay, bool) {
	d, ok := m.laborByDate[dayKey(date, m.loc)]
	return d, ok
}

// Demand looks up forecast demand for (destination, product, date). A
// missing entry means zero demand, not an error.
func (m *Model) Demand(dest entities.NodeID, product entities.ProductID, date time.Time) entities.Quantity {
	return m.demand[entities.ForecastKey{Destination: dest, Product: product, Date: dayTrunc(date, m.loc)}]
}

// Forecast returns a copy of every forecast entry in scenario input order,
// so iteration is deterministic for identical input.
func (m *Model) Forecast() []entities.ForecastEntry {
	out := make([]entities.ForecastEntry, len(m.forecast))
	copy(out, m.forecast)
	return out
}

// InitialInventory returns a copy of every seeded starting-inventory record
// in scenario input order, so iteration is deterministic for identical input.
func (m *Model) InitialInventory() []entities.InitialInventory {
	out := make([]entities.InitialInventory, len(m.initInv))
	copy(out, m.initInv)
	return out
}

func dayTrunc(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func dayKey(t time.Time, loc *time.Location) int64 {
	return dayTrunc(t, loc).Unix()
}
