// Package extract pulls variable values out of a solved solver.Problem and
// organizes them into the production schedule, shipment plan, inventory
// trajectory, cost breakdown, and demand outcomes an external orchestrator
// consumes (C5, §4.3.5). Extraction is a pure function of (model, indices,
// vars, solve result): it is idempotent and side-effect free by
// construction — it never writes back into the solver model or mutates its
// inputs.
package extract

import (
	"math"
	"sort"
	"time"

	"github.com/pinggolf/cryoplanner/internal/constraints"
	"github.com/pinggolf/cryoplanner/internal/index"
	"github.com/pinggolf/cryoplanner/internal/network"
	"github.com/pinggolf/cryoplanner/internal/objective"
	"github.com/pinggolf/cryoplanner/internal/solver"
	"github.com/pinggolf/cryoplanner/pkg/domain/entities"
)

// tolerance is the snapping threshold from §4.3.5: values within 1e-6 of an
// integer are snapped to it; values below 1e-6 are treated as zero.
const tolerance = 1e-6

// snap applies the tolerance-rounding rule to a single raw solver value.
func snap(x float64) float64 {
	r := math.Round(x)
	if math.Abs(x-r) < tolerance {
		return r
	}
	if math.Abs(x) < tolerance {
		return 0
	}
	return x
}

// ProductionEntry is one positive production decision.
type ProductionEntry struct {
	Node     entities.NodeID
	Product  entities.ProductID
	Date     time.Time
	Units    float64
	MixCount int64
}

// ShipmentEntry is one positive shipment flow.
type ShipmentEntry struct {
	Origin       entities.NodeID
	Destination  entities.NodeID
	Product      entities.ProductID
	ProdDate     time.Time
	DeliveryDate time.Time
	State        entities.State
	Units        float64
}

// InventoryPoint is one (node, product, state, date) trajectory sample,
// aggregated across cohorts when the model tracks per-batch age.
type InventoryPoint struct {
	Node    entities.NodeID
	Product entities.ProductID
	State   entities.State
	Date    time.Time
	Units   float64
}

// DemandOutcome reports how one forecast entry was satisfied.
type DemandOutcome struct {
	Destination entities.NodeID
	Product     entities.ProductID
	Date        time.Time
	Demand      entities.Quantity
	Shortage    float64
	FillRate    float64
}

// Result is the complete solution, pure values with no references back into
// the solver model.
type Result struct {
	Status    solver.SolveStatus
	Objective float64
	SolveTime time.Duration
	Gap       float64
	Costs     objective.CostBreakdown

	Production     []ProductionEntry
	Shipments      []ShipmentEntry
	Inventory      []InventoryPoint
	DemandOutcomes []DemandOutcome

	// BuildDiagnostics carries construction-time findings (e.g. the F12
	// bounds sanity pass) that aren't specific to any one solve.
	BuildDiagnostics []string
}

// Extract builds a Result from a solved Problem. Per §4.4, an Infeasible,
// Unbounded, or Error status yields no schedule: Result carries the status,
// solve time, and diagnostics, but empty collections elsewhere. A
// TimeLimit status with a feasible incumbent is extracted like Optimal —
// the current incumbent is the best the caller has to work with.
func Extract(m *network.Model, idx *index.Indexes, v *constraints.Vars, res solver.Result, buildDiagnostics []string) *Result {
	out := &Result{
		Status:           res.Status,
		Objective:        res.Objective,
		SolveTime:        res.SolveTime,
		Gap:              res.Gap,
		BuildDiagnostics: buildDiagnostics,
	}

	if res.Status == solver.Infeasible || res.Status == solver.Unbounded || res.Status == solver.Error || len(res.Values) == 0 {
		return out
	}

	values := res.Values
	out.Costs = objective.Breakdown(m, idx, v, values)

	out.Production = extractProduction(idx, v, values)
	out.Shipments = extractShipments(idx, v, values)
	out.Inventory = extractInventory(m, idx, v, values)
	out.DemandOutcomes = extractDemandOutcomes(m, idx, v, values)

	return out
}

func val(values []float64, varIdx int, ok bool) float64 {
	if !ok || varIdx < 0 || varIdx >= len(values) {
		return 0
	}
	return snap(values[varIdx])
}

func extractProduction(idx *index.Indexes, v *constraints.Vars, values []float64) []ProductionEntry {
	var out []ProductionEntry
	for _, pk := range idx.ProdIdx {
		pv, ok := v.Production[pk]
		units := val(values, pv, ok)
		if units <= 0 {
			continue
		}
		var mixCount int64
		if mv, ok := v.MixCount[pk]; ok {
			mixCount = int64(math.Round(val(values, mv, ok)))
		}
		out = append(out, ProductionEntry{
			Node: pk.Node, Product: pk.Product, Date: pk.Date,
			Units: units, MixCount: mixCount,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Node != out[j].Node {
			return out[i].Node < out[j].Node
		}
		if out[i].Product != out[j].Product {
			return out[i].Product < out[j].Product
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

func extractShipments(idx *index.Indexes, v *constraints.Vars, values []float64) []ShipmentEntry {
	var out []ShipmentEntry
	for _, sk := range idx.ShipmentIdx {
		sv, ok := v.ShipmentCohort[sk]
		units := val(values, sv, ok)
		if units <= 0 {
			continue
		}
		out = append(out, ShipmentEntry{
			Origin: sk.Origin, Destination: sk.Destination, Product: sk.Product,
			ProdDate: sk.ProdDate, DeliveryDate: sk.DeliveryDate, State: sk.State,
			Units: units,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Origin != out[j].Origin {
			return out[i].Origin < out[j].Origin
		}
		if out[i].Destination != out[j].Destination {
			return out[i].Destination < out[j].Destination
		}
		if out[i].Product != out[j].Product {
			return out[i].Product < out[j].Product
		}
		return out[i].DeliveryDate.Before(out[j].DeliveryDate)
	})
	return out
}

// extractInventory reports inventory by (node, product, state, date),
// aggregating cohorts in age-cohort mode since the trajectory is a reporting
// view, not a per-batch one — per-batch detail is still fully recoverable
// from idx.CohortIdx plus the raw values if a caller needs it.
func extractInventory(m *network.Model, idx *index.Indexes, v *constraints.Vars, values []float64) []InventoryPoint {
	type key struct {
		node    entities.NodeID
		product entities.ProductID
		state   entities.State
		date    time.Time
	}
	totals := make(map[key]float64)

	switch idx.Mode {
	case index.AgeCohort:
		for _, c := range idx.CohortIdx {
			iv, ok := v.InventoryCohort[c]
			units := val(values, iv, ok)
			if units == 0 {
				continue
			}
			k := key{node: c.Node, product: c.Product, state: c.State, date: c.CurrDate}
			totals[k] += units
		}
	case index.SlidingWindow:
		for _, a := range idx.AggregateIdx {
			iv, ok := v.AggregateInventory[a]
			units := val(values, iv, ok)
			if units == 0 {
				continue
			}
			k := key{node: a.Node, product: a.Product, state: a.State, date: a.Date}
			totals[k] += units
		}
	}

	out := make([]InventoryPoint, 0, len(totals))
	for k, units := range totals {
		out = append(out, InventoryPoint{Node: k.node, Product: k.product, State: k.state, Date: k.date, Units: units})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Node != out[j].Node {
			return out[i].Node < out[j].Node
		}
		if out[i].Product != out[j].Product {
			return out[i].Product < out[j].Product
		}
		if out[i].State != out[j].State {
			return out[i].State < out[j].State
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

func extractDemandOutcomes(m *network.Model, idx *index.Indexes, v *constraints.Vars, values []float64) []DemandOutcome {
	var out []DemandOutcome
	for _, f := range m.Forecast() {
		key := f.Key()
		var shortage float64
		if sv, ok := v.Shortage[key]; ok {
			shortage = val(values, sv, ok)
		}
		fillRate := 1.0
		if f.Quantity > 0 {
			fillRate = 1.0 - shortage/float64(f.Quantity)
		}
		out = append(out, DemandOutcome{
			Destination: f.Destination, Product: f.Product, Date: f.Date,
			Demand: f.Quantity, Shortage: shortage, FillRate: fillRate,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Destination != out[j].Destination {
			return out[i].Destination < out[j].Destination
		}
		if out[i].Product != out[j].Product {
			return out[i].Product < out[j].Product
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
