package constraints_test

import (
	"context"
	"testing"
	"time"

	"github.com/pinggolf/cryoplanner/internal/constraints"
	"github.com/pinggolf/cryoplanner/internal/index"
	"github.com/pinggolf/cryoplanner/internal/network"
	"github.com/pinggolf/cryoplanner/internal/objective"
	"github.com/pinggolf/cryoplanner/internal/solver"
	"github.com/pinggolf/cryoplanner/internal/solver/reference"
	"github.com/pinggolf/cryoplanner/pkg/domain/entities"
)

func day(offset int) time.Time {
	return time.Date(2026, time.January, 1+offset, 0, 0, 0, 0, time.UTC)
}

func laborCalendar(days int, fixedHours float64) []entities.LaborDay {
	var out []entities.LaborDay
	for i := 0; i <= days; i++ {
		out = append(out, entities.LaborDay{Date: day(i), FixedHours: fixedHours, IsFixedDay: true, RegularRate: 20})
	}
	return out
}

// TestAssemble_SingleProductSingleDayAmbientShipment exercises spec
// scenario S1: one SKU, one demand entry at a spoke reachable by a 1-day
// ambient leg, no pallet costs, no initial inventory. The reference solver
// should produce exactly enough production and shipment to satisfy demand
// with zero shortage.
func TestAssemble_SingleProductSingleDayAmbientShipment(t *testing.T) {
	scenario := entities.Scenario{
		Name:    "s1",
		Horizon: entities.Horizon{Start: day(0), End: day(3)},
		Products: []entities.Product{
			{ID: "SKU1", UnitsPerMix: 100},
		},
		Nodes: []entities.Node{
			{
				ID: "PLANT", CanManufacture: true, CanStoreAmbient: true,
				ProductionRatePerHour: map[entities.ProductID]float64{"SKU1": 1000},
			},
			{ID: "SPOKE", CanStoreAmbient: true, HasDemand: true},
		},
		Legs: []entities.Leg{
			{Origin: "PLANT", Destination: "SPOKE", TransitDays: 1, DepartureState: entities.Ambient, CostPerUnit: 1.0},
		},
		LaborCalendar: laborCalendar(3, 12),
		Forecast: []entities.ForecastEntry{
			{Destination: "SPOKE", Product: "SKU1", Date: day(1), Quantity: 500},
		},
		ShelfLife: entities.DefaultShelfLifePolicy(),
		Costs: entities.CostStructure{
			ProductionCostPerUnit: map[entities.ProductID]float64{"SKU1": 2.0},
		},
	}

	m, err := network.Build(scenario)
	if err != nil {
		t.Fatalf("network.Build: %v", err)
	}
	idx, err := index.Build(context.Background(), m, index.AgeCohortStrategy{})
	if err != nil {
		t.Fatalf("index.Build: %v", err)
	}

	problem, vars, _ := constraints.Assemble(m, idx, constraints.Config{EnforceMixSize: true})
	problem.Objective = objective.Build(m, idx, vars)

	backend := reference.New()
	res := backend.Solve(context.Background(), problem, solver.Params{TimeLimit: 5 * time.Second})

	if len(res.Values) == 0 {
		t.Fatalf("expected a feasible solution, got status %v", res.Status)
	}

	var totalProduced float64
	for pk, vi := range vars.Production {
		if pk.Node == "PLANT" && pk.Product == "SKU1" {
			totalProduced += res.Values[vi]
		}
	}
	if totalProduced < 500-1e-6 {
		t.Errorf("total production = %v, want at least 500", totalProduced)
	}

	var totalShipped float64
	for sk, vi := range vars.ShipmentCohort {
		if sk.Origin == "PLANT" && sk.Destination == "SPOKE" && sk.DeliveryDate.Equal(day(1)) {
			totalShipped += res.Values[vi]
		}
	}
	if totalShipped < 500-1e-6 {
		t.Errorf("total shipped arriving day 1 = %v, want at least 500", totalShipped)
	}
}

// TestAssemble_ShipmentFromAgedCohort exercises inventory stored at the
// origin for a day before departing. Production is only possible on day 0
// (every later labor day has zero available hours); the only leg has a
// 1-day transit, and demand lands on day 2, which requires a departure on
// day 1 — a day with no production of its own. The only way to satisfy this
// demand is to ship day-0 production that sat in PLANT's ambient inventory
// for one day before departing. This is a regression test: the shipment
// index once conflated a cohort's production date with its departure date,
// which made shipping anything but same-day production impossible.
func TestAssemble_ShipmentFromAgedCohort(t *testing.T) {
	scenario := entities.Scenario{
		Name:    "aged-cohort",
		Horizon: entities.Horizon{Start: day(0), End: day(3)},
		Products: []entities.Product{
			{ID: "SKU1", UnitsPerMix: 10},
		},
		Nodes: []entities.Node{
			{
				ID: "PLANT", CanManufacture: true, CanStoreAmbient: true,
				ProductionRatePerHour: map[entities.ProductID]float64{"SKU1": 1000},
			},
			{ID: "SPOKE", CanStoreAmbient: true, HasDemand: true},
		},
		Legs: []entities.Leg{
			{Origin: "PLANT", Destination: "SPOKE", TransitDays: 1, DepartureState: entities.Ambient, CostPerUnit: 1.0},
		},
		LaborCalendar: []entities.LaborDay{
			{Date: day(0), FixedHours: 12, IsFixedDay: true, RegularRate: 20},
			{Date: day(1), FixedHours: 0, IsFixedDay: true, RegularRate: 20},
			{Date: day(2), FixedHours: 0, IsFixedDay: true, RegularRate: 20},
			{Date: day(3), FixedHours: 0, IsFixedDay: true, RegularRate: 20},
		},
		Forecast: []entities.ForecastEntry{
			{Destination: "SPOKE", Product: "SKU1", Date: day(2), Quantity: 100},
		},
		ShelfLife: entities.DefaultShelfLifePolicy(),
		Costs: entities.CostStructure{
			ProductionCostPerUnit: map[entities.ProductID]float64{"SKU1": 1.0},
		},
	}

	m, err := network.Build(scenario)
	if err != nil {
		t.Fatalf("network.Build: %v", err)
	}
	idx, err := index.Build(context.Background(), m, index.AgeCohortStrategy{})
	if err != nil {
		t.Fatalf("index.Build: %v", err)
	}

	problem, vars, _ := constraints.Assemble(m, idx, constraints.Config{EnforceMixSize: true})
	problem.Objective = objective.Build(m, idx, vars)

	backend := reference.New()
	res := backend.Solve(context.Background(), problem, solver.Params{TimeLimit: 5 * time.Second})

	if len(res.Values) == 0 {
		t.Fatalf("expected a feasible solution demonstrating storage-then-ship, got status %v", res.Status)
	}

	var totalDemandMet float64
	for dk, vi := range vars.DemandFromCohort {
		if dk.Destination == "SPOKE" && dk.Date.Equal(day(2)) {
			totalDemandMet += res.Values[vi]
		}
	}
	if totalDemandMet < 100-1e-6 {
		t.Errorf("demand met on day 2 = %v, want 100 (requires shipping production held a day before departure)", totalDemandMet)
	}
}

// TestAssemble_FrozenBufferWithThaw exercises scenario S2: a shipment
// departs BUFFER as frozen inventory, transits long enough that the
// pre-freeze production date is already outside the thawed shelf-life
// window by the time it arrives, and arrives thawed with its age clock
// re-anchored to the delivery date rather than that production date.
// Frozen inventory is seeded directly as InitialInventory (production
// never yields frozen stock; freezing at origin isn't modeled). The
// transit time is chosen so demand is only satisfiable if the arriving
// cohort's age is measured from the delivery/thaw date — the re-anchoring
// this test exists to confirm.
func TestAssemble_FrozenBufferWithThaw(t *testing.T) {
	policy := entities.DefaultShelfLifePolicy()
	prodDate := day(0)
	transitDays := policy.Days(entities.Thawed) + 2 // older than the thawed shelf life if aged from prodDate
	deliveryDate := prodDate.AddDate(0, 0, transitDays)

	scenario := entities.Scenario{
		Name:    "s2",
		Horizon: entities.Horizon{Start: day(0), End: deliveryDate},
		Products: []entities.Product{
			{ID: "SKU1", UnitsPerMix: 100},
		},
		Nodes: []entities.Node{
			{ID: "BUFFER", CanStoreFrozen: true},
			{ID: "DEST", CanThawOnArrival: true, HasDemand: true},
		},
		Legs: []entities.Leg{
			{Origin: "BUFFER", Destination: "DEST", TransitDays: transitDays, DepartureState: entities.Frozen, CostPerUnit: 1.0},
		},
		Forecast: []entities.ForecastEntry{
			{Destination: "DEST", Product: "SKU1", Date: deliveryDate, Quantity: 1000},
		},
		InitialInventory: []entities.InitialInventory{
			{Node: "BUFFER", Product: "SKU1", State: entities.Frozen, Quantity: 1000, ProductionDate: prodDate},
		},
		ShelfLife: policy,
		Costs: entities.CostStructure{
			ProductionCostPerUnit: map[entities.ProductID]float64{"SKU1": 2.0},
		},
	}

	m, err := network.Build(scenario)
	if err != nil {
		t.Fatalf("network.Build: %v", err)
	}
	idx, err := index.Build(context.Background(), m, index.AgeCohortStrategy{})
	if err != nil {
		t.Fatalf("index.Build: %v", err)
	}

	problem, vars, _ := constraints.Assemble(m, idx, constraints.Config{EnforceMixSize: true})
	problem.Objective = objective.Build(m, idx, vars)

	backend := reference.New()
	res := backend.Solve(context.Background(), problem, solver.Params{TimeLimit: 5 * time.Second})

	if len(res.Values) == 0 {
		t.Fatalf("expected a feasible solution, got status %v", res.Status)
	}

	var totalDemandMet float64
	for dk, vi := range vars.DemandFromCohort {
		if dk.Destination == "DEST" && dk.Date.Equal(deliveryDate) {
			totalDemandMet += res.Values[vi]
		}
	}
	if totalDemandMet < 1000-1e-6 {
		t.Errorf("demand met on delivery day = %v, want 1000 (thaw-on-arrival must re-anchor the age clock to the delivery date)", totalDemandMet)
	}

	var totalArrivedThawed float64
	for sk, vi := range vars.ShipmentCohort {
		if sk.Destination == "DEST" && sk.State == entities.Thawed && sk.DeliveryDate.Equal(deliveryDate) {
			totalArrivedThawed += res.Values[vi]
		}
	}
	if totalArrivedThawed < 1000-1e-6 {
		t.Errorf("thawed arrivals on delivery day = %v, want 1000", totalArrivedThawed)
	}
}

// TestAssemble_IntegerPalletRounding exercises scenario S3: 50 units held
// ambient for one day under pallet-granular storage costing must round up
// to a full pallet, not charge for a fractional 50/320 pallet.
func TestAssemble_IntegerPalletRounding(t *testing.T) {
	scenario := entities.Scenario{
		Name:    "s3",
		Horizon: entities.Horizon{Start: day(0), End: day(3)},
		Products: []entities.Product{
			{ID: "SKU1", UnitsPerMix: 50},
		},
		Nodes: []entities.Node{
			{
				ID: "PLANT", CanManufacture: true, CanStoreAmbient: true,
				ProductionRatePerHour: map[entities.ProductID]float64{"SKU1": 1000},
			},
			{ID: "SPOKE", CanStoreAmbient: true, HasDemand: true},
		},
		Legs: []entities.Leg{
			{Origin: "PLANT", Destination: "SPOKE", TransitDays: 1, DepartureState: entities.Ambient, CostPerUnit: 1.0},
		},
		// Day 1 has zero available hours, so the only way to have inventory
		// ready to depart on day 1 (to deliver day 2) is to produce on day 0
		// and hold it one day — the exact "50 units stored ambient for one
		// day" setup this test needs.
		LaborCalendar: []entities.LaborDay{
			{Date: day(0), FixedHours: 12, IsFixedDay: true, RegularRate: 20},
			{Date: day(1), FixedHours: 0, IsFixedDay: true, RegularRate: 20},
			{Date: day(2), FixedHours: 0, IsFixedDay: true, RegularRate: 20},
			{Date: day(3), FixedHours: 0, IsFixedDay: true, RegularRate: 20},
		},
		Forecast: []entities.ForecastEntry{
			{Destination: "SPOKE", Product: "SKU1", Date: day(2), Quantity: 50},
		},
		ShelfLife: entities.DefaultShelfLifePolicy(),
		Costs: entities.CostStructure{
			ProductionCostPerUnit: map[entities.ProductID]float64{"SKU1": 1.0},
			StorageByNodeState: map[entities.NodeID]map[entities.State]entities.StorageCost{
				"PLANT": {
					entities.Ambient: {PalletGranular: true, PerPalletEntry: 0, PerPalletPerDay: 1.0},
				},
			},
		},
	}

	m, err := network.Build(scenario)
	if err != nil {
		t.Fatalf("network.Build: %v", err)
	}
	idx, err := index.Build(context.Background(), m, index.AgeCohortStrategy{})
	if err != nil {
		t.Fatalf("index.Build: %v", err)
	}

	problem, vars, _ := constraints.Assemble(m, idx, constraints.Config{EnforceMixSize: true})
	problem.Objective = objective.Build(m, idx, vars)

	backend := reference.New()
	res := backend.Solve(context.Background(), problem, solver.Params{TimeLimit: 5 * time.Second})

	if len(res.Values) == 0 {
		t.Fatalf("expected a feasible solution, got status %v", res.Status)
	}

	var palletsHeldDay0 float64
	for pk, vi := range vars.PalletCount {
		if pk.Node == "PLANT" && pk.State == entities.Ambient && pk.CurrDate.Equal(day(0)) {
			palletsHeldDay0 += res.Values[vi]
		}
	}
	if palletsHeldDay0 < 1-1e-6 {
		t.Errorf("pallet_count held on day 0 = %v, want 1 (50 units must round up to one pallet)", palletsHeldDay0)
	}
}

// TestAssemble_PiecewiseLaborOvertime exercises scenario S4: required
// production needs 11h of pure production time plus 1h overhead, all
// within the 12h fixed window, so no overtime should be used. Quantity is
// kept under TruckCapacityUnits (a single shipment's hard upper bound) so
// transport capacity doesn't confound the labor assertion.
func TestAssemble_PiecewiseLaborOvertime(t *testing.T) {
	scenario := entities.Scenario{
		Name:    "s4",
		Horizon: entities.Horizon{Start: day(0), End: day(2)},
		Products: []entities.Product{
			{ID: "SKU1", UnitsPerMix: 100},
		},
		Nodes: []entities.Node{
			{
				ID: "PLANT", CanManufacture: true, CanStoreAmbient: true,
				ProductionRatePerHour:  map[entities.ProductID]float64{"SKU1": 1000},
				DailyStartupHours:      0.5,
				DailyShutdownHours:     0.5,
				DefaultChangeoverHours: 0,
			},
			{ID: "SPOKE", CanStoreAmbient: true, HasDemand: true},
		},
		Legs: []entities.Leg{
			{Origin: "PLANT", Destination: "SPOKE", TransitDays: 1, DepartureState: entities.Ambient, CostPerUnit: 1.0},
		},
		LaborCalendar: []entities.LaborDay{
			{Date: day(0), FixedHours: 12, MaxOvertimeHrs: 2, IsFixedDay: true, RegularRate: 20, OvertimeRate: 30},
			{Date: day(1), FixedHours: 12, MaxOvertimeHrs: 2, IsFixedDay: true, RegularRate: 20, OvertimeRate: 30},
			{Date: day(2), FixedHours: 12, MaxOvertimeHrs: 2, IsFixedDay: true, RegularRate: 20, OvertimeRate: 30},
		},
		Forecast: []entities.ForecastEntry{
			{Destination: "SPOKE", Product: "SKU1", Date: day(1), Quantity: 11000},
		},
		ShelfLife: entities.DefaultShelfLifePolicy(),
		Costs: entities.CostStructure{
			ProductionCostPerUnit: map[entities.ProductID]float64{"SKU1": 1.0},
		},
	}

	m, err := network.Build(scenario)
	if err != nil {
		t.Fatalf("network.Build: %v", err)
	}
	idx, err := index.Build(context.Background(), m, index.AgeCohortStrategy{})
	if err != nil {
		t.Fatalf("index.Build: %v", err)
	}

	problem, vars, _ := constraints.Assemble(m, idx, constraints.Config{EnforceMixSize: true})
	problem.Objective = objective.Build(m, idx, vars)

	backend := reference.New()
	res := backend.Solve(context.Background(), problem, solver.Params{TimeLimit: 5 * time.Second})

	if len(res.Values) == 0 {
		t.Fatalf("expected a feasible solution, got status %v", res.Status)
	}

	lk := constraints.LaborKey{Node: "PLANT", Date: day(0)}
	fixedUsed := res.Values[vars.FixedHoursUsed[lk]]
	otUsed := res.Values[vars.OvertimeHoursUsed[lk]]

	if fixedUsed < 12-1e-6 {
		t.Errorf("fixed_hours_used on day 0 = %v, want 12", fixedUsed)
	}
	if otUsed > 1e-6 {
		t.Errorf("overtime_hours_used on day 0 = %v, want 0", otUsed)
	}
}

// TestAssemble_WeekendMinimumPayment exercises scenario S5: a non-fixed
// labor day (e.g. a weekend) with only a small amount of production must
// still be paid at least MinPaymentHours, even though actual hours used
// fall well short of it.
func TestAssemble_WeekendMinimumPayment(t *testing.T) {
	scenario := entities.Scenario{
		Name:    "s5",
		Horizon: entities.Horizon{Start: day(0), End: day(2)},
		Products: []entities.Product{
			{ID: "SKU1", UnitsPerMix: 100},
		},
		Nodes: []entities.Node{
			{
				ID: "PLANT", CanManufacture: true, CanStoreAmbient: true,
				ProductionRatePerHour:  map[entities.ProductID]float64{"SKU1": 1400},
				DailyStartupHours:      0.5,
				DailyShutdownHours:     0.5,
				DefaultChangeoverHours: 0,
			},
			{ID: "SPOKE", CanStoreAmbient: true, HasDemand: true},
		},
		Legs: []entities.Leg{
			{Origin: "PLANT", Destination: "SPOKE", TransitDays: 1, DepartureState: entities.Ambient, CostPerUnit: 1.0},
		},
		// Non-fixed days still carry a hours ceiling (FixedHours +
		// MaxOvertimeHrs bounds labor_hours_used regardless of IsFixedDay);
		// 8h is generous headroom above the ~1.07h this scenario actually
		// needs, so the minimum-payment floor — not the capacity cap — is
		// what binds.
		LaborCalendar: []entities.LaborDay{
			{Date: day(0), FixedHours: 0, MaxOvertimeHrs: 8, IsFixedDay: false, NonFixedRate: 25, MinPaymentHours: 4},
			{Date: day(1), FixedHours: 0, MaxOvertimeHrs: 8, IsFixedDay: false, NonFixedRate: 25, MinPaymentHours: 4},
			{Date: day(2), FixedHours: 0, MaxOvertimeHrs: 8, IsFixedDay: false, NonFixedRate: 25, MinPaymentHours: 4},
		},
		Forecast: []entities.ForecastEntry{
			{Destination: "SPOKE", Product: "SKU1", Date: day(1), Quantity: 100},
		},
		ShelfLife: entities.DefaultShelfLifePolicy(),
		Costs: entities.CostStructure{
			ProductionCostPerUnit: map[entities.ProductID]float64{"SKU1": 1.0},
		},
	}

	m, err := network.Build(scenario)
	if err != nil {
		t.Fatalf("network.Build: %v", err)
	}
	idx, err := index.Build(context.Background(), m, index.AgeCohortStrategy{})
	if err != nil {
		t.Fatalf("index.Build: %v", err)
	}

	problem, vars, _ := constraints.Assemble(m, idx, constraints.Config{EnforceMixSize: true})
	problem.Objective = objective.Build(m, idx, vars)

	backend := reference.New()
	res := backend.Solve(context.Background(), problem, solver.Params{TimeLimit: 5 * time.Second})

	if len(res.Values) == 0 {
		t.Fatalf("expected a feasible solution, got status %v", res.Status)
	}

	lk := constraints.LaborKey{Node: "PLANT", Date: day(0)}
	used := res.Values[vars.LaborHoursUsed[lk]]
	paid := res.Values[vars.LaborHoursPaid[lk]]

	if used >= 4-1e-6 {
		t.Errorf("labor_hours_used on day 0 = %v, want well under the 4h minimum (test needs used < min to be meaningful)", used)
	}
	if paid < 4-1e-6 {
		t.Errorf("labor_hours_paid on day 0 = %v, want 4 (minimum payment floor)", paid)
	}
}

// TestAssemble_OffScheduleTruckInfeasible exercises scenario S6: the only
// truck serving the route runs Tue/Thu, but satisfying demand requires a
// Wednesday departure (1-day transit to a Thursday delivery is too late).
// With shortages disallowed, the solve must report infeasible rather than
// silently using a truck on an unscheduled day.
//
// The horizon is pinned to exactly the Wednesday/Thursday pair so there is no
// earlier in-mask day (e.g. the previous Tuesday) the solver could depart
// from instead and hold the delivery over at the spoke — the only departure
// day the model can represent at all is the off-schedule Wednesday.
func TestAssemble_OffScheduleTruckInfeasible(t *testing.T) {
	// day(6) = 2026-01-07 is a Wednesday; day(7) = 2026-01-08 is a Thursday.
	wednesday := day(6)
	thursday := day(7)

	scenario := entities.Scenario{
		Name:    "s6",
		Horizon: entities.Horizon{Start: wednesday, End: thursday},
		Products: []entities.Product{
			{ID: "SKU1", UnitsPerMix: 100},
		},
		Nodes: []entities.Node{
			{
				ID: "PLANT", CanManufacture: true, CanStoreAmbient: true,
				ProductionRatePerHour: map[entities.ProductID]float64{"SKU1": 1000},
			},
			{ID: "SPOKE", CanStoreAmbient: true, HasDemand: true},
		},
		Legs: []entities.Leg{
			{Origin: "PLANT", Destination: "SPOKE", TransitDays: 1, DepartureState: entities.Ambient, CostPerUnit: 1.0},
		},
		Trucks: []entities.Truck{
			{
				ID: "TRUCK1", Origin: "PLANT", PrimaryDestination: "SPOKE",
				DayMask:       entities.NewDayMask(time.Tuesday, time.Thursday),
				Departure:     entities.Afternoon,
				CapacityUnits: entities.TruckCapacityUnits,
			},
		},
		LaborCalendar: []entities.LaborDay{
			{Date: wednesday, FixedHours: 12, IsFixedDay: true, RegularRate: 20},
			{Date: thursday, FixedHours: 12, IsFixedDay: true, RegularRate: 20},
		},
		Forecast: []entities.ForecastEntry{
			{Destination: "SPOKE", Product: "SKU1", Date: thursday, Quantity: 500},
		},
		ShelfLife: entities.DefaultShelfLifePolicy(),
		Costs: entities.CostStructure{
			ProductionCostPerUnit: map[entities.ProductID]float64{"SKU1": 2.0},
		},
		AllowShortages: false,
	}

	m, err := network.Build(scenario)
	if err != nil {
		t.Fatalf("network.Build: %v", err)
	}
	idx, err := index.Build(context.Background(), m, index.AgeCohortStrategy{})
	if err != nil {
		t.Fatalf("index.Build: %v", err)
	}

	problem, vars, _ := constraints.Assemble(m, idx, constraints.Config{EnforceMixSize: true, AllowShortages: false})
	problem.Objective = objective.Build(m, idx, vars)

	backend := reference.New()
	res := backend.Solve(context.Background(), problem, solver.Params{TimeLimit: 5 * time.Second})

	if res.Status != solver.Infeasible {
		t.Errorf("status = %v, want infeasible (no truck runs Wednesday, the only delivery-eligible departure day)", res.Status)
	}
}
