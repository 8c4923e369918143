package network

import (
	"fmt"
	"time"

	"github.com/pinggolf/cryoplanner/pkg/domain/entities"
)

// Build validates a Scenario's referential integrity and freezes it into a
// Model. Problems are accumulated rather than returned on the first failure,
// so an external orchestrator gets every data problem in one round trip
// (mirrors errors.Join-style multi-cause reporting).
func Build(s entities.Scenario) (*Model, error) {
	loc := time.UTC

	var causes []string
	note := func(format string, args ...interface{}) {
		causes = append(causes, fmt.Sprintf(format, args...))
	}

	m := &Model{
		name:     s.Name,
		horizon:  s.Horizon,
		loc:      loc,
		products: make(map[entities.ProductID]entities.Product, len(s.Products)),
		nodes:    make(map[entities.NodeID]entities.Node, len(s.Nodes)),
		legsFrom: make(map[entities.NodeID][]entities.Leg),
		legsTo:   make(map[entities.NodeID][]entities.Leg),
		trucksByWeekday: make(map[time.Weekday][]entities.Truck),
		laborByDate:     make(map[int64]entities.LaborDay, s.Horizon.Days()),
		demand:          make(map[entities.ForecastKey]entities.Quantity, len(s.Forecast)),
		shelfLife:       s.ShelfLife,
		costs:           s.Costs,
		allowShortages:  s.AllowShortages,
	}

	if s.Horizon.End.Before(s.Horizon.Start) {
		note("horizon end %s is before horizon start %s", s.Horizon.End, s.Horizon.Start)
	}

	for _, p := range s.Products {
		if p.ID == "" {
			note("product with empty id")
			continue
		}
		if _, dup := m.products[p.ID]; dup {
			note("duplicate product id %q", p.ID)
		}
		if p.UnitsPerMix <= 0 {
			note("product %q: units_per_mix must be positive, got %d", p.ID, p.UnitsPerMix)
		}
		m.products[p.ID] = p
	}

	for _, n := range s.Nodes {
		if n.ID == "" {
			note("node with empty id")
			continue
		}
		if _, dup := m.nodes[n.ID]; dup {
			note("duplicate node id %q", n.ID)
		}
		if n.CanManufacture {
			for pid, rate := range n.ProductionRatePerHour {
				if rate <= 0 {
					note("node %q: production rate for product %q must be positive, got %v", n.ID, pid, rate)
				}
			}
		}
		m.nodes[n.ID] = n
	}

	for _, l := range s.Legs {
		if _, ok := m.nodes[l.Origin]; !ok {
			note("leg references unknown origin node %q", l.Origin)
		}
		if _, ok := m.nodes[l.Destination]; !ok {
			note("leg references unknown destination node %q", l.Destination)
		}
		if l.TransitDays < 0 {
			note("leg %s->%s: transit days must be non-negative, got %d", l.Origin, l.Destination, l.TransitDays)
		}
		if l.TransitDays > m.maxTransitDays {
			m.maxTransitDays = l.TransitDays
		}
		m.legsFrom[l.Origin] = append(m.legsFrom[l.Origin], l)
		m.legsTo[l.Destination] = append(m.legsTo[l.Destination], l)
	}

	for _, t := range s.Trucks {
		if _, ok := m.nodes[t.Origin]; !ok {
			note("truck %q references unknown origin node %q", t.ID, t.Origin)
		}
		if _, ok := m.nodes[t.PrimaryDestination]; !ok {
			note("truck %q references unknown primary destination node %q", t.ID, t.PrimaryDestination)
		}
		for _, stop := range t.IntermediateStops {
			if _, ok := m.nodes[stop.Destination]; !ok {
				note("truck %q references unknown intermediate stop node %q", t.ID, stop.Destination)
			}
		}
		if t.CapacityUnits <= 0 {
			note("truck %q: capacity must be positive, got %d", t.ID, t.CapacityUnits)
		}
		for d := time.Sunday; d <= time.Saturday; d++ {
			if t.RunsOn(d) {
				m.trucksByWeekday[d] = append(m.trucksByWeekday[d], t)
			}
		}
	}

	for _, ld := range s.LaborCalendar {
		key := dayKey(ld.Date, loc)
		if _, dup := m.laborByDate[key]; dup {
			note("duplicate labor day entry for %s", ld.Date.Format("2006-01-02"))
		}
		m.laborByDate[key] = ld
	}

	anyManufactures := false
	for _, n := range s.Nodes {
		if n.CanManufacture {
			anyManufactures = true
			break
		}
	}
	if anyManufactures && !s.Horizon.End.Before(s.Horizon.Start) {
		for d := s.Horizon.Start; !d.After(s.Horizon.End); d = d.AddDate(0, 0, 1) {
			if _, ok := m.laborByDate[dayKey(d, loc)]; !ok {
				note("missing labor day for %s", d.Format("2006-01-02"))
			}
		}
	}

	for _, f := range s.Forecast {
		if _, ok := m.nodes[f.Destination]; !ok {
			note("forecast references unknown destination node %q", f.Destination)
		} else if dest := m.nodes[f.Destination]; !dest.HasDemand {
			note("forecast references node %q which has_demand=false", f.Destination)
		}
		if _, ok := m.products[f.Product]; !ok {
			note("forecast references unknown product %q", f.Product)
		}
		if f.Quantity < 0 {
			note("forecast entry %s/%s/%s: negative demand %d", f.Destination, f.Product, f.Date.Format("2006-01-02"), f.Quantity)
		}
		key := f.Key()
		key.Date = dayTrunc(key.Date, loc)
		m.demand[key] = f.Quantity
		m.forecast = append(m.forecast, f)
	}

	for _, inv := range s.InitialInventory {
		n, ok := m.nodes[inv.Node]
		if !ok {
			note("initial inventory references unknown node %q", inv.Node)
		} else if !n.CanStore(inv.State) {
			note("initial inventory at node %q: state %s not storable there", inv.Node, inv.State)
		}
		if _, ok := m.products[inv.Product]; !ok {
			note("initial inventory references unknown product %q", inv.Product)
		}
		if inv.Quantity < 0 {
			note("initial inventory %s/%s: negative quantity %d", inv.Node, inv.Product, inv.Quantity)
		}
		m.initInv = append(m.initInv, inv)
	}

	if m.costs.ShortagePenaltyPerUnit <= 0 && s.AllowShortages {
		note("allow_shortages is true but shortage penalty per unit is not positive")
	}

	if len(causes) > 0 {
		return nil, entities.NewConfigurationError(causes...)
	}

	return m, nil
}
