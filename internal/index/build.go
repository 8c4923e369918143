package index

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pinggolf/cryoplanner/internal/network"
	"github.com/pinggolf/cryoplanner/pkg/domain/entities"
)

// maxPairWorkers bounds concurrent (node, product) pair index construction.
// Each goroutine only touches its own slot in a preallocated results slice,
// so there is no shared mutable state to race on; the bound exists purely to
// cap peak memory/CPU, same as stadam23-Eve-flipper bounds concurrent ESI
// region fetches.
var maxPairWorkers = runtime.GOMAXPROCS(0)

// Build constructs the sparse index sets for the given model and mode. Index
// construction for independent (node, product) pairs runs concurrently; the
// result is sorted and therefore identical and order-independent regardless
// of goroutine interleaving, preserving the "model construction is serial
// and deterministic" guarantee from the caller's point of view.
func Build(ctx context.Context, m *network.Model, strategy ShelfLifeStrategy) (*Indexes, error) {
	dates := horizonDates(m.Horizon().Start, m.EffectiveEnd())
	policy := m.ShelfLife()

	idx := &Indexes{Mode: strategy.Mode()}

	for _, n := range m.Nodes() {
		if !n.CanManufacture {
			continue
		}
		for _, p := range m.Products() {
			for _, d := range dates {
				if d.After(m.Horizon().End) {
					continue
				}
				idx.ProdIdx = append(idx.ProdIdx, ProdKey{Node: n.ID, Product: p.ID, Date: d})
			}
		}
	}
	sortProdIdx(idx.ProdIdx)

	type pairJob struct {
		node    entities.Node
		product entities.Product
	}
	var jobs []pairJob
	for _, n := range m.Nodes() {
		for _, p := range m.Products() {
			jobs = append(jobs, pairJob{node: n, product: p})
		}
	}

	results := make([]pairResult, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxPairWorkers)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = strategy.buildPair(job.node, job.product, policy, dates, m.EffectiveEnd())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, r := range results {
		idx.CohortIdx = append(idx.CohortIdx, r.cohort...)
		idx.AggregateIdx = append(idx.AggregateIdx, r.aggregate...)
		idx.DemandCohortIdx = append(idx.DemandCohortIdx, r.demandCohort...)
		idx.DemandAggregateIdx = append(idx.DemandAggregateIdx, r.demandAggregate...)
	}
	sortCohortIdx(idx.CohortIdx)
	sortAggregateIdx(idx.AggregateIdx)
	sortDemandCohortIdx(idx.DemandCohortIdx)

	idx.ShipmentIdx = buildShipmentIdx(m, dates)
	sortShipmentIdx(idx.ShipmentIdx)

	idx.TruckIdx = buildTruckIdx(m, dates)
	sortTruckIdx(idx.TruckIdx)

	idx.PalletIdx = buildPalletIdx(m, idx)

	return idx, nil
}

func horizonDates(start, end time.Time) []time.Time {
	var out []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// buildShipmentIdx enumerates the aggregate shipment flows: one row per
// (origin, destination, product, prod_date, delivery_date, arrival_state),
// restricted to destination state validity, origin state validity for the
// leg's departure state, and destination state validity (§4.2 ShipmentIdx
// rule). prod_date and departure date are independent dimensions — a cohort
// produced on day q may depart on any later day the departure state's
// shelf-life still permits, not only on its own production day, since
// inventory is routinely stored before being shipped. ArrivalProdDate
// carries the destination-side cohort identity, re-anchored to the delivery
// date for thaw-on-arrival legs (see ShipmentKey).
func buildShipmentIdx(m *network.Model, dates []time.Time) []ShipmentKey {
	policy := m.ShelfLife()
	var out []ShipmentKey
	for _, n := range m.Nodes() {
		if !n.CanStore(entities.Ambient) && !n.CanStore(entities.Frozen) && !n.CanStore(entities.Thawed) && !n.CanManufacture {
			continue
		}
		for _, leg := range m.LegsFrom(n.ID) {
			if !n.CanStore(leg.DepartureState) {
				continue // no cohort of this state can ever exist at the origin
			}
			dest, _ := m.Node(leg.Destination)
			arrival := entities.ArrivalState(leg.DepartureState, dest)
			if !dest.CanStore(arrival) {
				continue
			}
			shelfDays := policy.Days(leg.DepartureState)
			for _, p := range m.Products() {
				for _, prodDate := range dates {
					maxDepart := prodDate.AddDate(0, 0, shelfDays)
					for depart := prodDate; !depart.After(maxDepart); depart = depart.AddDate(0, 0, 1) {
						if depart.After(m.EffectiveEnd()) {
							break
						}
						deliver := depart.AddDate(0, 0, leg.TransitDays)
						if deliver.After(m.EffectiveEnd()) {
							continue
						}
						arrivalProdDate := prodDate
						if arrival == entities.Thawed {
							arrivalProdDate = deliver
						}
						out = append(out, ShipmentKey{
							Origin: leg.Origin, Destination: leg.Destination,
							Product: p.ID, ProdDate: prodDate, DeliveryDate: deliver,
							State: arrival, ArrivalProdDate: arrivalProdDate,
						})
					}
				}
			}
		}
	}
	return out
}

func buildTruckIdx(m *network.Model, dates []time.Time) []TruckKey {
	var out []TruckKey
	for _, d := range dates {
		for _, t := range m.TrucksOn(d) {
			out = append(out, TruckKey{Truck: t.ID, Date: d})
		}
	}
	return out
}

// buildPalletIdx restricts CohortIdx to (node, state) combinations whose
// storage cost parameters request pallet-granular tracking, supporting a
// hybrid mix of per-unit and per-pallet storage costing across the network.
func buildPalletIdx(m *network.Model, idx *Indexes) []PalletKey {
	costs := m.Costs()
	wants := func(node entities.NodeID, state entities.State) bool {
		byState, ok := costs.StorageByNodeState[node]
		if !ok {
			return false
		}
		return byState[state].PalletGranular
	}

	var out []PalletKey
	switch idx.Mode {
	case AgeCohort:
		for _, c := range idx.CohortIdx {
			if wants(c.Node, c.State) {
				out = append(out, c)
			}
		}
	case SlidingWindow:
		for _, a := range idx.AggregateIdx {
			if wants(a.Node, a.State) {
				out = append(out, CohortKey{
					Node: a.Node, Product: a.Product, State: a.State,
					CurrDate: a.Date,
				})
			}
		}
	}
	return out
}
