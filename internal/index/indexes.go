package index

import "sort"

// Indexes bundles every sparse index set C3 instantiates variables and
// constraints over. Exactly one of {CohortIdx, AggregateIdx} and one of
// {DemandCohortIdx, DemandAggregateIdx} is populated, selected by Mode.
type Indexes struct {
	Mode Mode

	ProdIdx []ProdKey

	CohortIdx    []CohortKey    // age-cohort mode only
	AggregateIdx []AggregateKey // sliding-window mode only

	ShipmentIdx []ShipmentKey

	DemandCohortIdx    []DemandCohortKey    // age-cohort mode only
	DemandAggregateIdx []AggregateDemandKey // sliding-window mode only

	TruckIdx  []TruckKey
	PalletIdx []PalletKey
}

func sortProdIdx(k []ProdKey) {
	sort.Slice(k, func(i, j int) bool {
		if k[i].Node != k[j].Node {
			return k[i].Node < k[j].Node
		}
		if k[i].Product != k[j].Product {
			return k[i].Product < k[j].Product
		}
		return k[i].Date.Before(k[j].Date)
	})
}

func sortCohortIdx(k []CohortKey) {
	sort.Slice(k, func(i, j int) bool {
		if k[i].Node != k[j].Node {
			return k[i].Node < k[j].Node
		}
		if k[i].Product != k[j].Product {
			return k[i].Product < k[j].Product
		}
		if k[i].State != k[j].State {
			return k[i].State < k[j].State
		}
		if !k[i].ProdDate.Equal(k[j].ProdDate) {
			return k[i].ProdDate.Before(k[j].ProdDate)
		}
		return k[i].CurrDate.Before(k[j].CurrDate)
	})
}

func sortAggregateIdx(k []AggregateKey) {
	sort.Slice(k, func(i, j int) bool {
		if k[i].Node != k[j].Node {
			return k[i].Node < k[j].Node
		}
		if k[i].Product != k[j].Product {
			return k[i].Product < k[j].Product
		}
		if k[i].State != k[j].State {
			return k[i].State < k[j].State
		}
		return k[i].Date.Before(k[j].Date)
	})
}

func sortShipmentIdx(k []ShipmentKey) {
	sort.Slice(k, func(i, j int) bool {
		if k[i].Origin != k[j].Origin {
			return k[i].Origin < k[j].Origin
		}
		if k[i].Destination != k[j].Destination {
			return k[i].Destination < k[j].Destination
		}
		if k[i].Product != k[j].Product {
			return k[i].Product < k[j].Product
		}
		if !k[i].ProdDate.Equal(k[j].ProdDate) {
			return k[i].ProdDate.Before(k[j].ProdDate)
		}
		return k[i].DeliveryDate.Before(k[j].DeliveryDate)
	})
}

func sortDemandCohortIdx(k []DemandCohortKey) {
	sort.Slice(k, func(i, j int) bool {
		if k[i].Destination != k[j].Destination {
			return k[i].Destination < k[j].Destination
		}
		if k[i].Product != k[j].Product {
			return k[i].Product < k[j].Product
		}
		if !k[i].Date.Equal(k[j].Date) {
			return k[i].Date.Before(k[j].Date)
		}
		return k[i].ProdDate.Before(k[j].ProdDate)
	})
}

func sortTruckIdx(k []TruckKey) {
	sort.Slice(k, func(i, j int) bool {
		if k[i].Truck != k[j].Truck {
			return k[i].Truck < k[j].Truck
		}
		return k[i].Date.Before(k[j].Date)
	})
}
