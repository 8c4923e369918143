// Package index builds the sparse index sets (C2) every decision variable
// and constraint family in internal/constraints is defined over. Dense
// enumeration of the full Cartesian product is prohibitively large; these
// index sets shrink it by one to two orders of magnitude by only including
// combinations that are physically or contractually possible.
package index

import (
	"time"

	"github.com/pinggolf/cryoplanner/pkg/domain/entities"
)

// ProdKey identifies a production decision: (node, product, date).
type ProdKey struct {
	Node    entities.NodeID
	Product entities.ProductID
	Date    time.Time
}

// CohortKey identifies a cohort inventory cell: (node, product, prod_date,
// curr_date, state).
type CohortKey struct {
	Node     entities.NodeID
	Product  entities.ProductID
	ProdDate time.Time
	CurrDate time.Time
	State    entities.State
}

// ShipmentKey identifies an aggregate shipment flow: (origin, destination,
// product, prod_date, delivery_date, arrival_state).
type ShipmentKey struct {
	Origin      entities.NodeID
	Destination entities.NodeID
	Product     entities.ProductID
	ProdDate    time.Time
	DeliveryDate time.Time
	State       entities.State

	// ArrivalProdDate is the cohort identity the shipment's contents take on
	// at the destination: equal to ProdDate, except when State is Thawed, in
	// which case it is re-anchored to DeliveryDate per the thaw-on-arrival
	// rule (F5) — a frozen batch's pre-freeze production date no longer
	// bounds its shelf life once thawed; the thaw date does.
	ArrivalProdDate time.Time
}

// DemandCohortKey identifies an eligible demand-satisfying cohort:
// (destination, product, date, prod_date, state).
type DemandCohortKey struct {
	Destination entities.NodeID
	Product     entities.ProductID
	Date        time.Time
	ProdDate    time.Time
	State       entities.State
}

// TruckKey identifies a scheduled truck run: (truck, date).
type TruckKey struct {
	Truck entities.TruckID
	Date  time.Time
}

// PalletKey identifies a cohort cell under pallet-granular storage tracking;
// same shape as CohortKey, restricted to (node, state) pairs whose storage
// cost requests it.
type PalletKey = CohortKey
