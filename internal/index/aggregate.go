package index

import (
	"time"

	"github.com/pinggolf/cryoplanner/pkg/domain/entities"
)

// AggregateKey identifies an inventory cell in sliding-window mode, where
// per-batch production date is not tracked: (node, product, state, date).
type AggregateKey struct {
	Node    entities.NodeID
	Product entities.ProductID
	State   entities.State
	Date    time.Time
}

// AggregateDemandKey identifies a demand-satisfying window in sliding-window
// mode: the window constraint (F6) restricts which production dates may
// still be consumed against a given forecast entry, rather than enumerating
// eligible cohorts individually.
type AggregateDemandKey struct {
	Destination entities.NodeID
	Product     entities.ProductID
	Date        time.Time

	// MinProdDate is the earliest production date whose ambient-cohort
	// output may still be consumed against demand on Date, i.e.
	// Date - (shelf_life(ambient) - min_remaining_shelf_life).
	MinProdDate time.Time
}
