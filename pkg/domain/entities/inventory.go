package entities

import "time"

// InitialInventory seeds starting stock at a node. ProductionDate, when
// provided, seeds a cohort age; when zero, the inventory is treated as the
// oldest still-valid cohort for its state (i.e. its age clock starts as far
// back as the shelf-life policy still allows).
type InitialInventory struct {
	Node     NodeID
	Product  ProductID
	State    State
	Quantity Quantity

	// ProductionDate is optional (zero value = "oldest still-valid cohort").
	ProductionDate time.Time
}

// HasProductionDate reports whether an explicit cohort age was seeded.
func (i InitialInventory) HasProductionDate() bool {
	return !i.ProductionDate.IsZero()
}
