package entities

// ProductID identifies a SKU.
type ProductID string

// Quantity is a discrete count of units. Manufacturing output, inventory,
// and shipments are always integral; fractional math (labor hours, pallet
// fill ratios) is carried separately as decimal.Decimal.
type Quantity int64

const (
	// UnitsPerCase is the fixed packaging constant: a case holds 10 units.
	UnitsPerCase = 10
	// UnitsPerPallet is the fixed packaging constant: a pallet holds 320 units (32 cases).
	UnitsPerPallet = 320
)

// Product is a SKU with its packaging constants.
type Product struct {
	ID ProductID

	// UnitsPerMix is the per-SKU production batch size: production
	// quantities must be an integer multiple of this value.
	UnitsPerMix Quantity
}

// Pallets returns the ceiling number of pallets required to store qty units.
func (p Product) Pallets(qty Quantity) int64 {
	if qty <= 0 {
		return 0
	}
	return (int64(qty) + UnitsPerPallet - 1) / UnitsPerPallet
}
