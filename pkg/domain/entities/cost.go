package entities

// StorageCost bundles the per-unit and per-pallet storage cost components
// for a single inventory state, as charged at a given node.
type StorageCost struct {
	// PerUnitPerDay is the continuous holding-cost rate. Zero disables it.
	PerUnitPerDay float64

	// PalletGranular selects the integer pallet-ceiling variant (F11):
	// when true, PerPalletEntry and PerPalletPerDay apply instead of
	// (or alongside) PerUnitPerDay, and a pallet_count variable is
	// instantiated for this (node, state) combination.
	PalletGranular   bool
	PerPalletEntry   float64
	PerPalletPerDay  float64
}

// CostStructure bundles every cost input the objective (§4.3.3) needs.
type CostStructure struct {
	ProductionCostPerUnit map[ProductID]float64

	// StorageByNodeState holds storage cost parameters keyed by node and
	// state, since both where and what state inventory sits in affect the
	// rate (e.g. frozen buffers are cheaper per unit but pallet-granular).
	StorageByNodeState map[NodeID]map[State]StorageCost

	TransportCostPerUnit map[LegKey]float64

	// ShortagePenaltyPerUnit is large (e.g. 10,000/unit) so the solver only
	// uses shortage as a last resort when AllowShortages is true.
	ShortagePenaltyPerUnit float64
}

// LegKey identifies a leg for cost lookups independent of the Leg struct
// itself (legs are otherwise looked up by origin/destination pairs in
// network.Model).
type LegKey struct {
	Origin      NodeID
	Destination NodeID
}
