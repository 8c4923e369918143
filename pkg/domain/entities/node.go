package entities

// NodeID identifies a location in the network: the manufacturing site,
// intermediate frozen buffers, or demand destinations.
type NodeID string

// Node is a single location. Node "type" is expressed as a capability flag
// set rather than a class hierarchy, per the polymorphism-over-type-
// hierarchy design note: a hub can simultaneously manufacture, store, and
// have its own demand, and flow-conservation constraints must treat it
// uniformly regardless of which flags are set.
type Node struct {
	ID NodeID

	CanManufacture   bool
	CanStoreAmbient  bool
	CanStoreFrozen   bool
	CanThawOnArrival bool
	HasDemand        bool

	// Manufacturing parameters, meaningful only when CanManufacture.
	ProductionRatePerHour   map[ProductID]float64
	DailyStartupHours       float64
	DailyShutdownHours      float64
	DefaultChangeoverHours  float64
}

// CanStore reports whether the node is a valid storage location for the
// given inventory state.
func (n Node) CanStore(s State) bool {
	switch s {
	case Ambient:
		return n.CanStoreAmbient
	case Frozen:
		return n.CanStoreFrozen
	case Thawed:
		return n.CanThawOnArrival
	default:
		return false
	}
}

// ArrivalState resolves the state a shipment arrives in, applying the
// thaw-on-arrival rule: a frozen leg delivered to a thaw-capable node
// yields thawed inventory; otherwise arrival state equals departure state.
func ArrivalState(legDepartureState State, dest Node) State {
	if legDepartureState == Frozen && dest.CanThawOnArrival {
		return Thawed
	}
	return legDepartureState
}
