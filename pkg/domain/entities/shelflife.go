package entities

// State is the inventory state that controls the shelf-life clock and
// allowed storage locations.
type State int

const (
	Ambient State = iota
	Frozen
	Thawed
)

func (s State) String() string {
	switch s {
	case Ambient:
		return "ambient"
	case Frozen:
		return "frozen"
	case Thawed:
		return "thawed"
	default:
		return "unknown"
	}
}

// ShelfLifePolicy holds the fixed shelf-life constants for the network.
type ShelfLifePolicy struct {
	AmbientDays int
	FrozenDays  int
	ThawedDays  int

	// MinRemainingDaysAtDemand is the minimum remaining shelf life a
	// cohort must carry to be eligible to satisfy demand.
	MinRemainingDaysAtDemand int
}

// DefaultShelfLifePolicy returns the constants specified in the domain
// model: 17 days ambient, 120 days frozen, 14 days thawed, 7-day minimum
// remaining shelf life at delivery.
func DefaultShelfLifePolicy() ShelfLifePolicy {
	return ShelfLifePolicy{
		AmbientDays:              17,
		FrozenDays:               120,
		ThawedDays:               14,
		MinRemainingDaysAtDemand: 7,
	}
}

// Days returns the shelf-life length, in days, for the given state.
func (p ShelfLifePolicy) Days(s State) int {
	switch s {
	case Ambient:
		return p.AmbientDays
	case Frozen:
		return p.FrozenDays
	case Thawed:
		return p.ThawedDays
	default:
		return 0
	}
}
