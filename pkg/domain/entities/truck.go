package entities

import "time"

// TruckID identifies a truck schedule entry.
type TruckID string

// DayMask is a bitmask of weekdays the truck runs on, indexed by
// time.Weekday (Sunday = bit 0).
type DayMask uint8

// NewDayMask builds a DayMask from the given weekdays.
func NewDayMask(days ...time.Weekday) DayMask {
	var m DayMask
	for _, d := range days {
		m |= 1 << uint(d)
	}
	return m
}

// Includes reports whether the mask covers the given weekday.
func (m DayMask) Includes(d time.Weekday) bool {
	return m&(1<<uint(d)) != 0
}

// DepartureTime distinguishes morning trucks (load only prior-day
// production) from afternoon trucks (may additionally load same-day
// production), per the D-1 vs D0 timing rule (F10).
type DepartureTime int

const (
	Morning DepartureTime = iota
	Afternoon
)

// TruckStop is an intermediate drop-off on a multi-stop truck route.
type TruckStop struct {
	Destination NodeID
	// LegShare is this stop's share of the leg used to reach it from the
	// truck's prior stop (or origin), expressed as a fraction of the
	// truck's total route distance/cost; informational only — capacity is
	// not split by distance, only by the destinations actually served on
	// a given date (see Truck.Destinations).
	LegShare float64
}

const (
	// TruckCapacityUnits is the fixed truck capacity: 44 pallets * 320 units/pallet.
	TruckCapacityUnits = 44 * UnitsPerPallet
	// TruckCapacityPallets is the fixed truck capacity in pallets.
	TruckCapacityPallets = 44
)

// Truck is a transport unit with a fixed day-of-week schedule. Routes are
// fixed (no flexible routing, per Non-goals): an origin, a primary
// destination, and optional intermediate stops.
type Truck struct {
	ID TruckID

	Origin             NodeID
	PrimaryDestination NodeID
	IntermediateStops  []TruckStop

	DayMask       DayMask
	Departure     DepartureTime
	CapacityUnits Quantity
}

// Destinations returns every destination this truck can drop at, primary
// first, mirroring the order intermediate stops are declared.
func (t Truck) Destinations() []NodeID {
	dests := make([]NodeID, 0, 1+len(t.IntermediateStops))
	dests = append(dests, t.PrimaryDestination)
	for _, s := range t.IntermediateStops {
		dests = append(dests, s.Destination)
	}
	return dests
}

// RunsOn reports whether the truck is scheduled on the given weekday.
func (t Truck) RunsOn(d time.Weekday) bool {
	return t.DayMask.Includes(d)
}
