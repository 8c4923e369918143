package entities

import (
	"testing"
	"time"
)

func TestDayMask_Includes(t *testing.T) {
	mask := NewDayMask(time.Monday, time.Wednesday, time.Friday)

	for d := time.Sunday; d <= time.Saturday; d++ {
		want := d == time.Monday || d == time.Wednesday || d == time.Friday
		if got := mask.Includes(d); got != want {
			t.Errorf("Includes(%s) = %v, want %v", d, got, want)
		}
	}
}

func TestTruck_Destinations(t *testing.T) {
	truck := Truck{
		ID:                 "T1",
		PrimaryDestination: "DC1",
		IntermediateStops: []TruckStop{
			{Destination: "DC2"},
			{Destination: "DC3"},
		},
	}

	dests := truck.Destinations()
	want := []NodeID{"DC1", "DC2", "DC3"}
	if len(dests) != len(want) {
		t.Fatalf("Destinations() returned %d entries, want %d", len(dests), len(want))
	}
	for i, d := range dests {
		if d != want[i] {
			t.Errorf("Destinations()[%d] = %s, want %s", i, d, want[i])
		}
	}
}

func TestTruck_RunsOn(t *testing.T) {
	truck := Truck{DayMask: NewDayMask(time.Tuesday)}
	if !truck.RunsOn(time.Tuesday) {
		t.Error("expected truck to run on Tuesday")
	}
	if truck.RunsOn(time.Monday) {
		t.Error("expected truck not to run on Monday")
	}
}
