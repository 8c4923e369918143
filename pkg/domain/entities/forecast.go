package entities

import "time"

// ForecastEntry is external demand for a product at a destination on a date.
type ForecastEntry struct {
	Destination NodeID
	Product     ProductID
	Date        time.Time
	Quantity    Quantity
}

// ForecastKey identifies a forecast entry for map lookups.
type ForecastKey struct {
	Destination NodeID
	Product     ProductID
	Date        time.Time
}

// Key returns the lookup key for this entry.
func (f ForecastEntry) Key() ForecastKey {
	return ForecastKey{Destination: f.Destination, Product: f.Product, Date: f.Date}
}
