package entities

import "time"

// LaborDay holds the labor-cost rules in effect for a single calendar date.
type LaborDay struct {
	Date time.Time

	FixedHours     float64
	MaxOvertimeHrs float64

	RegularRate  float64
	OvertimeRate float64
	NonFixedRate float64

	IsFixedDay bool

	// MinPaymentHours applies only when IsFixedDay is false (e.g. weekends):
	// any production at all incurs at least this many hours of pay.
	MinPaymentHours float64
}
