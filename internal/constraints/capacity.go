package constraints

import (
	"time"

	"github.com/pinggolf/cryoplanner/internal/network"
	"github.com/pinggolf/cryoplanner/pkg/domain/entities"
)

// dailyCapacityUnits bounds a single (node, product, date) production
// variable: the most units that could possibly be produced on that date
// given the labor day's total available hours (fixed + max overtime) and
// the product's rate. This also serves as F2's big-M — deliberately the
// tightest valid M rather than a global constant, since a loose M
// materially slows branch-and-bound (the same point F12's implementation
// note makes about pallet bounds).
func dailyCapacityUnits(m *network.Model, node entities.Node, product entities.Product, date time.Time) float64 {
	rate, ok := node.ProductionRatePerHour[product.ID]
	if !ok || rate <= 0 {
		return 0
	}
	ld, ok := m.LaborDay(date)
	if !ok {
		return 0
	}
	availableHours := ld.FixedHours + ld.MaxOvertimeHrs - node.DailyStartupHours - node.DailyShutdownHours
	if availableHours < 0 {
		return 0
	}
	return availableHours * rate
}

// maxDailyHours returns the labor day's total available hours ceiling used
// by F3's labor-capacity constraint.
func maxDailyHours(ld entities.LaborDay) float64 {
	return ld.FixedHours + ld.MaxOvertimeHrs
}
