package constraints

import (
	"github.com/pinggolf/cryoplanner/internal/index"
	"github.com/pinggolf/cryoplanner/internal/network"
	"github.com/pinggolf/cryoplanner/internal/solver"
)

// Assemble builds the complete solver.Problem for a model and its
// precomputed indices: every decision variable and every constraint family
// F1-F12, in the order F1/F2 (production), F3/F4 (labor), shipments, F7/F8
// (demand) or its sliding-window analogue, F5 or F6 (inventory balance),
// F9/F10 (trucks, plus the day-of-week gating a truck-scheduled route
// needs on top of per-truck linkage), F11 (pallets). Returns the assembled problem, the
// variable table the extractor needs to read values back by the same keys,
// and any construction-time diagnostics (currently just the F12 bounds
// sanity pass).
func Assemble(m *network.Model, idx *index.Indexes, cfg Config) (solver.Problem, *Vars, []string) {
	b := solver.NewBuilder()
	v := newVars()

	addProduction(b, m, idx, v, cfg)
	addLabor(b, m, idx, v)
	addShipments(b, m, idx, v)
	addShortage(b, m, v, cfg)

	switch idx.Mode {
	case index.AgeCohort:
		addDemand(b, m, idx, v)
		addInventory(b, m, idx, v)
	case index.SlidingWindow:
		addSlidingWindow(b, m, idx, v)
	}

	addTrucks(b, m, idx, v)
	addTruckGating(b, m, idx, v)
	addPallets(b, m, idx, v)

	problem := b.Build()
	diagnostics := checkBounds(problem)
	return problem, v, diagnostics
}
