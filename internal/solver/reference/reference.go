package reference

import (
	"context"
	"math"
	"time"

	"github.com/pinggolf/cryoplanner/internal/solver"
)

// Solver is the reference solver.Solver implementation: two-phase primal
// simplex for LP relaxations, depth-first branch-and-bound with best-bound
// pruning for integer/binary variables.
type Solver struct{}

// New returns a ready-to-use reference solver.
func New() *Solver {
	return &Solver{}
}

type lpOutcome struct {
	status solver.SolveStatus
	values []float64
}

// solveLP solves the LP relaxation of p under the given per-variable bound
// overrides (branch-and-bound tightens these from p.Vars' originals).
func solveLP(p solver.Problem, bounds []bound, deadline time.Time) lpOutcome {
	n := len(p.Vars)
	for _, b := range bounds {
		if b.lb > b.ub+simplexEpsilon {
			return lpOutcome{status: solver.Infeasible}
		}
	}

	t := standardForm(p, bounds)

	firstArtCol, _ := artificialRange(p, bounds, n)
	numArt := t.rhsCol - firstArtCol
	stopCheck := func() bool { return !deadline.IsZero() && time.Now().After(deadline) }

	if numArt > 0 {
		feasible := t.phase1(firstArtCol, numArt)
		if !feasible {
			return lpOutcome{status: solver.Infeasible}
		}
		// Drive any remaining artificial variables with zero value out of
		// the basis before phase 2, so they never re-enter.
		for i, b := range t.basis {
			if b >= firstArtCol {
				driven := false
				for j := 0; j < firstArtCol; j++ {
					if math.Abs(t.rows[i+1][j]) > simplexEpsilon {
						pivot(t.rows, i+1, j)
						t.basis[i] = j
						driven = true
						break
					}
				}
				if !driven {
					// Degenerate artificial stays at zero; harmless since we
					// exclude artificial columns from phase 2 entry below.
					_ = driven
				}
			}
		}
	}

	cost := make([]float64, t.numCols)
	sign := 1.0
	if !p.Objective.Minimize {
		sign = -1.0
	}
	for _, term := range p.Objective.Terms {
		cost[term.VarIndex] += sign * term.Coef
	}

	obj := t.rows[0]
	for j := range obj {
		obj[j] = cost[j]
	}
	obj[t.rhsCol] = 0
	for i, b := range t.basis {
		if b < t.numCols {
			c := cost[b]
			if c == 0 {
				continue
			}
			for j := 0; j < t.numCols; j++ {
				obj[j] -= c * t.rows[i+1][j]
			}
		}
	}

	unbounded, _ := t.runSimplex(func(col int) bool { return col < firstArtCol }, stopCheck)
	if unbounded {
		return lpOutcome{status: solver.Unbounded}
	}

	values := t.solution(n, bounds)
	return lpOutcome{status: solver.Optimal, values: values}
}

func artificialRange(p solver.Problem, bounds []bound, n int) (firstCol, count int) {
	numSlack := 0
	numArt := 0
	for _, c := range p.Constraints {
		switch c.Sense {
		case solver.LE:
			numSlack++
		case solver.GE:
			numSlack++
			numArt++
		case solver.EQ:
			numArt++
		}
	}
	for _, b := range bounds {
		if b.ub < unboundedVar {
			numSlack++
		}
	}
	return n + numSlack, numArt
}

func objectiveValue(p solver.Problem, values []float64) float64 {
	var total float64
	for _, t := range p.Objective.Terms {
		total += t.Coef * values[t.VarIndex]
	}
	return total
}

// Solve runs branch-and-bound over the LP relaxation until the search tree
// is exhausted or ctx/params.TimeLimit expires. params.MIPGap is not
// consulted: the search never stops early on a gap, and Result.Gap is
// always 0, also when the time limit ends the search.
func (s *Solver) Solve(ctx context.Context, p solver.Problem, params solver.Params) solver.Result {
	start := time.Now()
	var deadline time.Time
	if params.TimeLimit > 0 {
		deadline = start.Add(params.TimeLimit)
	}
	if dl, ok := ctx.Deadline(); ok && (deadline.IsZero() || dl.Before(deadline)) {
		deadline = dl
	}

	n := len(p.Vars)
	rootBounds := make([]bound, n)
	for i, v := range p.Vars {
		ub := v.UB
		if v.Kind == solver.Binary {
			ub = 1
		}
		rootBounds[i] = bound{lb: v.LB, ub: ub}
	}

	var incumbent []float64
	incumbentObj := math.Inf(1)
	haveIncumbent := false
	warmStartSign := 1.0
	if !p.Objective.Minimize {
		warmStartSign = -1.0
	}
	if len(params.WarmStart) > 0 {
		if vals, obj, ok := warmStartIncumbent(p, params.WarmStart); ok {
			incumbent = vals
			incumbentObj = warmStartSign * obj
			haveIncumbent = true
		}
	}

	hasIntegerVars := false
	for _, v := range p.Vars {
		if v.Kind != solver.Continuous {
			hasIntegerVars = true
			break
		}
	}

	type node struct {
		bounds []bound
		depth  int
	}

	stack := []node{{bounds: rootBounds}}

	timedOut := false

	sign := 1.0
	if !p.Objective.Minimize {
		sign = -1.0
	}

	for len(stack) > 0 {
		if ctx.Err() != nil || (!deadline.IsZero() && time.Now().After(deadline)) {
			timedOut = true
			break
		}

		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		out := solveLP(p, top.bounds, deadline)
		if out.status == solver.Infeasible || out.status == solver.Unbounded {
			continue
		}

		relaxObj := sign * objectiveValue(p, out.values)
		if haveIncumbent && relaxObj >= incumbentObj-1e-9 {
			continue // best-bound pruning
		}

		if !hasIntegerVars {
			incumbent = out.values
			incumbentObj = relaxObj
			haveIncumbent = true
			continue
		}

		branchVar, frac := mostFractional(p, out.values)
		if branchVar == -1 {
			incumbent = out.values
			incumbentObj = relaxObj
			haveIncumbent = true
			continue
		}

		floor := math.Floor(frac)
		ceil := floor + 1

		leftBounds := cloneBounds(top.bounds)
		leftBounds[branchVar].ub = floor
		rightBounds := cloneBounds(top.bounds)
		rightBounds[branchVar].lb = ceil

		// Push right first so the left (floor) branch is explored first,
		// keeping depth-first order deterministic by ascending var index.
		stack = append(stack, node{bounds: rightBounds, depth: top.depth + 1})
		stack = append(stack, node{bounds: leftBounds, depth: top.depth + 1})
	}

	elapsed := time.Since(start)

	if !haveIncumbent {
		status := solver.Infeasible
		if timedOut {
			status = solver.TimeLimit
		}
		return solver.Result{Status: status, SolveTime: elapsed}
	}

	status := solver.Optimal
	if timedOut {
		status = solver.TimeLimit
	}

	return solver.Result{
		Status:    status,
		Objective: objectiveValue(p, incumbent),
		Values:    incumbent,
		SolveTime: elapsed,
		Gap:       0,
	}
}

func cloneBounds(b []bound) []bound {
	out := make([]bound, len(b))
	copy(out, b)
	return out
}

// warmStartIncumbent turns warmstart hints into a candidate incumbent.
// Indices outside the problem's variable range are skipped; a hint set that
// violates any constraint or integrality requirement beyond tolerance is
// rejected wholesale rather than partially applied, since a partially-valid
// incumbent could mislead best-bound pruning.
func warmStartIncumbent(p solver.Problem, hints map[int]float64) (values []float64, objective float64, ok bool) {
	n := len(p.Vars)
	vals := make([]float64, n)
	for i, v := range p.Vars {
		vals[i] = v.LB
	}
	for idx, v := range hints {
		if idx < 0 || idx >= n {
			continue // unknown variable index, logged upstream by the driver
		}
		vals[idx] = v
	}

	for i, v := range p.Vars {
		if vals[i] < v.LB-1e-6 || vals[i] > v.UB+1e-6 {
			return nil, 0, false
		}
		if v.Kind != solver.Continuous && math.Abs(vals[i]-math.Round(vals[i])) > 1e-6 {
			return nil, 0, false
		}
	}

	for _, c := range p.Constraints {
		var lhs float64
		for _, t := range c.Terms {
			lhs += t.Coef * vals[t.VarIndex]
		}
		switch c.Sense {
		case solver.LE:
			if lhs > c.RHS+1e-6 {
				return nil, 0, false
			}
		case solver.GE:
			if lhs < c.RHS-1e-6 {
				return nil, 0, false
			}
		case solver.EQ:
			if math.Abs(lhs-c.RHS) > 1e-6 {
				return nil, 0, false
			}
		}
	}

	return vals, objectiveValue(p, vals), true
}

// mostFractional returns the index and value of the integer/binary variable
// furthest from an integral value, breaking ties by ascending variable
// index for deterministic branching (§9 Open Question decision 3). Returns
// -1 if every integer/binary variable is already integral within tolerance.
func mostFractional(p solver.Problem, values []float64) (idx int, val float64) {
	idx = -1
	bestDist := 1e-6
	for i, v := range p.Vars {
		if v.Kind == solver.Continuous {
			continue
		}
		x := values[i]
		dist := math.Abs(x - math.Round(x))
		if dist > bestDist {
			bestDist = dist
			idx = i
			val = x
		}
	}
	return idx, val
}
