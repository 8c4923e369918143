// Package reference implements the one concrete solver.Solver backend
// shipped in this repository: a two-phase primal simplex method for the LP
// relaxation, driven by a depth-first branch-and-bound for integer and
// binary variables. It exists to make the core usable standalone and to
// exercise solver.Problem end to end in tests; a production deployment is
// expected to swap in a commercial or HiGHS-backed solver.Solver without
// touching any other package.
package reference

import (
	"math"

	"github.com/pinggolf/cryoplanner/internal/solver"
)

const (
	simplexEpsilon  = 1e-9
	unboundedVar    = math.MaxFloat64 / 4
	maxSimplexIters = 20000
)

// tableau is a dense simplex tableau. Row 0 is the objective row; rows
// 1..m are constraint rows. Column numVars+numSlack is the RHS column.
type tableau struct {
	rows     [][]float64
	basis    []int // basis[i] = column index of the basic variable in row i+1
	numCols  int
	rhsCol   int
	varNames []string // for diagnostics only
}

// bound represents a variable's current lower/upper bound, overridden by
// branch-and-bound as it fixes fractional variables.
type bound struct {
	lb, ub float64
}

// standardForm lowers a solver.Problem (plus a branch-and-bound node's bound
// overrides) into a simplex tableau in equality form: every inequality gets
// a slack/surplus column, every >= and = constraint gets an artificial
// column for phase 1. Variable upper bounds are modeled as extra <=
// constraints, and variable lower bounds are eliminated by shifting
// (x' = x - lb) so the tableau only ever deals with x' >= 0.
func standardForm(p solver.Problem, bounds []bound) *tableau {
	n := len(p.Vars)

	type rowSpec struct {
		coefs []float64 // length n, over shifted variables
		sense solver.Sense
		rhs   float64
	}

	var rows []rowSpec
	for _, c := range p.Constraints {
		coefs := make([]float64, n)
		rhs := c.RHS
		for _, t := range c.Terms {
			coefs[t.VarIndex] += t.Coef
			rhs -= t.Coef * bounds[t.VarIndex].lb
		}
		rows = append(rows, rowSpec{coefs: coefs, sense: c.Sense, rhs: rhs})
	}
	for i, b := range bounds {
		if b.ub >= unboundedVar {
			continue
		}
		coefs := make([]float64, n)
		coefs[i] = 1
		rows = append(rows, rowSpec{coefs: coefs, sense: solver.LE, rhs: b.ub - b.lb})
	}

	numSlack := 0
	numArtificial := 0
	for _, r := range rows {
		sense := r.sense
		if r.rhs < 0 {
			switch sense {
			case solver.LE:
				sense = solver.GE
			case solver.GE:
				sense = solver.LE
			}
		}
		switch sense {
		case solver.LE:
			numSlack++
		case solver.GE:
			numSlack++
			numArtificial++
		case solver.EQ:
			numArtificial++
		}
	}

	numCols := n + numSlack + numArtificial + 1
	rhsCol := numCols - 1

	t := &tableau{numCols: numCols, rhsCol: rhsCol}
	t.rows = make([][]float64, len(rows)+1)
	for i := range t.rows {
		t.rows[i] = make([]float64, numCols)
	}
	t.basis = make([]int, len(rows))

	slackCol := n
	artCol := n + numSlack
	for i, r := range rows {
		row := t.rows[i+1]
		for j, coef := range r.coefs {
			row[j] = coef
		}
		rhs := r.rhs
		if rhs < 0 {
			for j := range row {
				row[j] = -row[j]
			}
			rhs = -rhs
			switch r.sense {
			case solver.LE:
				r.sense = solver.GE
			case solver.GE:
				r.sense = solver.LE
			}
		}
		row[rhsCol] = rhs

		switch r.sense {
		case solver.LE:
			row[slackCol] = 1
			t.basis[i] = slackCol
			slackCol++
		case solver.GE:
			row[slackCol] = -1
			row[artCol] = 1
			t.basis[i] = artCol
			slackCol++
			artCol++
		case solver.EQ:
			row[artCol] = 1
			t.basis[i] = artCol
			artCol++
		}
	}

	return t
}

// phase1 drives artificial variables out of the basis by minimizing their
// sum. Returns false if the minimum achievable sum is bounded away from
// zero, meaning the original problem is infeasible.
func (t *tableau) phase1(firstArtCol, numArtificial int) bool {
	if numArtificial == 0 {
		return true
	}
	obj := t.rows[0]
	for j := range obj {
		obj[j] = 0
		if j >= firstArtCol && j < firstArtCol+numArtificial {
			obj[j] = 1
		}
	}
	for i, b := range t.basis {
		if b >= firstArtCol && b < firstArtCol+numArtificial {
			for j := 0; j < t.numCols; j++ {
				obj[j] -= t.rows[i+1][j]
			}
		}
	}

	t.runSimplex(func(col int) bool { return true }, nil)

	return obj[t.rhsCol] >= -1e-6
}

// runSimplex performs primal simplex pivots using Bland's rule (lowest
// eligible column index) for deterministic, cycle-free termination, which
// also gives the reference backend repeatable results given identical
// input, per the tie-breaking design decision. allowed restricts which
// non-basic columns may enter (used to keep artificial columns out of phase
// 2's candidate set).
// runSimplex returns (unbounded, interrupted). unbounded is true if some
// entering column had no eligible leaving row. interrupted is true if
// stopCheck fired before an optimal basis was reached (wall-clock time
// limit), in which case the current (not necessarily optimal) basis stands.
func (t *tableau) runSimplex(allowed func(col int) bool, stopCheck func() bool) (unbounded, interrupted bool) {
	obj := t.rows[0]
	for iter := 0; iter < maxSimplexIters; iter++ {
		if stopCheck != nil && stopCheck() {
			return false, true
		}

		enter := -1
		for j := 0; j < t.rhsCol; j++ {
			if !allowed(j) {
				continue
			}
			if obj[j] < -simplexEpsilon {
				enter = j
				break
			}
		}
		if enter == -1 {
			return false, false
		}

		leave := -1
		best := math.Inf(1)
		for i := 1; i < len(t.rows); i++ {
			coef := t.rows[i][enter]
			if coef <= simplexEpsilon {
				continue
			}
			ratio := t.rows[i][t.rhsCol] / coef
			if ratio < best-1e-12 || (ratio < best+1e-12 && (leave == -1 || t.basis[i-1] < t.basis[leave-1])) {
				best = ratio
				leave = i
			}
		}
		if leave == -1 {
			return true, false
		}

		pivot(t.rows, leave, enter)
		t.basis[leave-1] = enter
	}
	return false, false
}

func pivot(rows [][]float64, pivotRow, pivotCol int) {
	pv := rows[pivotRow][pivotCol]
	row := rows[pivotRow]
	for j := range row {
		row[j] /= pv
	}
	for i, r := range rows {
		if i == pivotRow {
			continue
		}
		factor := r[pivotCol]
		if factor == 0 {
			continue
		}
		for j := range r {
			r[j] -= factor * row[j]
		}
	}
}

// solution extracts shifted-variable values from the basis, then unshifts
// them by adding back each variable's lower bound.
func (t *tableau) solution(n int, bounds []bound) []float64 {
	vals := make([]float64, n)
	for i, b := range t.basis {
		if b < n {
			vals[b] = t.rows[i+1][t.rhsCol]
		}
	}
	for i := range vals {
		vals[i] += bounds[i].lb
	}
	return vals
}
