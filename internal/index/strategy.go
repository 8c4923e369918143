package index

import (
	"time"

	"github.com/pinggolf/cryoplanner/pkg/domain/entities"
)

// ShelfLifeStrategy builds the cohort-dimensioned (or aggregate-dimensioned)
// index sets for a single (node, product) pair. Age-cohort and sliding-window
// tracking are both ShelfLifeStrategy implementations so the builder can
// treat them identically through buildPair.
type ShelfLifeStrategy interface {
	Mode() Mode
	buildPair(node entities.Node, product entities.Product, policy entities.ShelfLifePolicy, dates []time.Time, effectiveEnd time.Time) pairResult
}

// pairResult holds the index rows contributed by one (node, product) pair.
// Exactly one of {cohort, aggregate} and one of {demandCohort, demandAggregate}
// is populated, matching the strategy's Mode.
type pairResult struct {
	cohort          []CohortKey
	aggregate       []AggregateKey
	demandCohort    []DemandCohortKey
	demandAggregate []AggregateDemandKey
}

// AgeCohortStrategy tracks each cohort's state-entry date explicitly.
// Note: for thawed cohorts, ProdDate records the thaw (state-entry) date,
// not the original production date, per the thaw-on-arrival re-anchoring
// rule (F5) — the identity that matters for age validity is "when did this
// cohort enter its current state", not when it was originally produced.
type AgeCohortStrategy struct{}

func (AgeCohortStrategy) Mode() Mode { return AgeCohort }

func (AgeCohortStrategy) buildPair(node entities.Node, product entities.Product, policy entities.ShelfLifePolicy, dates []time.Time, effectiveEnd time.Time) pairResult {
	var res pairResult

	states := []entities.State{entities.Ambient, entities.Frozen, entities.Thawed}
	for _, s := range states {
		if !node.CanStore(s) {
			continue
		}
		shelfDays := policy.Days(s)
		for _, q := range dates {
			maxCurr := q.AddDate(0, 0, shelfDays)
			if maxCurr.After(effectiveEnd) {
				maxCurr = effectiveEnd
			}
			for t := q; !t.After(maxCurr); t = t.AddDate(0, 0, 1) {
				res.cohort = append(res.cohort, CohortKey{
					Node: node.ID, Product: product.ID,
					ProdDate: q, CurrDate: t, State: s,
				})
			}
		}
	}

	if node.HasDemand {
		minRemaining := policy.MinRemainingDaysAtDemand
		for _, s := range states {
			if !node.CanStore(s) {
				continue
			}
			shelfDays := policy.Days(s)
			window := shelfDays - minRemaining
			if window < 0 {
				continue
			}
			for _, t := range dates {
				minQ := t.AddDate(0, 0, -window)
				for q := minQ; !q.After(t); q = q.AddDate(0, 0, 1) {
					res.demandCohort = append(res.demandCohort, DemandCohortKey{
						Destination: node.ID, Product: product.ID,
						Date: t, ProdDate: q, State: s,
					})
				}
			}
		}
	}

	return res
}

// SlidingWindowStrategy tracks inventory per (node, product, state, date) in
// aggregate; shelf life is enforced by a windowed demand constraint (F6)
// instead of per-cohort age bounds.
type SlidingWindowStrategy struct{}

func (SlidingWindowStrategy) Mode() Mode { return SlidingWindow }

func (SlidingWindowStrategy) buildPair(node entities.Node, product entities.Product, policy entities.ShelfLifePolicy, dates []time.Time, effectiveEnd time.Time) pairResult {
	var res pairResult

	states := []entities.State{entities.Ambient, entities.Frozen, entities.Thawed}
	for _, s := range states {
		if !node.CanStore(s) {
			continue
		}
		for _, t := range dates {
			if t.After(effectiveEnd) {
				continue
			}
			res.aggregate = append(res.aggregate, AggregateKey{
				Node: node.ID, Product: product.ID, State: s, Date: t,
			})
		}
	}

	if node.HasDemand {
		window := policy.Days(entities.Ambient) - policy.MinRemainingDaysAtDemand
		for _, t := range dates {
			res.demandAggregate = append(res.demandAggregate, AggregateDemandKey{
				Destination: node.ID, Product: product.ID, Date: t,
				MinProdDate: t.AddDate(0, 0, -window),
			})
		}
	}

	return res
}
