package planner

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics follows NikeGunn-tutu's package-level promauto.New* pattern
// (internal/infra/observability): one counter/histogram/gauge per solve
// lifecycle signal, registered once at package init.
var (
	solvesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_solves_total",
		Help: "Total number of solve attempts by terminal status.",
	}, []string{"status"})

	solveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "planner_solve_duration_seconds",
		Help:    "Wall-clock time spent in solver.Solve.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 14),
	})

	solveMIPGap = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "planner_mip_gap",
		Help: "MIP gap reported by the most recent solve.",
	})

	solveObjective = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "planner_objective_value",
		Help: "Objective value of the most recent solve.",
	})
)
