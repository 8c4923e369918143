package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/pinggolf/cryoplanner/internal/constraints"
	"github.com/pinggolf/cryoplanner/internal/index"
	"github.com/pinggolf/cryoplanner/internal/solver"
	"github.com/pinggolf/cryoplanner/pkg/domain/entities"
)

// SolveRequest is the POST /v1/solve body: a scenario plus the constraint
// and solver settings network.Build and the Driver need.
type SolveRequest struct {
	Scenario entities.Scenario `json:"scenario"`

	EnforceMixSize bool `json:"enforce_mix_size"`
	AllowShortages bool `json:"allow_shortages"`
	SlidingWindow  bool `json:"sliding_window"`

	TimeLimitSeconds int     `json:"time_limit_seconds"`
	MIPGap           float64 `json:"mip_gap"`
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req SolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	mode := index.AgeCohort
	if req.SlidingWindow {
		mode = index.SlidingWindow
	}
	cfg := constraints.Config{
		EnforceMixSize: req.EnforceMixSize,
		AllowShortages: req.AllowShortages,
		Mode:           mode,
	}

	timeLimit := time.Duration(req.TimeLimitSeconds) * time.Second
	if timeLimit <= 0 {
		timeLimit = 5 * time.Minute
	}
	mipGap := req.MIPGap
	if mipGap <= 0 {
		mipGap = 0.01
	}
	params := solver.Params{TimeLimit: timeLimit, MIPGap: mipGap}

	result, err := s.driver.Solve(r.Context(), req.Scenario, cfg, params)
	if err != nil {
		if entities.IsConfigurationError(err) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.audit == nil {
		writeError(w, http.StatusNotImplemented, "audit store not configured")
		return
	}
	id := mux.Vars(r)["id"]
	run, found, err := s.audit.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
