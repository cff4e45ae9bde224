package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/stillness-labs/frontier-industry-server/internal/industry/engine"
	"github.com/stillness-labs/frontier-industry-server/internal/industry/metrics"
	"github.com/stillness-labs/frontier-industry-server/pkg/industry"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "service": "industry-server"})
}

// GET /api/industry/facilities
func (s *Server) handleListFacilities(w http.ResponseWriter, r *http.Request) {
	facilities, err := s.facilities.ListFacilities(r.Context())
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	if facilities == nil {
		facilities = []industry.Facility{}
	}
	writeJSON(w, http.StatusOK, facilities)
}

// GET /api/industry/facilities/{id}/blueprints
func (s *Server) handleFacilityBlueprints(w http.ResponseWriter, r *http.Request) {
	facilityID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	facility, err := s.facilities.GetFacility(r.Context(), facilityID)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	if facility == nil {
		writeError(w, "facility not found", http.StatusNotFound)
		return
	}

	blueprints, err := s.blueprints.ListByFacility(r.Context(), facilityID)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	if blueprints == nil {
		blueprints = []industry.BlueprintSummary{}
	}
	writeJSON(w, http.StatusOK, blueprints)
}

// GET /api/industry/blueprints/{id}
func (s *Server) handleBlueprintDetails(w http.ResponseWriter, r *http.Request) {
	blueprintID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	bp, err := s.blueprints.GetBlueprint(r.Context(), blueprintID)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	if bp == nil {
		writeError(w, "blueprint not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, bp)
}

// GET /api/industry/blueprints/{id}/options
func (s *Server) handleBlueprintOptions(w http.ResponseWriter, r *http.Request) {
	typeID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	options, err := s.blueprints.OptionsForType(r.Context(), typeID)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	if options == nil {
		options = []industry.BlueprintOption{}
	}
	writeJSON(w, http.StatusOK, options)
}

// GET /api/industry/blueprints/{id}/compare?quantity=N
func (s *Server) handleBlueprintCompare(w http.ResponseWriter, r *http.Request) {
	typeID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	quantity := queryInt(r, "quantity", 1)

	comparisons, err := s.engine.CompareBlueprints(r.Context(), typeID, quantity)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	if comparisons == nil {
		comparisons = []industry.BlueprintComparison{}
	}
	writeJSON(w, http.StatusOK, comparisons)
}

// GET /api/industry/efficiency/{id}?quantity=N
func (s *Server) handleEfficiencyGet(w http.ResponseWriter, r *http.Request) {
	typeID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	quantity := queryInt(r, "quantity", 1)

	s.resolveAndWrite(w, r, typeID, quantity, nil)
}

// POST /api/industry/efficiency/{id} with {quantity, blueprintOverrides}
func (s *Server) handleEfficiencyPost(w http.ResponseWriter, r *http.Request) {
	typeID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req industry.EfficiencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	s.resolveAndWrite(w, r, typeID, req.Quantity, req.BlueprintOverrides)
}

// resolveAndWrite runs a single-target resolution and writes the tree.
func (s *Server) resolveAndWrite(w http.ResponseWriter, r *http.Request, typeID, quantity int64, overrides map[int64]int64) {
	start := time.Now()
	runID := uuid.NewString()

	node, err := s.engine.Resolve(r.Context(), typeID, quantity, engine.NewExcessPool(), overrides)
	metrics.OptimizationDuration.WithLabelValues("single").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.OptimizationsTotal.WithLabelValues("single", "error").Inc()
		s.logger.Warn("resolution failed",
			"run_id", runID, "type_id", typeID, "quantity", quantity, "error", err)
		s.writeEngineError(w, r, err)
		return
	}

	metrics.OptimizationsTotal.WithLabelValues("single", "ok").Inc()
	s.logger.Info("resolution complete",
		"run_id", runID, "type_id", typeID, "quantity", quantity,
		"base_materials", node.TotalBaseMaterials, "elapsed", time.Since(start))
	writeJSON(w, http.StatusOK, node)
}

// POST /api/industry/optimize-multi
func (s *Server) handleOptimizeMulti(w http.ResponseWriter, r *http.Request) {
	var req industry.OptimizeMultiRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	start := time.Now()
	runID := uuid.NewString()

	resp, err := s.engine.OptimizeMulti(r.Context(), req.Materials, req.BlueprintOverrides)
	metrics.OptimizationDuration.WithLabelValues("multi").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.OptimizationsTotal.WithLabelValues("multi", "error").Inc()
		s.logger.Warn("multi-target optimization failed",
			"run_id", runID, "targets", len(req.Materials), "error", err)
		s.writeEngineError(w, r, err)
		return
	}

	metrics.OptimizationsTotal.WithLabelValues("multi", "ok").Inc()
	s.logger.Info("multi-target optimization complete",
		"run_id", runID, "targets", len(req.Materials),
		"total_time", resp.TotalTime, "elapsed", time.Since(start))
	writeJSON(w, http.StatusOK, resp)
}

// ============================================
// HELPERS
// ============================================

// writeEngineError maps the engine error taxonomy onto HTTP statuses.
// Partial results are never written: a failed optimization is a failed
// request.
func (s *Server) writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, engine.ErrInvalidQuantity):
		writeError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, engine.ErrCircularRecipe):
		writeError(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, engine.ErrDataUnavailable):
		writeError(w, err.Error(), http.StatusBadGateway)
	default:
		s.logger.Error("internal error", "path", r.URL.Path, "error", err)
		writeError(w, "internal error", http.StatusInternalServerError)
	}
}

// pathID parses a numeric chi URL parameter, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		writeError(w, "invalid "+name, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// queryInt parses an integer query parameter with a default.
func queryInt(r *http.Request, name string, def int64) int64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return def
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}
