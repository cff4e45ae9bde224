// Package api exposes the industry REST surface consumed by the
// companion-app client.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/stillness-labs/frontier-industry-server/internal/industry/db"
	"github.com/stillness-labs/frontier-industry-server/internal/industry/engine"
	"github.com/stillness-labs/frontier-industry-server/internal/industry/metrics"
)

// Server wires the engine and stores behind the HTTP routes.
type Server struct {
	engine     *engine.Engine
	facilities *db.FacilityStore
	blueprints *db.BlueprintStore
	logger     *slog.Logger
}

// NewServer creates the API server.
func NewServer(eng *engine.Engine, database *db.DB, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		engine:     eng,
		facilities: db.NewFacilityStore(database),
		blueprints: db.NewBlueprintStore(database),
		logger:     logger,
	}
}

// Router builds the chi router with the full middleware stack.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(metrics.Middleware)
	r.Use(corsMiddleware)

	r.Get("/api/health", s.handleHealth)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/industry", func(r chi.Router) {
		r.Get("/facilities", s.handleListFacilities)
		r.Get("/facilities/{id}/blueprints", s.handleFacilityBlueprints)

		// The blueprints subtree mixes addressing: details by blueprint
		// ID, options and compare by product type ID. One wildcard name
		// keeps the chi trie happy.
		r.Get("/blueprints/{id}", s.handleBlueprintDetails)
		r.Get("/blueprints/{id}/options", s.handleBlueprintOptions)
		r.Get("/blueprints/{id}/compare", s.handleBlueprintCompare)

		r.Get("/efficiency/{id}", s.handleEfficiencyGet)
		r.Post("/efficiency/{id}", s.handleEfficiencyPost)

		r.Post("/optimize-multi", s.handleOptimizeMulti)
	})

	return r
}

// corsMiddleware allows the browser client to call from another origin.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
