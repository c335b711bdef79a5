package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mockd/mockd/internal/catalog"
	"github.com/mockd/mockd/internal/model"
)

// reservedPaths are claimed by the introspection surface; spec operations
// that collide with them are skipped at registration.
var reservedPaths = map[string]bool{
	"/health":         true,
	"/spec/info":      true,
	"/spec/schemas":   true,
	"/spec/endpoints": true,
}

// router builds the route table from the catalog captured at Start time.
// Handlers resolve their operation through the current snapshot on every
// request, so operations removed or changed by a reload take effect
// immediately. Operations at paths the running table never registered are
// not routed until the next Start.
func (s *Server) router(cat *catalog.Catalog) http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLog)

	r.Get("/health", s.handleHealth)
	r.Get("/spec/info", s.handleSpecInfo)
	r.Get("/spec/schemas", s.handleSpecSchemas)
	r.Get("/spec/endpoints", s.handleSpecEndpoints)

	for _, op := range cat.Operations() {
		if reservedPaths[op.Path] {
			s.logger.Warn("operation path collides with introspection route, skipping",
				"method", op.Method, "path", op.Path)
			continue
		}
		// chi accepts OpenAPI's {param} syntax as-is; path translation is
		// the identity mapping.
		r.Method(string(op.Method), op.Path, s.handleOperation(op.Method, op.Path))
	}

	return r
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("request",
			"id", uuid.NewString(),
			"method", r.Method,
			"path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

// handleOperation serves one mock route. All failures are contained here: a
// panic during synthesis becomes a structured 500, never a dropped
// connection or a crashed process.
func (s *Server) handleOperation(method model.Method, path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := s.current.Load()
		op, err := snap.catalog.ByRoute(method, path)
		if err != nil {
			// The spec was swapped under us and no longer declares this route.
			writeJSON(w, http.StatusNotFound, map[string]any{
				"error": "not_found",
				"path":  path,
			})
			return
		}

		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("mock generation failed",
					"operationId", op.ID,
					"method", method,
					"path", path,
					"panic", rec)
				writeJSON(w, http.StatusInternalServerError, map[string]any{
					"error":       "generation_failed",
					"operationId": op.ID,
				})
			}
		}()

		resp := s.gen.Synthesize(op, s.genOpts)
		for name, value := range resp.Headers {
			w.Header().Set(name, fmt.Sprint(value))
		}
		writeJSON(w, resp.Status, resp.Body)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.current.Load()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"endpoints": snap.catalog.Len(),
		"schemas":   len(snap.spec.Schemas),
	})
}

func (s *Server) handleSpecInfo(w http.ResponseWriter, r *http.Request) {
	snap := s.current.Load()

	endpoints := make([]map[string]any, 0, snap.catalog.Len())
	for _, op := range snap.catalog.Operations() {
		endpoints = append(endpoints, map[string]any{
			"path":        op.Path,
			"method":      op.Method,
			"operationId": op.ID,
			"summary":     op.Summary,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"openapi":   snap.spec.OpenAPIVersion,
		"info":      snap.spec.Info,
		"servers":   snap.spec.Servers,
		"endpoints": endpoints,
	})
}

func (s *Server) handleSpecSchemas(w http.ResponseWriter, r *http.Request) {
	snap := s.current.Load()

	schemas := make(map[string]model.Schema, len(snap.spec.Schemas))
	for _, schema := range snap.spec.Schemas {
		schemas[schema.Name] = schema
	}
	writeJSON(w, http.StatusOK, schemas)
}

func (s *Server) handleSpecEndpoints(w http.ResponseWriter, r *http.Request) {
	snap := s.current.Load()
	writeJSON(w, http.StatusOK, snap.catalog.Operations())
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
