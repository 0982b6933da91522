// Package handlers provides the HTTP API for running debates.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"runtime"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/alienxp03/arbiter/internal/core"
	"github.com/alienxp03/arbiter/internal/debate"
	"github.com/alienxp03/arbiter/provider"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	engine   *debate.Engine
	registry *provider.Registry
	roster   []core.Agent
	arbiter  core.AgentID
}

// New creates a new Handler.
func New(engine *debate.Engine, registry *provider.Registry, roster []core.Agent, arbiter core.AgentID) *Handler {
	return &Handler{
		engine:   engine,
		registry: registry,
		roster:   roster,
		arbiter:  arbiter,
	}
}

// Router builds the API router.
func (h *Handler) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/api/debates", h.handleCreateDebate)
	r.Get("/api/debates/stream", h.handleDebateStream)
	r.Get("/api/agents", h.handleAgents)
	r.Get("/api/providers", h.handleProviders)
	r.Get("/api/providers/health", h.handleProvidersHealth)
	r.Get("/api/system/info", h.handleSystemInfo)

	return r
}

// debateRequest is the POST /api/debates body.
type debateRequest struct {
	Question string `json:"question"`
	Debug    bool   `json:"debug,omitempty"`
}

func (h *Handler) handleCreateDebate(w http.ResponseWriter, r *http.Request) {
	var req debateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.engine.Run(r.Context(), req.Question)
	if err != nil {
		if errors.Is(err, debate.ErrEmptyQuestion) {
			h.jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		slog.Error("Debate failed", "error", err)
		h.jsonServerError(w, "debate failed", err)
		return
	}

	if req.Debug {
		h.jsonPretty(w, result)
		return
	}
	h.json(w, result)
}

func (h *Handler) handleAgents(w http.ResponseWriter, r *http.Request) {
	agents := make([]map[string]interface{}, 0, len(h.roster))
	for _, a := range h.roster {
		agents = append(agents, map[string]interface{}{
			"id":       a.ID,
			"provider": a.Provider,
			"model":    a.Model,
			"arbiter":  a.ID == h.arbiter,
		})
	}
	h.json(w, agents)
}

func (h *Handler) handleProviders(w http.ResponseWriter, r *http.Request) {
	providers := h.registry.List()
	result := make([]map[string]interface{}, 0, len(providers))

	for _, p := range providers {
		result = append(result, map[string]interface{}{
			"name":          p.Name(),
			"display_name":  p.DisplayName(),
			"available":     p.Available(),
			"models":        p.Models(),
			"default_model": p.DefaultModel(),
		})
	}

	h.json(w, result)
}

func (h *Handler) handleProvidersHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	result := make(map[string]interface{})

	for _, p := range h.registry.List() {
		status := p.HealthCheck(ctx)
		result[p.Name()] = map[string]interface{}{
			"available":        status.Available,
			"response_time_ms": status.ResponseTime.Milliseconds(),
			"error":            status.Error,
			"checked_at":       status.CheckedAt,
		}
	}

	h.json(w, result)
}

func (h *Handler) handleSystemInfo(w http.ResponseWriter, r *http.Request) {
	cwd, _ := os.Getwd()
	h.json(w, map[string]interface{}{
		"cwd":        cwd,
		"go_version": runtime.Version(),
		"agents":     len(h.roster),
	})
}

func (h *Handler) json(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) jsonPretty(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}

func (h *Handler) jsonError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func (h *Handler) jsonServerError(w http.ResponseWriter, label string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   label,
		"message": err.Error(),
	})
}
