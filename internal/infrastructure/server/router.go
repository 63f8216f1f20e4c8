// Package server exposes the query router and the domain views over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/doeshing/firewatch/internal/domain"
	"github.com/doeshing/firewatch/internal/ports"
	"github.com/doeshing/firewatch/internal/version"
)

// Deps are the collaborators the HTTP surface needs.
type Deps struct {
	Sessions       *Sessions
	Views          ports.ViewFetcher
	Menu           []domain.MenuItem
	Metrics        http.Handler
	Logger         *zap.Logger
	AllowedOrigins []string
}

// NewRouter creates the HTTP router with all API routes.
func NewRouter(deps Deps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	h := &handlers{deps: deps}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(deps.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", SessionHeader},
		ExposedHeaders: []string{SessionHeader, "X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", h.health)
	r.Get("/version", h.version)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(sessionID)
		r.Post("/query", h.query)
		r.Get("/overview", h.overview)
		r.Get("/views/{kind}", h.view)
		r.Get("/search", h.search)
		r.Get("/history", h.history)
		r.Delete("/history", h.clearHistory)
		r.Get("/menu", h.menu)
	})
	return r
}

type handlers struct {
	deps Deps
}

type queryRequest struct {
	Query string `json:"query"`
}

type queryResponse struct {
	Response  string             `json:"response"`
	Mode      domain.BackendMode `json:"mode"`
	SessionID string             `json:"session_id"`
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "firewatch",
	})
}

func (h *handlers) version(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"version": version.Version,
		"commit":  version.Commit,
		"service": "firewatch",
	})
}

const maxQueryBody = 64 << 10

func (h *handlers) query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxQueryBody))
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		respondError(w, http.StatusBadRequest, domain.EmptyInputGuidance)
		return
	}

	id := sessionFrom(r.Context())
	router := h.deps.Sessions.Router(id)
	answer := router.Query(r.Context(), req.Query)
	respondJSON(w, http.StatusOK, queryResponse{Response: answer, Mode: router.Mode(), SessionID: id})
}

func (h *handlers) overview(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.deps.Views.Overview(r.Context()))
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	switch domain.ViewKind(chi.URLParam(r, "kind")) {
	case domain.ViewOverview:
		respondJSON(w, http.StatusOK, h.deps.Views.Overview(ctx))
	case domain.ViewEvacuees:
		respondJSON(w, http.StatusOK, h.deps.Views.Evacuees(ctx))
	case domain.ViewZones:
		respondJSON(w, http.StatusOK, h.deps.Views.Zones(ctx))
	case domain.ViewResources:
		respondJSON(w, http.StatusOK, h.deps.Views.Resources(ctx))
	default:
		respondError(w, http.StatusNotFound, "unknown view; use overview, evacuees, zones or resources")
	}
}

func (h *handlers) search(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("q"))
	if term == "" {
		respondError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}
	respondJSON(w, http.StatusOK, h.deps.Views.Search(r.Context(), term))
}

func (h *handlers) history(w http.ResponseWriter, r *http.Request) {
	entries := []domain.ConversationEntry{}
	if router, ok := h.deps.Sessions.Lookup(sessionFrom(r.Context())); ok {
		entries = append(entries, router.History()...)
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": sessionFrom(r.Context()),
		"entries":    entries,
	})
}

func (h *handlers) clearHistory(w http.ResponseWriter, r *http.Request) {
	if router, ok := h.deps.Sessions.Lookup(sessionFrom(r.Context())); ok {
		router.ClearHistory()
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) menu(w http.ResponseWriter, r *http.Request) {
	items := h.deps.Menu
	if items == nil {
		items = []domain.MenuItem{}
	}
	respondJSON(w, http.StatusOK, items)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
