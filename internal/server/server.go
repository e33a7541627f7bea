// Package server exposes analysis sessions over a small JSON API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/pable/cricanalyze/internal/analyzer"
	"github.com/pable/cricanalyze/internal/view"
)

// statusReporter is implemented by sources that can describe their loading
// state, such as *dataset.Loader.
type statusReporter interface {
	Status() string
}

// DefaultSessionTTL is how long a session may sit idle before Sweep drops it.
const DefaultSessionTTL = 30 * time.Minute

type entry struct {
	mu       sync.Mutex
	session  *analyzer.Session
	lastUsed time.Time // guarded by Handler.mu
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	src analyzer.Source
	// TTL is the idle time after which a session is swept. Zero keeps
	// sessions until they are deleted.
	TTL time.Duration
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

// NewHandler creates a new handler
func NewHandler(src analyzer.Source) *Handler {
	return &Handler{
		src:      src,
		TTL:      DefaultSessionTTL,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

// Sweep drops sessions idle for longer than TTL and returns how many it
// removed.
func (h *Handler) Sweep() int {
	if h.TTL <= 0 {
		return 0
	}
	cutoff := h.now().Add(-h.TTL)
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for id, e := range h.sessions {
		if e.lastUsed.Before(cutoff) {
			delete(h.sessions, id)
			n++
		}
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is cancelled.
func (h *Handler) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := h.Sweep(); n > 0 {
				log.Printf("server: dropped %d idle sessions", n)
			}
		}
	}
}

// Router builds the chi router with middleware and routes.
func Router(h *Handler, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.HealthCheck)
	r.Route("/api/v1/sessions", func(r chi.Router) {
		r.Post("/", h.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Delete("/", h.DeleteSession)
			r.Post("/chase", h.Chase)
			r.Post("/match", h.Match)
			r.Post("/{kind}/view", h.ApplyView)
		})
	})
	return r
}

// HealthCheck returns service health and the dataset state.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	body := map[string]string{
		"status":  "healthy",
		"service": "cricanalyze",
	}
	if sr, ok := h.src.(statusReporter); ok {
		body["dataset"] = sr.Status()
	}
	respondJSON(w, http.StatusOK, body)
}

// CreateSession starts a new analysis session.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	id := uuid.New().String()
	h.mu.Lock()
	h.sessions[id] = &entry{session: analyzer.NewSession(h.src), lastUsed: h.now()}
	h.mu.Unlock()
	respondJSON(w, http.StatusCreated, SessionResponse{ID: id})
}

// DeleteSession discards a session.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.mu.Lock()
	_, ok := h.sessions[id]
	delete(h.sessions, id)
	h.mu.Unlock()
	if !ok {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Chase runs a chase query in the session.
func (h *Handler) Chase(w http.ResponseWriter, r *http.Request) {
	var req ChaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}
	h.withSession(w, r, func(s *analyzer.Session) {
		res, err := s.Chase(analyzer.ChaseQuery{Score: req.Score, Over: req.Over, Range: req.Range, Target: req.Target})
		if err != nil {
			respondAnalysisError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, chaseResponse(res, s.CrossRef()))
	})
}

// Match runs a match query in the session.
func (h *Handler) Match(w http.ResponseWriter, r *http.Request) {
	var req MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}
	h.withSession(w, r, func(s *analyzer.Session) {
		res, err := s.Match(analyzer.MatchQuery{Score6: req.Score6, Score10: req.Score10, Score15: req.Score15, Score20: req.Score20})
		if err != nil {
			respondAnalysisError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, matchResponse(res))
	})
}

// ApplyView filters or sorts the session's latest chase or match result.
func (h *Handler) ApplyView(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	if kind != "chase" && kind != "match" {
		respondError(w, http.StatusNotFound, fmt.Sprintf("unknown result kind: %s", kind))
		return
	}
	var req ViewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}
	action, err := req.action()
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.withSession(w, r, func(s *analyzer.Session) {
		if kind == "chase" {
			res, err := s.ApplyChase(action)
			if err != nil {
				respondAnalysisError(w, err)
				return
			}
			respondJSON(w, http.StatusOK, chaseResponse(res, s.CrossRef()))
			return
		}
		res, err := s.ApplyMatch(action)
		if err != nil {
			respondAnalysisError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, matchResponse(res))
	})
}

func (req ViewRequest) action() (view.Action, error) {
	switch req.Action {
	case "years":
		return view.SelectYears{Years: req.Years}, nil
	case "range":
		return view.ParseRangeAction(req.Range)
	case "result":
		return view.ParseResultAction(req.Result)
	case "min":
		if req.Min < 0 {
			return nil, fmt.Errorf("min must not be negative")
		}
		return view.MinAgreement{N: req.Min}, nil
	case "sort":
		if req.Column == "" {
			return nil, fmt.Errorf("sort needs a column")
		}
		return view.SortBy{Column: req.Column}, nil
	}
	return nil, fmt.Errorf("unknown action: %q", req.Action)
}

// withSession runs fn holding the session's lock. Queries on one session
// are serialized; different sessions run concurrently.
func (h *Handler) withSession(w http.ResponseWriter, r *http.Request, fn func(*analyzer.Session)) {
	id := chi.URLParam(r, "id")
	h.mu.Lock()
	e, ok := h.sessions[id]
	if ok {
		e.lastUsed = h.now()
	}
	h.mu.Unlock()
	if !ok {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.session)
}

func respondAnalysisError(w http.ResponseWriter, err error) {
	switch {
	case analyzer.IsValidation(err):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, analyzer.ErrNoResult):
		respondError(w, http.StatusConflict, err.Error())
	default:
		// Not loaded yet, or the load failed.
		respondError(w, http.StatusServiceUnavailable, err.Error())
	}
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}
