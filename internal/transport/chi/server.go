// Package chi exposes the matching engine over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/youthconnect/activityfinder/internal/domain"
	"github.com/youthconnect/activityfinder/internal/domain/search/request"
	healthuc "github.com/youthconnect/activityfinder/internal/usecase/health"
	searchuc "github.com/youthconnect/activityfinder/internal/usecase/search"
)

// CatalogReloader rebuilds the catalog index from its source and swaps it
// in atomically. Returns the number of records loaded.
type CatalogReloader interface {
	Reload(ctx context.Context) (int, error)
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server wires the search engine, health checks, and catalog reload into
// HTTP handlers.
type Server struct {
	search        *searchuc.Service
	health        *healthuc.Service
	reloader      CatalogReloader
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates the HTTP API server. reloader may be nil, which
// disables the reload endpoint.
func NewServer(
	search *searchuc.Service,
	health *healthuc.Service,
	reloader CatalogReloader,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:   search,
		health:   health,
		reloader: reloader,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest),
		sentinelHandler(domain.ErrDimensionMismatch, http.StatusBadRequest),
		sentinelHandler(domain.ErrCatalogLoad, http.StatusInternalServerError),
	}
	return s
}

// Routes registers all handlers on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/search/{query}", s.handleSearch)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	if s.reloader != nil {
		r.Post("/catalog/reload", s.handleReload)
	}
}

// searchResponse is the wire shape of a successful search.
type searchResponse struct {
	Query      string             `json:"query"`
	Results    []searchResultItem `json:"results"`
	SearchType string             `json:"search_type"`
	TotalFound int                `json:"total_found"`
}

type searchResultItem struct {
	Score       float64            `json:"score"`
	Opportunity domain.Opportunity `json:"opportunity"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// handleSearch handles GET /search/{query}?limit=&min_results=&threshold=.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	// chi leaves the path segment percent-encoded when the URL carries
	// escapes, so "swim%20lessons" needs unescaping here.
	query := chi.URLParam(r, "query")
	if unescaped, err := url.PathUnescape(query); err == nil {
		query = unescaped
	}

	limit, err := intParam(r, "limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid parameter", err.Error())
		return
	}
	minResults, err := intParam(r, "min_results")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid parameter", err.Error())
		return
	}
	// An absent threshold means the default; an explicit 0 is a valid
	// cutoff and passes through as-is.
	threshold, present, err := floatParam(r, "threshold")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid parameter", err.Error())
		return
	}
	if !present {
		threshold = request.DefaultThreshold
	}

	req, err := request.New(query, limit, minResults, threshold)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	results, searchType, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]searchResultItem, len(results))
	for i := range results {
		items[i] = searchResultItem{
			Score:       results[i].Score(),
			Opportunity: results[i].Opportunity(),
		}
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Query:      req.Query(),
		Results:    items,
		SearchType: string(searchType),
		TotalFound: len(items),
	})
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// handleReload handles POST /catalog/reload.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	loaded, err := s.reloader.Reload(r.Context())
	if err != nil {
		s.logger.Error("catalog reload failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "catalog reload failed", safeDomainMessage(err))
		return
	}

	s.logger.Info("catalog reloaded", zap.Int("records", loaded))
	writeJSON(w, http.StatusOK, map[string]int{"loaded": loaded})
}

func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, errors.New(name + " must be a non-negative integer")
	}
	return v, nil
}

func floatParam(r *http.Request, name string) (float64, bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, errors.New(name + " must be a number")
	}
	return v, true, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, errMsg, details string) {
	writeJSON(w, status, errorResponse{Error: errMsg, Details: details})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrDimensionMismatch,
		domain.ErrCatalogLoad,
		domain.ErrEmbeddingUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

func sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, msg, err.Error())
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error", "")
}
