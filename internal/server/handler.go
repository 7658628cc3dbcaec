// Package server exposes the query engine over HTTP: one search endpoint and
// the read-only postings projection the original interface displayed
// alongside results.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/exactmatch-ir/exactmatch/internal/analytics"
	"github.com/exactmatch-ir/exactmatch/internal/search"
	"github.com/exactmatch-ir/exactmatch/internal/search/cache"
	pkgerrors "github.com/exactmatch-ir/exactmatch/pkg/errors"
	"github.com/exactmatch-ir/exactmatch/pkg/logger"
	"github.com/exactmatch-ir/exactmatch/pkg/metrics"
	"github.com/exactmatch-ir/exactmatch/pkg/middleware"
)

// SearchEngine is the slice of the engine the handler needs.
type SearchEngine interface {
	Search(query string) (*search.Result, error)
	Postings(rawTerm string) search.TermPostings
}

type Handler struct {
	engine    SearchEngine
	cache     *cache.QueryCache
	collector *analytics.Collector
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// New builds a Handler. Cache, collector, and metrics may each be nil when
// the corresponding subsystem is disabled.
func New(engine SearchEngine, queryCache *cache.QueryCache, collector *analytics.Collector, m *metrics.Metrics) *Handler {
	return &Handler{
		engine:    engine,
		cache:     queryCache,
		collector: collector,
		metrics:   m,
		logger:    slog.Default().With("component", "search-handler"),
	}
}

// Search evaluates the q parameter and returns the matching document IDs.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	query := r.URL.Query().Get("q")
	if query == "" {
		h.writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}
	route := search.RouteFor(query)

	var result *search.Result
	var err error
	cacheHit := false

	if h.cache != nil {
		result, cacheHit, err = h.cache.GetOrCompute(ctx, query, func() (*search.Result, error) {
			return h.engine.Search(query)
		})
	} else {
		result, err = h.engine.Search(query)
	}

	latency := time.Since(start)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrInvalidQuery) {
			log.Info("rejected malformed query", "query", query, "error", err)
			h.observeQuery(route, "invalid", latency, cacheHit)
			h.track(ctx, analytics.EventInvalidQuery, query, route, 0, latency, cacheHit)
			h.writeError(w, pkgerrors.HTTPStatusCode(err), err.Error())
			return
		}
		log.Error("search execution failed", "query", query, "error", err)
		h.writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	outcome := "ok"
	eventType := analytics.EventSearch
	if result.Total == 0 {
		outcome = "zero_result"
		eventType = analytics.EventZeroResult
	}
	h.observeQuery(route, outcome, latency, cacheHit)
	h.track(ctx, eventType, query, route, result.Total, latency, cacheHit)

	log.Info("search completed",
		"query", query,
		"route", route,
		"total_hits", result.Total,
		"cache_hit", cacheHit,
		"latency_ms", latency.Milliseconds(),
	)
	h.writeJSON(w, http.StatusOK, result)
}

// Postings returns the posting-list projection for a single raw term.
func (h *Handler) Postings(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("term")
	if term == "" {
		h.writeError(w, http.StatusBadRequest, "query parameter 'term' is required")
		return
	}
	h.writeJSON(w, http.StatusOK, h.engine.Postings(term))
}

// CacheStats reports hit/miss counts for the query cache.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeError(w, http.StatusNotFound, "cache not configured")
		return
	}
	hits, misses := h.cache.Stats()
	h.writeJSON(w, http.StatusOK, map[string]int64{
		"hits":   hits,
		"misses": misses,
	})
}

// CacheInvalidate drops all cached query results.
func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeError(w, http.StatusNotFound, "cache not configured")
		return
	}
	if err := h.cache.Invalidate(r.Context()); err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "cache invalidation failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (h *Handler) observeQuery(route search.Route, outcome string, latency time.Duration, cacheHit bool) {
	if h.metrics == nil {
		return
	}
	h.metrics.QueriesTotal.WithLabelValues(string(route), outcome).Inc()
	cacheStatus := "miss"
	if cacheHit {
		cacheStatus = "hit"
		h.metrics.CacheHitsTotal.Inc()
	} else if h.cache != nil {
		h.metrics.CacheMissesTotal.Inc()
	}
	h.metrics.QueryLatency.WithLabelValues(string(route), cacheStatus).Observe(latency.Seconds())
}

func (h *Handler) track(ctx context.Context, eventType analytics.EventType, query string, route search.Route, totalHits int, latency time.Duration, cacheHit bool) {
	if h.metrics != nil {
		h.metrics.QueryResultsCount.Observe(float64(totalHits))
	}
	if h.collector == nil {
		return
	}
	h.collector.Track(analytics.QueryEvent{
		Type:      eventType,
		Query:     query,
		Route:     string(route),
		TotalHits: totalHits,
		LatencyMs: latency.Milliseconds(),
		CacheHit:  cacheHit,
		Timestamp: time.Now().UTC(),
		RequestID: middleware.GetRequestID(ctx),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
