package analytics

import "time"

type EventType string

const (
	EventSearch       EventType = "search"
	EventCacheHit     EventType = "cache_hit"
	EventCacheMiss    EventType = "cache_miss"
	EventZeroResult   EventType = "zero_result"
	EventInvalidQuery EventType = "invalid_query"
)

// QueryEvent describes one evaluated query for downstream analysis. Events
// are observational only; nothing in the service consumes them back.
type QueryEvent struct {
	Type      EventType `json:"type"`
	Query     string    `json:"query"`
	Route     string    `json:"route"`
	TotalHits int       `json:"total_hits"`
	LatencyMs int64     `json:"latency_ms"`
	CacheHit  bool      `json:"cache_hit"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
}
