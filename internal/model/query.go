package model

import "time"

// Radius bounds accepted for a search query, in kilometers.
const (
	MinRadiusKm = 5
	MaxRadiusKm = 100
)

// SearchQuery describes one lead search. Immutable once submitted to the
// pipeline; category order is preserved so prompt construction stays
// deterministic for a given query.
type SearchQuery struct {
	City       string   `json:"city"`
	Categories []string `json:"categories"`
	RadiusKm   float64  `json:"radius_km"`
}

// SearchRun is the persisted record of one pipeline invocation. Only
// metadata is stored; leads never outlive the session.
type SearchRun struct {
	ID         string    `json:"id"`
	City       string    `json:"city"`
	Categories []string  `json:"categories"`
	RadiusKm   float64   `json:"radius_km"`
	LeadCount  int       `json:"lead_count"`
	ErrorKind  string    `json:"error_kind,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}
