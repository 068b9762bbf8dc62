package model

import (
	"time"
)

// SourceGroundedSearch tags leads produced by the grounded-search pipeline.
const SourceGroundedSearch = "grounded-search"

// Placeholder values substituted when the upstream omits a required field.
// Records are never dropped for missing name/address; the count contract
// between "leads requested" and "leads shown" must hold.
const (
	PlaceholderName    = "Unknown business"
	PlaceholderAddress = "Address not available"
)

// Lead is a normalized business record with provenance and validated
// contact fields. Contact pointers are either nil or a value that passed
// validation; they are never empty strings and never raw upstream values.
type Lead struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Phone       *string   `json:"phone"`
	Email       *string   `json:"email"`
	Website     *string   `json:"website"`
	Owner       *string   `json:"owner"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	DistanceKm  *float64  `json:"distance_km"`
	Rating      *float64  `json:"rating"`
	ReviewCount *int      `json:"review_count"`
	Source      string    `json:"source"`
	MapsURL     string    `json:"maps_url"`
	LastUpdated time.Time `json:"last_updated"`
}

// HasLocation reports whether the lead carries real coordinates. The wire
// format keeps 0,0 as the "unknown" sentinel for compatibility with the
// upstream payload shape; this method is the explicit marker callers
// should use instead of comparing raw zeros.
func (l Lead) HasLocation() bool {
	return l.Lat != 0 || l.Lng != 0
}
