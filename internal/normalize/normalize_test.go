package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscout/internal/model"
)

var batchTime = time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

func normalizeOne(t *testing.T, c model.RawCandidate) model.Lead {
	t.Helper()
	leads := New(Options{}).Normalize([]model.RawCandidate{c}, batchTime)
	require.Len(t, leads, 1)
	return leads[0]
}

func TestNormalize_CountContract(t *testing.T) {
	cands := []model.RawCandidate{
		{"name": "A", "address": "1 Main St", "lat": 18.5, "lng": 73.8},
		{"name": "B"},
		{}, // entirely unusable, still becomes a lead
	}

	leads := New(Options{}).Normalize(cands, batchTime)
	require.Len(t, leads, 3)

	assert.Equal(t, model.PlaceholderName, leads[2].Name)
	assert.Equal(t, model.PlaceholderAddress, leads[2].Address)
}

func TestNormalize_UniqueIDs(t *testing.T) {
	cands := make([]model.RawCandidate, 10)
	for i := range cands {
		cands[i] = model.RawCandidate{"name": "Biz"}
	}

	leads := New(Options{}).Normalize(cands, batchTime)

	seen := make(map[string]bool)
	for _, l := range leads {
		assert.False(t, seen[l.ID], "duplicate id %s", l.ID)
		seen[l.ID] = true
	}
}

func TestNormalize_PlaceholderPhoneRejected(t *testing.T) {
	lead := normalizeOne(t, model.RawCandidate{"name": "A", "phone": "1234567890"})
	assert.Nil(t, lead.Phone)
}

func TestNormalize_RepeatedDigitPhoneRejected(t *testing.T) {
	lead := normalizeOne(t, model.RawCandidate{"name": "A", "phone": "0000000000"})
	assert.Nil(t, lead.Phone)
}

func TestNormalize_ValidPhoneKept(t *testing.T) {
	lead := normalizeOne(t, model.RawCandidate{"name": "A", "phone": "+91 98222 12345"})
	require.NotNil(t, lead.Phone)
	assert.Equal(t, "+91 98222 12345", *lead.Phone)
}

func TestNormalize_Email(t *testing.T) {
	cases := map[string]bool{
		"owner@bakery.in":     true,
		"contact@example.com": false, // placeholder domain
		"not-an-email":        false, // no @
		"N/A":                 false,
	}
	for raw, want := range cases {
		lead := normalizeOne(t, model.RawCandidate{"name": "A", "email": raw})
		if want {
			require.NotNil(t, lead.Email, "expected %q to survive", raw)
			assert.Equal(t, raw, *lead.Email)
		} else {
			assert.Nil(t, lead.Email, "expected %q to be rejected", raw)
		}
	}
}

func TestNormalize_WebsiteAndOwner(t *testing.T) {
	lead := normalizeOne(t, model.RawCandidate{
		"name":    "A",
		"website": "https://bakery.in",
		"owner":   "Asha",
	})
	require.NotNil(t, lead.Website)
	assert.Equal(t, "https://bakery.in", *lead.Website)
	require.NotNil(t, lead.Owner)
	assert.Equal(t, "Asha", *lead.Owner)

	noisy := normalizeOne(t, model.RawCandidate{
		"name":    "A",
		"website": "hidden",
		"owner":   "n/a",
	})
	assert.Nil(t, noisy.Website)
	assert.Nil(t, noisy.Owner)
}

func TestNormalize_CoordinateCoercion(t *testing.T) {
	quoted := normalizeOne(t, model.RawCandidate{"name": "A", "lat": "18.52", "lng": "73.85"})
	assert.InDelta(t, 18.52, quoted.Lat, 0.001)
	assert.InDelta(t, 73.85, quoted.Lng, 0.001)
	assert.True(t, quoted.HasLocation())

	missing := normalizeOne(t, model.RawCandidate{"name": "A"})
	assert.Zero(t, missing.Lat)
	assert.Zero(t, missing.Lng)
	assert.False(t, missing.HasLocation())

	garbage := normalizeOne(t, model.RawCandidate{"name": "A", "lat": "north", "lng": 73.85})
	assert.Zero(t, garbage.Lat)
	assert.Zero(t, garbage.Lng)
}

func TestNormalize_RatingAndReviews(t *testing.T) {
	lead := normalizeOne(t, model.RawCandidate{"name": "A", "rating": 4.5, "reviewCount": float64(120)})
	require.NotNil(t, lead.Rating)
	assert.InDelta(t, 4.5, *lead.Rating, 0.001)
	require.NotNil(t, lead.ReviewCount)
	assert.Equal(t, 120, *lead.ReviewCount)

	bad := normalizeOne(t, model.RawCandidate{"name": "A", "rating": 7.2, "reviewCount": -3})
	assert.Nil(t, bad.Rating)
	assert.Nil(t, bad.ReviewCount)
}

func TestNormalize_MapsURL(t *testing.T) {
	supplied := normalizeOne(t, model.RawCandidate{
		"name":    "A",
		"mapsUrl": "https://maps.google.com/?cid=123",
	})
	assert.Equal(t, "https://maps.google.com/?cid=123", supplied.MapsURL)

	derived := normalizeOne(t, model.RawCandidate{"name": "Chai Point", "address": "FC Road"})
	assert.Contains(t, derived.MapsURL, "https://www.google.com/maps/search/?api=1&query=")
	assert.Contains(t, derived.MapsURL, "Chai+Point")

	// Derivation is deterministic.
	again := normalizeOne(t, model.RawCandidate{"name": "Chai Point", "address": "FC Road"})
	assert.Equal(t, derived.MapsURL, again.MapsURL)
}

func TestNormalize_ProvenanceAndTimestamps(t *testing.T) {
	lead := normalizeOne(t, model.RawCandidate{"name": "A"})
	assert.Equal(t, model.SourceGroundedSearch, lead.Source)
	assert.Equal(t, batchTime, lead.LastUpdated)
	assert.Nil(t, lead.DistanceKm, "distance stays unresolved until annotation")
}
