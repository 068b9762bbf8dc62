// Package normalize maps untrusted candidate records into canonical
// leads. Every output field is either validated or defaulted; nothing
// from the upstream reaches a Lead unsanitized.
package normalize

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/internal/validate"
)

// placeholderPhone is a classic fabricated number the digit-range check
// alone would accept.
const placeholderPhone = "1234567890"

// Options configures a Normalizer. Zero values fall back to the
// package defaults in validate.
type Options struct {
	// GeneralMinLen is the minimum length for general fields (owner,
	// maps URL). Default validate.GeneralMinLen.
	GeneralMinLen int

	// ContactMinLen is the minimum length for contact fields (phone,
	// email, website). Default validate.ContactMinLen.
	ContactMinLen int

	// Source overrides the provenance tag. Default
	// model.SourceGroundedSearch.
	Source string
}

// Normalizer converts raw candidates into Leads.
type Normalizer struct {
	opts Options
}

// New creates a Normalizer, applying defaults for unset options.
func New(opts Options) *Normalizer {
	if opts.GeneralMinLen <= 0 {
		opts.GeneralMinLen = validate.GeneralMinLen
	}
	if opts.ContactMinLen <= 0 {
		opts.ContactMinLen = validate.ContactMinLen
	}
	if opts.Source == "" {
		opts.Source = model.SourceGroundedSearch
	}
	return &Normalizer{opts: opts}
}

// Normalize maps candidates to Leads in input order. Output length
// always equals input length: an unusable candidate becomes a lead with
// placeholder name/address rather than being dropped. IDs combine the
// batch timestamp with the candidate index, so they are unique within a
// batch. DistanceKm is left unresolved for downstream annotation.
func (n *Normalizer) Normalize(candidates []model.RawCandidate, batch time.Time) []model.Lead {
	leads := make([]model.Lead, 0, len(candidates))
	for i, c := range candidates {
		leads = append(leads, n.normalizeOne(c, batch, i))
	}
	return leads
}

func (n *Normalizer) normalizeOne(c model.RawCandidate, batch time.Time, index int) model.Lead {
	name := strings.TrimSpace(c.Str("name"))
	if !validate.IsValid(name, n.opts.GeneralMinLen) {
		name = model.PlaceholderName
	}
	address := strings.TrimSpace(c.Str("address"))
	if !validate.IsValid(address, n.opts.GeneralMinLen) {
		address = model.PlaceholderAddress
	}

	lat, latOK := c.Float("lat")
	lng, lngOK := c.Float("lng")
	if !latOK || !lngOK {
		// 0,0 is the documented "unknown location" sentinel.
		lat, lng = 0, 0
	}

	lead := model.Lead{
		ID:          fmt.Sprintf("lead-%d-%d", batch.UnixMilli(), index),
		Name:        name,
		Address:     address,
		Phone:       n.phone(c),
		Email:       n.email(c),
		Website:     n.contactField(c, "website"),
		Owner:       n.generalField(c, "owner"),
		Lat:         lat,
		Lng:         lng,
		Rating:      rating(c),
		ReviewCount: reviewCount(c),
		Source:      n.opts.Source,
		MapsURL:     n.mapsURL(c, name, address),
		LastUpdated: batch,
	}

	return lead
}

func (n *Normalizer) phone(c model.RawCandidate) *string {
	raw := strings.TrimSpace(c.Str("phone"))
	if !validate.IsPhoneValid(raw, n.opts.ContactMinLen) {
		return nil
	}
	// The digit-range check accepts ascending placeholder sequences.
	digits := strings.Map(keepDigit, raw)
	if digits == placeholderPhone {
		zap.L().Debug("normalize: rejected placeholder phone", zap.String("value", raw))
		return nil
	}
	return &raw
}

func (n *Normalizer) email(c model.RawCandidate) *string {
	raw := strings.TrimSpace(c.Str("email"))
	if !validate.IsContactValid(raw, n.opts.ContactMinLen) {
		return nil
	}
	lower := strings.ToLower(raw)
	if !strings.Contains(lower, "@") || strings.Contains(lower, "example") {
		return nil
	}
	return &raw
}

func (n *Normalizer) contactField(c model.RawCandidate, key string) *string {
	raw := strings.TrimSpace(c.Str(key))
	if !validate.IsContactValid(raw, n.opts.ContactMinLen) {
		return nil
	}
	return &raw
}

func (n *Normalizer) generalField(c model.RawCandidate, key string) *string {
	raw := strings.TrimSpace(c.Str(key))
	if !validate.IsValid(raw, n.opts.GeneralMinLen) {
		return nil
	}
	return &raw
}

// mapsURL uses the upstream-supplied link when it looks real, otherwise
// derives a deterministic search link from name and address.
func (n *Normalizer) mapsURL(c model.RawCandidate, name, address string) string {
	raw := strings.TrimSpace(c.Str("mapsUrl"))
	if validate.IsValid(raw, n.opts.ContactMinLen) && strings.HasPrefix(strings.ToLower(raw), "http") {
		return raw
	}
	q := url.QueryEscape(name + " " + address)
	return "https://www.google.com/maps/search/?api=1&query=" + q
}

func rating(c model.RawCandidate) *float64 {
	v, ok := c.Float("rating")
	if !ok || v < 0 || v > 5 {
		return nil
	}
	return &v
}

func reviewCount(c model.RawCandidate) *int {
	v, ok := c.Int("reviewCount")
	if !ok || v < 0 {
		return nil
	}
	return &v
}

func keepDigit(r rune) rune {
	if r >= '0' && r <= '9' {
		return r
	}
	return -1
}
