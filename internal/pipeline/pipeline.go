// Package pipeline orchestrates lead acquisition: query validation,
// deterministic prompt construction, the retried upstream call,
// extraction, normalization, and distance annotation.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadscout/internal/extract"
	"github.com/sells-group/leadscout/internal/geomath"
	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/internal/normalize"
	"github.com/sells-group/leadscout/internal/resilience"
)

// defaultMaxLeads caps how many leads one search requests upstream.
const defaultMaxLeads = 30

// Searcher is the upstream grounded-search collaborator: prompt in,
// free-form text out.
type Searcher interface {
	Search(ctx context.Context, prompt string) (string, error)
}

// Pipeline turns a SearchQuery into a normalized lead batch.
type Pipeline struct {
	searcher   Searcher
	normalizer *normalize.Normalizer
	retry      resilience.RetryConfig
	maxLeads   int
	nowFunc    func() time.Time
}

// Options configures a Pipeline.
type Options struct {
	// Retry controls backoff for the upstream call. ShouldRetry is
	// overridden with the taxonomy classifier.
	Retry resilience.RetryConfig

	// MaxLeads caps the requested batch size. Default 30.
	MaxLeads int
}

// New creates a Pipeline around the given collaborators.
func New(searcher Searcher, normalizer *normalize.Normalizer, opts Options) *Pipeline {
	retry := opts.Retry
	retry.ShouldRetry = func(err error) bool {
		return Classify(err).Kind.Retryable()
	}
	if retry.OnRetry == nil {
		retry.OnRetry = resilience.RetryLogger("grounded search")
	}

	maxLeads := opts.MaxLeads
	if maxLeads <= 0 {
		maxLeads = defaultMaxLeads
	}

	return &Pipeline{
		searcher:   searcher,
		normalizer: normalizer,
		retry:      retry,
		maxLeads:   maxLeads,
		nowFunc:    time.Now,
	}
}

// FindOptions carries per-invocation settings.
type FindOptions struct {
	// Reference, when set, enables distance annotation for every lead
	// with real coordinates.
	Reference *geomath.Point

	// Generation tags the result so the consumer can discard it if a
	// newer search superseded this one.
	Generation Generation
}

// Result is a completed search batch. Zero leads with a nil error is a
// legitimate terminal state, distinct from every failure kind.
type Result struct {
	Generation Generation
	Query      model.SearchQuery
	Leads      []model.Lead
	Elapsed    time.Duration
}

// FindLeads runs one acquisition. Failures are always *Error values
// carrying a taxonomy Kind; the raw upstream error never crosses this
// boundary unwrapped.
func (p *Pipeline) FindLeads(ctx context.Context, query model.SearchQuery, opts FindOptions) (*Result, error) {
	start := p.nowFunc()

	if err := ValidateQuery(query); err != nil {
		return nil, err
	}

	prompt := BuildPrompt(query, p.maxLeads)

	raw, err := resilience.Do(ctx, p.retry, func(ctx context.Context) (string, error) {
		return p.searcher.Search(ctx, prompt)
	})
	if err != nil {
		classified := Classify(err)
		zap.L().Warn("pipeline: upstream search failed",
			zap.String("city", query.City),
			zap.String("kind", classified.Kind.String()),
			zap.Error(err),
		)
		return nil, classified
	}

	candidates, err := extract.Candidates(raw)
	if err != nil {
		return nil, Classify(err)
	}

	batch := p.nowFunc().UTC()
	leads := p.normalizer.Normalize(candidates, batch)

	if opts.Reference != nil {
		annotateDistances(leads, *opts.Reference)
	}

	elapsed := p.nowFunc().Sub(start)
	zap.L().Info("pipeline: search complete",
		zap.String("city", query.City),
		zap.Strings("categories", query.Categories),
		zap.Int("leads", len(leads)),
		zap.Duration("elapsed", elapsed),
	)

	return &Result{
		Generation: opts.Generation,
		Query:      query,
		Leads:      leads,
		Elapsed:    elapsed,
	}, nil
}

// ValidateQuery fails fast with KindInvalidQuery before any upstream
// work: non-empty city, at least one non-empty category, radius within
// bounds.
func ValidateQuery(query model.SearchQuery) error {
	if strings.TrimSpace(query.City) == "" {
		return E(KindInvalidQuery, eris.New("city must not be empty"))
	}

	hasCategory := false
	for _, c := range query.Categories {
		if strings.TrimSpace(c) != "" {
			hasCategory = true
			break
		}
	}
	if !hasCategory {
		return E(KindInvalidQuery, eris.New("at least one category is required"))
	}

	if query.RadiusKm < model.MinRadiusKm || query.RadiusKm > model.MaxRadiusKm {
		return E(KindInvalidQuery, eris.Errorf("radius must be between %d and %d km", model.MinRadiusKm, model.MaxRadiusKm))
	}

	return nil
}

// annotateDistances back-fills DistanceKm for leads with real
// coordinates. Leads at the 0,0 sentinel stay unresolved.
func annotateDistances(leads []model.Lead, ref geomath.Point) {
	for i := range leads {
		if !leads[i].HasLocation() {
			continue
		}
		d := geomath.DistanceKm(ref.Lat, ref.Lng, leads[i].Lat, leads[i].Lng)
		leads[i].DistanceKm = &d
	}
}
