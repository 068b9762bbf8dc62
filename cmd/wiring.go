package main

import (
	"context"
	"time"

	"github.com/sells-group/leadscout/internal/config"
	"github.com/sells-group/leadscout/internal/normalize"
	"github.com/sells-group/leadscout/internal/pipeline"
	"github.com/sells-group/leadscout/internal/resilience"
	"github.com/sells-group/leadscout/internal/search"
	"github.com/sells-group/leadscout/internal/store"
)

// newPipeline wires the search client, normalizer, and retry policy
// from config.
func newPipeline(c *config.Config) *pipeline.Pipeline {
	searcher := search.New(search.Options{
		APIKey:     c.Anthropic.Key,
		Model:      c.Anthropic.Model,
		MaxTokens:  c.Anthropic.MaxTokens,
		RatePerSec: c.Search.RatePerSec,
		Burst:      c.Search.Burst,
		Breaker: resilience.CircuitBreakerConfig{
			FailureThreshold: c.Breaker.FailureThreshold,
			ResetTimeout:     time.Duration(c.Breaker.ResetTimeoutSecs) * time.Second,
		},
	})

	normalizer := normalize.New(normalize.Options{
		GeneralMinLen: c.Validate.GeneralMinLen,
		ContactMinLen: c.Validate.ContactMinLen,
	})

	return pipeline.New(searcher, normalizer, pipeline.Options{
		Retry:    retryConfig(c.Retry),
		MaxLeads: c.Search.MaxLeads,
	})
}

func retryConfig(c config.RetryConfig) resilience.RetryConfig {
	cfg := resilience.DefaultRetryConfig()
	if c.MaxAttempts > 0 {
		cfg.MaxAttempts = c.MaxAttempts
	}
	if c.InitialBackoffMs > 0 {
		cfg.InitialBackoff = time.Duration(c.InitialBackoffMs) * time.Millisecond
	}
	if c.MaxBackoffMs > 0 {
		cfg.MaxBackoff = time.Duration(c.MaxBackoffMs) * time.Millisecond
	}
	if c.Multiplier > 0 {
		cfg.Multiplier = c.Multiplier
	}
	if c.JitterFraction >= 0 {
		cfg.JitterFraction = c.JitterFraction
	}
	return cfg
}

// openRunLog opens and migrates the search-run log.
func openRunLog(ctx context.Context, c *config.Config) (*store.RunLog, error) {
	log, err := store.Open(c.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := log.Migrate(ctx); err != nil {
		log.Close()
		return nil, err
	}
	return log, nil
}
