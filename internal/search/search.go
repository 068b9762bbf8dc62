// Package search implements the pipeline's Searcher against the
// grounded generative-search provider, with client-side rate limiting
// and a circuit breaker in front of the call.
package search

import (
	"context"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadscout/internal/pipeline"
	"github.com/sells-group/leadscout/internal/resilience"
	"github.com/sells-group/leadscout/pkg/grounded"
)

const (
	defaultModel     = "claude-sonnet-4-5-20250929"
	defaultMaxTokens = 8192
)

// Options configures a Client.
type Options struct {
	// APIKey is the upstream credential. An empty key is allowed at
	// construction; Search then fails with KindCredentialMissing
	// before any network activity.
	APIKey string

	// Model is the upstream model identifier.
	Model string

	// MaxTokens bounds the response size.
	MaxTokens int64

	// RatePerSec and Burst configure the client-side limiter. Zero
	// disables limiting.
	RatePerSec float64
	Burst      int

	// Breaker configures the circuit breaker.
	Breaker resilience.CircuitBreakerConfig
}

// Client is a rate-limited, breaker-guarded Searcher.
type Client struct {
	api       grounded.Client
	apiKey    string
	model     string
	maxTokens int64
	limiter   *rate.Limiter
	breaker   *resilience.CircuitBreaker
}

// New creates a Client. The SDK client is only constructed when a
// credential is present.
func New(opts Options) *Client {
	if opts.Model == "" {
		opts.Model = defaultModel
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = defaultMaxTokens
	}

	var limiter *rate.Limiter
	if opts.RatePerSec > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSec), burst)
	}

	if opts.Breaker.ShouldTrip == nil {
		// Only failures the pipeline would retry count toward opening
		// the circuit; a rejected request shape is not an outage.
		opts.Breaker.ShouldTrip = func(err error) bool {
			return pipeline.Classify(err).Kind.Retryable()
		}
	}

	c := &Client{
		apiKey:    opts.APIKey,
		model:     opts.Model,
		maxTokens: opts.MaxTokens,
		limiter:   limiter,
		breaker:   resilience.NewCircuitBreaker(opts.Breaker),
	}
	if opts.APIKey != "" {
		c.api = grounded.NewClient(opts.APIKey)
	}
	return c
}

// Search sends one prompt upstream and returns the raw response text.
// Classification of upstream failures is left to the pipeline boundary;
// the one exception is the missing credential, which is classified here
// because it must surface before any network call.
func (c *Client) Search(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" || c.api == nil {
		return "", pipeline.E(pipeline.KindCredentialMissing, eris.New("search: no API credential configured"))
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", eris.Wrap(err, "search: rate limit wait")
		}
	}

	var text string
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		resp, err := c.api.Generate(ctx, grounded.Request{
			Model:     c.model,
			MaxTokens: c.maxTokens,
			System:    pipeline.SystemPrompt(),
			Prompt:    prompt,
		})
		if err != nil {
			return err
		}
		resp.Usage.LogCost(resp.Model, "lead_search")
		text = resp.Text
		return nil
	})
	if err != nil {
		return "", err
	}

	return text, nil
}
