// Package geocode resolves free-form addresses to coordinates via the Google
// Geocoding API.
package geocode

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/trip-tracker/internal/resilience"
)

// Client geocodes free-form address queries.
type Client interface {
	// Geocode returns every candidate for query in provider order. An empty
	// slice with a nil error means the provider found nothing.
	Geocode(ctx context.Context, query string) ([]Candidate, error)

	// BatchGeocode geocodes queries concurrently. Results are index-aligned
	// with queries and carry their own error.
	BatchGeocode(ctx context.Context, queries []string) []BatchResult
}

// Candidate is one geocoding result.
type Candidate struct {
	FormattedAddress string  `json:"formatted_address"`
	Latitude         float64 `json:"lat"`
	Longitude        float64 `json:"lng"`
	Quality          string  `json:"quality"` // "rooftop", "range", "centroid", "approximate"
	PlaceID          string  `json:"place_id,omitempty"`
}

// BatchResult is the outcome for one query of a batch.
type BatchResult struct {
	Query      string
	Candidates []Candidate
	Err        error
}

// Cache stores encoded candidate lists by key. internal/store implements it.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, payload []byte) error
}

// Option configures the geocoder.
type Option func(*geocoder)

// WithGoogleAPIKey sets the Google Geocoding API key.
func WithGoogleAPIKey(key string) Option {
	return func(g *geocoder) {
		g.googleKey = key
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *geocoder) {
		g.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout. A client passed with
// WithHTTPClient is copied, never modified.
func WithTimeout(d time.Duration) Option {
	return func(g *geocoder) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithRateLimit sets the requests-per-second limit for API calls.
func WithRateLimit(rps float64) Option {
	return func(g *geocoder) {
		if rps > 0 {
			g.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		}
	}
}

// WithRetry sets the retry policy for transient API failures.
func WithRetry(p resilience.Policy) Option {
	return func(g *geocoder) {
		g.retry = p
	}
}

// WithCache enables the response cache.
func WithCache(c Cache) Option {
	return func(g *geocoder) {
		g.cache = c
	}
}

// WithConcurrency bounds the number of in-flight requests of BatchGeocode.
func WithConcurrency(n int) Option {
	return func(g *geocoder) {
		if n > 0 {
			g.concurrency = n
		}
	}
}

type geocoder struct {
	httpClient  *http.Client
	timeout     time.Duration
	googleKey   string
	limiter     *rate.Limiter
	retry       resilience.Policy
	cache       Cache
	concurrency int
}

// NewClient creates a new geocoding Client with the given options.
func NewClient(opts ...Option) Client {
	g := &geocoder{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		limiter:     rate.NewLimiter(10, 10),
		retry:       resilience.NewPolicy(3, 500*time.Millisecond),
		concurrency: 4,
	}
	g.retry.OnRetry = resilience.LogRetries("google", "geocode")
	for _, opt := range opts {
		opt(g)
	}
	if g.timeout > 0 && g.httpClient.Timeout != g.timeout {
		hc := *g.httpClient
		hc.Timeout = g.timeout
		g.httpClient = &hc
	}
	return g
}

// Geocode serves query from the cache when possible and otherwise calls the
// API, retrying transient failures. Cache failures are logged, never fatal.
func (g *geocoder) Geocode(ctx context.Context, query string) ([]Candidate, error) {
	key := cacheKey(query)
	if cands, ok := g.checkCache(ctx, key); ok {
		return cands, nil
	}

	cands, err := resilience.Run(ctx, g.retry, func(ctx context.Context) ([]Candidate, error) {
		return g.geocodeGoogle(ctx, query)
	})
	if err != nil {
		return nil, err
	}

	g.storeCache(ctx, key, cands)
	return cands, nil
}

func (g *geocoder) BatchGeocode(ctx context.Context, queries []string) []BatchResult {
	results := make([]BatchResult, len(queries))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)

	for i, q := range queries {
		eg.Go(func() error {
			cands, err := g.Geocode(egCtx, q)
			results[i] = BatchResult{Query: q, Candidates: cands, Err: err}
			if err != nil {
				zap.L().Warn("geocode: batch item failed", zap.String("query", q), zap.Error(err))
			}
			return nil
		})
	}
	_ = eg.Wait()
	return results
}
