package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/trip-tracker/internal/config"
	"github.com/sells-group/trip-tracker/internal/resilience"
	"github.com/sells-group/trip-tracker/internal/store"
	"github.com/sells-group/trip-tracker/pkg/geocode"
)

// initCache opens the geocode cache named by the config. A cache that cannot
// be opened is logged and skipped; geocoding still works without it.
func initCache(ctx context.Context, c config.CacheConfig) store.Store {
	st, err := store.Open(ctx, store.Config{
		Driver:      c.Driver,
		Path:        c.Path,
		DatabaseURL: c.DatabaseURL,
		TTLDays:     c.TTLDays,
	})
	if err != nil {
		zap.L().Warn("geocode cache unavailable, continuing without it",
			zap.String("driver", c.Driver), zap.Error(err))
		return nil
	}
	return st
}

// initGeocoder builds the geocoding client. apiKey overrides the configured key.
func initGeocoder(c config.GeocodeConfig, apiKey string, cache store.Store) geocode.Client {
	if apiKey == "" {
		apiKey = c.GoogleAPIKey
	}
	policy := resilience.NewPolicy(c.RetryAttempts, 500*time.Millisecond)
	policy.OnRetry = resilience.LogRetries("google", "geocode")

	opts := []geocode.Option{
		geocode.WithGoogleAPIKey(apiKey),
		geocode.WithTimeout(c.Timeout()),
		geocode.WithRateLimit(c.RateLimit),
		geocode.WithRetry(policy),
	}
	if cache != nil {
		opts = append(opts, geocode.WithCache(cache))
	}
	return geocode.NewClient(opts...)
}
