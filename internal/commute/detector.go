// Package commute detects Home→Work→Home commute days in a location history.
//
// The detector runs four pure stages over an in-memory record stream:
// proximity classification, UTC day grouping, per-day pattern matching and
// report aggregation.
package commute

import (
	"context"
	"math"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/trip-tracker/internal/geo"
	"github.com/sells-group/trip-tracker/internal/model"
)

// DefaultArrivalTolerance is the maximum gap between a segment's end and the
// visit that completes it.
const DefaultArrivalTolerance = 10 * time.Minute

// Config controls the detector.
type Config struct {
	RadiusMeters float64

	// Start and End are inclusive UTC dates. A zero value leaves that side open.
	Start model.Date
	End   model.Date

	ArrivalTolerance time.Duration

	// Workers bounds how many day buckets are matched concurrently.
	Workers int
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		RadiusMeters:     geo.DefaultRadiusMeters,
		ArrivalTolerance: DefaultArrivalTolerance,
		Workers:          1,
	}
}

// Validate reports configuration errors wrapped around ErrInvalidConfiguration.
func (c Config) Validate() error {
	if math.IsNaN(c.RadiusMeters) || c.RadiusMeters <= 0 {
		return eris.Wrapf(ErrInvalidConfiguration, "radius must be positive, got %v", c.RadiusMeters)
	}
	if !c.Start.IsZero() && !c.End.IsZero() && c.End.Before(c.Start) {
		return eris.Wrapf(ErrInvalidConfiguration, "end date %s is before start date %s", c.End, c.Start)
	}
	if c.ArrivalTolerance < 0 {
		return eris.Wrapf(ErrInvalidConfiguration, "arrival tolerance must not be negative, got %s", c.ArrivalTolerance)
	}
	return nil
}

// InRange reports whether d falls inside the configured date bounds.
func (c Config) InRange(d model.Date) bool {
	if !c.Start.IsZero() && d.Before(c.Start) {
		return false
	}
	if !c.End.IsZero() && d.After(c.End) {
		return false
	}
	return true
}

// Detector turns a record stream into a commute report.
type Detector struct {
	anchors model.AnchorSet
	cfg     Config
	matcher Matcher
	log     *zap.Logger
}

// Option configures a Detector.
type Option func(*Detector)

// WithLogger sets the logger used for per-day diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(d *Detector) {
		d.log = l
	}
}

// NewDetector validates the configuration and anchors and returns a Detector.
func NewDetector(anchors model.AnchorSet, cfg Config, opts ...Option) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(anchors.Work) == 0 {
		return nil, eris.Wrap(ErrInvalidConfiguration, "at least one work anchor is required")
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	d := &Detector{
		anchors: anchors,
		cfg:     cfg,
		matcher: Matcher{ArrivalTolerance: cfg.ArrivalTolerance},
		log:     zap.L().With(zap.String("component", "commute.detector")),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Run processes records in stream order and returns the finalized report.
func (d *Detector) Run(ctx context.Context, records []model.TimelineRecord) (*model.Report, error) {
	var skipped, filtered int
	kept := make([]model.TimelineRecord, 0, len(records))
	for _, r := range records {
		if !r.Usable() {
			skipped++
			d.log.Debug("skipping malformed record",
				zap.Time("timestamp", r.Timestamp),
				zap.String("kind", string(r.Kind)),
			)
			continue
		}
		if !d.cfg.InRange(model.DateOf(r.Timestamp)) {
			filtered++
			continue
		}
		kept = append(kept, r)
	}

	buckets := Group(ClassifyAll(kept, d.anchors, d.cfg.RadiusMeters))
	SortByDate(buckets)

	matches, err := d.matchAll(ctx, buckets)
	if err != nil {
		return nil, err
	}

	var agg Aggregator
	for i, b := range buckets {
		m := matches[i]
		if !m.ok {
			continue
		}
		d.log.Debug("commute day matched",
			zap.String("date", b.Date.String()),
			zap.Int("work_index", m.trip.WorkAnchorIndex),
			zap.Float64("to_work_km", m.trip.DistanceToWorkKm),
			zap.Float64("from_work_km", m.trip.DistanceFromWorkKm),
		)
		agg.Accumulate(m.trip)
	}

	report := agg.Finalize()
	report.Days = len(buckets)
	report.SkippedRecords = skipped
	report.FilteredRecords = filtered

	d.log.Info("commute detection complete",
		zap.Int("records", len(records)),
		zap.Int("skipped", skipped),
		zap.Int("filtered", filtered),
		zap.Int("days", report.Days),
		zap.Int("trips", len(report.Trips)),
		zap.Float64("total_km", report.TotalKm),
	)
	return report, nil
}

type dayMatch struct {
	trip model.TripMatch
	ok   bool
}

// matchAll matches every bucket, concurrently when Workers > 1. Results are
// indexed like buckets so output order does not depend on scheduling.
func (d *Detector) matchAll(ctx context.Context, buckets []model.DayBucket) ([]dayMatch, error) {
	results := make([]dayMatch, len(buckets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.cfg.Workers)
	for i := range buckets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			trip, ok := d.matcher.Match(buckets[i])
			results[i] = dayMatch{trip: trip, ok: ok}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "commute: match days")
	}
	return results, nil
}
