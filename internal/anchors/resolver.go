package anchors

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/trip-tracker/internal/model"
	"github.com/sells-group/trip-tracker/pkg/geocode"
)

var (
	// ErrHomeUnresolved is returned when the home address yields no location.
	ErrHomeUnresolved = eris.New("anchors: home address could not be resolved")
	// ErrNoWorkAnchors is returned when no work location is left to compare against.
	ErrNoWorkAnchors = eris.New("anchors: no work locations")
	// ErrNoGeocoder is returned when an address needs geocoding but no client is set.
	ErrNoGeocoder = eris.New("anchors: geocoding client not configured")
)

// Resolver turns anchor entries into anchor points. The first geocoding
// candidate always wins; the rest are only logged.
type Resolver struct {
	client geocode.Client
	log    *zap.Logger
}

// NewResolver creates a Resolver. client may be nil when every entry carries
// coordinates.
func NewResolver(client geocode.Client) *Resolver {
	return &Resolver{client: client, log: zap.L().With(zap.String("component", "anchors.resolver"))}
}

// Resolve resolves home and work. A home that cannot be resolved is fatal;
// a work entry that cannot be resolved is logged and skipped, keeping the
// order of the others.
func (r *Resolver) Resolve(ctx context.Context, home Entry, work []Entry) (*model.AnchorSet, error) {
	entries := append([]Entry{home}, work...)

	var queries []string
	queryIdx := make(map[int]int)
	for i, e := range entries {
		if _, ok := e.Resolved(); ok {
			continue
		}
		queryIdx[i] = len(queries)
		queries = append(queries, e.Address)
	}

	var results []geocode.BatchResult
	if len(queries) > 0 {
		if r.client == nil {
			return nil, ErrNoGeocoder
		}
		results = r.client.BatchGeocode(ctx, queries)
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "anchors: resolve")
		}
	}

	resolve := func(i int) (model.AnchorPoint, error) {
		if p, ok := entries[i].Resolved(); ok {
			return p, nil
		}
		res := results[queryIdx[i]]
		if res.Err != nil {
			return model.AnchorPoint{}, res.Err
		}
		return r.pick(entries[i], res.Candidates)
	}

	set := &model.AnchorSet{}
	h, err := resolve(0)
	if err != nil {
		return nil, eris.Wrapf(ErrHomeUnresolved, "%q: %v", home.Address, err)
	}
	set.Home = h
	r.log.Info("home resolved", zap.String("query", h.Query), zap.String("label", h.Label),
		zap.Float64("lat", h.Latitude), zap.Float64("lng", h.Longitude))

	for i := range work {
		p, err := resolve(i + 1)
		if err != nil {
			r.log.Warn("skipping work location", zap.String("query", work[i].Address), zap.Error(err))
			continue
		}
		r.log.Info("work resolved", zap.Int("index", len(set.Work)), zap.String("query", p.Query),
			zap.String("label", p.Label), zap.Float64("lat", p.Latitude), zap.Float64("lng", p.Longitude))
		set.Work = append(set.Work, p)
	}
	if len(set.Work) == 0 {
		return nil, ErrNoWorkAnchors
	}
	return set, nil
}

func (r *Resolver) pick(e Entry, cands []geocode.Candidate) (model.AnchorPoint, error) {
	if len(cands) == 0 {
		return model.AnchorPoint{}, eris.Errorf("anchors: no geocoding results for %q", e.Address)
	}
	for i, c := range cands {
		r.log.Debug("geocoding candidate",
			zap.String("query", e.Address),
			zap.Int("rank", i),
			zap.Bool("selected", i == 0),
			zap.String("address", c.FormattedAddress),
			zap.String("quality", c.Quality),
		)
	}
	first := cands[0]
	label := first.FormattedAddress
	if e.Label != "" {
		label = e.Label
	}
	return model.AnchorPoint{
		Label:     label,
		Query:     e.Address,
		Latitude:  first.Latitude,
		Longitude: first.Longitude,
	}, nil
}
