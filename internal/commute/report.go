package commute

import "github.com/sells-group/trip-tracker/internal/model"

// Aggregator collects trip matches in the order they are accumulated.
type Aggregator struct {
	trips []model.TripMatch
}

// Accumulate appends a trip.
func (a *Aggregator) Accumulate(t model.TripMatch) {
	a.trips = append(a.trips, t)
}

// Len returns the number of accumulated trips.
func (a *Aggregator) Len() int { return len(a.trips) }

// Finalize builds the report. TotalKm is always derived from the trips.
func (a *Aggregator) Finalize() *model.Report {
	r := &model.Report{Trips: make([]model.TripMatch, len(a.trips))}
	copy(r.Trips, a.trips)
	r.TotalKm = r.SumKm()
	return r
}
