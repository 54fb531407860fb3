package model

// TripMatch is a Home→Work→Home cycle found on one day.
type TripMatch struct {
	Date               Date    `json:"date"`
	WorkAnchorIndex    int     `json:"work_anchor_index"`
	DistanceToWorkKm   float64 `json:"distance_to_work_km"`
	DistanceFromWorkKm float64 `json:"distance_from_work_km"`
	Source             string  `json:"source,omitempty"`
}

// TotalKm is the round-trip distance.
func (t TripMatch) TotalKm() float64 {
	return t.DistanceToWorkKm + t.DistanceFromWorkKm
}

// Report is the detector output: matched trips in date order and their total.
type Report struct {
	Trips   []TripMatch `json:"trips"`
	TotalKm float64     `json:"total_km"`

	Days            int `json:"days"`             // day buckets examined
	SkippedRecords  int `json:"skipped_records"`  // malformed records absorbed
	FilteredRecords int `json:"filtered_records"` // records outside the date range
}

// SumKm recomputes the total from the trips.
func (r *Report) SumKm() float64 {
	var total float64
	for _, t := range r.Trips {
		total += t.TotalKm()
	}
	return total
}
