package model

import "fmt"

// Coordinate is a WGS84 latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.7f, %.7f", c.Lat, c.Lng)
}

// AnchorPoint is a resolved Home or Work location.
type AnchorPoint struct {
	Label     string  `json:"label"` // canonical (geocoded) address
	Query     string  `json:"query"` // address as typed by the user
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Coordinate returns the anchor position.
func (a AnchorPoint) Coordinate() Coordinate {
	return Coordinate{Lat: a.Latitude, Lng: a.Longitude}
}

// AnchorSet is the Home anchor plus the ordered Work anchors. Work order is
// the input order and breaks ties between overlapping work anchors.
type AnchorSet struct {
	Home AnchorPoint   `json:"home"`
	Work []AnchorPoint `json:"work"`
}

// WorkAt returns the work anchor at index i, or false if i is out of range.
func (s AnchorSet) WorkAt(i int) (AnchorPoint, bool) {
	if i < 0 || i >= len(s.Work) {
		return AnchorPoint{}, false
	}
	return s.Work[i], true
}
