// Package geo provides great-circle distances and anchor proximity classification.
package geo

import (
	"github.com/golang/geo/s2"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/trip-tracker/internal/model"
)

// EarthRadiusMeters is the mean Earth radius used for all distance conversions.
const EarthRadiusMeters = 6371000.0

// HaversineMeters returns the great-circle distance between two points in meters.
func HaversineMeters(a, b model.Coordinate) float64 {
	p1 := s2.LatLngFromDegrees(a.Lat, a.Lng)
	p2 := s2.LatLngFromDegrees(b.Lat, b.Lng)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// NewPath builds an XY line string (x = longitude, y = latitude) from an
// ordered list of coordinates.
func NewPath(coords []model.Coordinate) (*geom.LineString, error) {
	flat := make([]geom.Coord, len(coords))
	for i, c := range coords {
		flat[i] = geom.Coord{c.Lng, c.Lat}
	}
	ls, err := geom.NewLineString(geom.XY).SetCoords(flat)
	if err != nil {
		return nil, eris.Wrap(err, "geo: build path")
	}
	return ls, nil
}

// PathLengthKm sums the haversine distance between consecutive vertices.
// Paths with fewer than two vertices have zero length.
func PathLengthKm(ls *geom.LineString) float64 {
	if ls == nil || ls.NumCoords() < 2 {
		return 0
	}
	var total float64
	prev := ls.Coord(0)
	for i := 1; i < ls.NumCoords(); i++ {
		cur := ls.Coord(i)
		total += HaversineMeters(
			model.Coordinate{Lat: prev.Y(), Lng: prev.X()},
			model.Coordinate{Lat: cur.Y(), Lng: cur.X()},
		)
		prev = cur
	}
	return total / 1000.0
}
