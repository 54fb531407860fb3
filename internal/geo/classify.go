package geo

import "github.com/sells-group/trip-tracker/internal/model"

// DefaultRadiusMeters is the proximity radius used when none is configured.
const DefaultRadiusMeters = 500.0

// Classify returns the location tag for a coordinate relative to the anchors.
// Rules:
//   - HOME: within radius of the home anchor (checked first)
//   - WORK(i): within radius of work anchor i; the lowest index wins
//   - NONE: no anchor within radius, or no coordinate
func Classify(c *model.Coordinate, anchors model.AnchorSet, radiusMeters float64) model.LocationTag {
	if c == nil {
		return model.NoneTag
	}
	if Within(*c, anchors.Home.Coordinate(), radiusMeters) {
		return model.HomeTag
	}
	for i, w := range anchors.Work {
		if Within(*c, w.Coordinate(), radiusMeters) {
			return model.WorkTag(i)
		}
	}
	return model.NoneTag
}

// Within reports whether a lies within radiusMeters of b (inclusive).
func Within(a, b model.Coordinate, radiusMeters float64) bool {
	return HaversineMeters(a, b) <= radiusMeters
}
