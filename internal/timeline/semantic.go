package timeline

import (
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/trip-tracker/internal/geo"
	"github.com/sells-group/trip-tracker/internal/model"
)

// pathActivityType marks segments whose distance was measured along a
// timelinePath rather than reported by the export.
const pathActivityType = "PATH_BASED_TRAVEL"

type latLngHolder struct {
	LatLng string `json:"latLng"`
}

type semanticVisit struct {
	TopCandidate struct {
		PlaceID       string       `json:"placeId"`
		SemanticType  string       `json:"semanticType"`
		PlaceLocation latLngHolder `json:"placeLocation"`
	} `json:"topCandidate"`
}

type semanticActivity struct {
	Start          latLngHolder `json:"start"`
	End            latLngHolder `json:"end"`
	DistanceMeters *float64     `json:"distanceMeters"`
	TopCandidate   struct {
		Type        string  `json:"type"`
		Probability float64 `json:"probability"`
	} `json:"topCandidate"`
}

type pathPoint struct {
	Point string `json:"point"`
	Time  string `json:"time"`
}

type semanticSegment struct {
	StartTime    string            `json:"startTime"`
	EndTime      string            `json:"endTime"`
	Visit        *semanticVisit    `json:"visit"`
	Activity     *semanticActivity `json:"activity"`
	TimelinePath []pathPoint       `json:"timelinePath"`
}

type interval struct {
	start, end time.Time
}

func (i interval) overlaps(o interval) bool {
	start, end := i.start, i.end
	if o.start.After(start) {
		start = o.start
	}
	if o.end.Before(end) {
		end = o.end
	}
	return start.Before(end)
}

func parseSemanticSegments(segs []semanticSegment) *Timeline {
	tl := &Timeline{Format: model.SourceSemanticSegments}

	// Activities with a reported distance take precedence over paths covering
	// the same time range.
	var measured []interval
	for _, seg := range segs {
		if seg.Activity == nil || seg.Activity.DistanceMeters == nil {
			continue
		}
		start, errStart := parseTimestamp(seg.StartTime)
		end, errEnd := parseTimestamp(seg.EndTime)
		if errStart == nil && errEnd == nil {
			measured = append(measured, interval{start, end})
		}
	}

	for _, seg := range segs {
		start, errStart := parseTimestamp(seg.StartTime)
		end, errEnd := parseTimestamp(seg.EndTime)
		if errStart != nil || errEnd != nil {
			zap.L().Warn("timeline: skipping semantic segment",
				zap.String("start", seg.StartTime),
				zap.String("end", seg.EndTime),
			)
			tl.Skipped++
			continue
		}

		switch {
		case seg.Visit != nil:
			tl.Records = append(tl.Records, model.TimelineRecord{
				Timestamp:    start,
				EndTimestamp: end,
				Kind:         model.KindPointVisit,
				Coordinate:   parseLatLng(seg.Visit.TopCandidate.PlaceLocation.LatLng),
				Source:       model.SourceSemanticSegments,
			})

		case seg.Activity != nil:
			a := seg.Activity
			tl.Records = append(tl.Records, model.TimelineRecord{
				Timestamp:             start,
				EndTimestamp:          end,
				Kind:                  model.KindActivitySegment,
				SegmentDistanceMeters: a.DistanceMeters,
				SegmentStart:          parseLatLng(a.Start.LatLng),
				SegmentEnd:            parseLatLng(a.End.LatLng),
				ActivityType:          a.TopCandidate.Type,
				Source:                model.SourceSemanticSegments,
			})

		case len(seg.TimelinePath) > 0:
			span := interval{start, end}
			if coveredBy(span, measured) {
				continue
			}
			if rec, ok := pathRecord(seg.TimelinePath, start, end); ok {
				tl.Records = append(tl.Records, rec)
			}
		}
	}
	return tl
}

func coveredBy(span interval, measured []interval) bool {
	for _, m := range measured {
		if span.overlaps(m) {
			return true
		}
	}
	return false
}

// pathRecord turns a timelinePath into a travel segment whose distance is
// the haversine length of the path. Paths with zero length are dropped.
func pathRecord(points []pathPoint, start, end time.Time) (model.TimelineRecord, bool) {
	var coords []model.Coordinate
	for _, p := range points {
		if c := parseLatLng(p.Point); c != nil {
			coords = append(coords, *c)
		}
	}
	ls, err := geo.NewPath(coords)
	if err != nil {
		zap.L().Warn("timeline: skipping timeline path", zap.Error(err))
		return model.TimelineRecord{}, false
	}
	km := geo.PathLengthKm(ls)
	if km <= 0 {
		return model.TimelineRecord{}, false
	}

	meters := km * 1000.0
	first, last := coords[0], coords[len(coords)-1]
	return model.TimelineRecord{
		Timestamp:             start,
		EndTimestamp:          end,
		Kind:                  model.KindActivitySegment,
		SegmentDistanceMeters: &meters,
		SegmentStart:          &first,
		SegmentEnd:            &last,
		ActivityType:          pathActivityType,
		Source:                model.SourceTimelinePath,
	}, true
}
