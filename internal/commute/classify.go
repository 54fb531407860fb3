package commute

import (
	"github.com/sells-group/trip-tracker/internal/geo"
	"github.com/sells-group/trip-tracker/internal/model"
)

// ClassifyRecord tags a record against the anchors. Visits are tagged by their
// coordinate; segment endpoints are tagged independently.
func ClassifyRecord(r model.TimelineRecord, anchors model.AnchorSet, radiusMeters float64) model.ClassifiedRecord {
	cr := model.ClassifiedRecord{TimelineRecord: r}
	switch r.Kind {
	case model.KindPointVisit:
		cr.Tag = geo.Classify(r.Coordinate, anchors, radiusMeters)
		cr.StartTag, cr.EndTag = cr.Tag, cr.Tag
	case model.KindActivitySegment:
		cr.StartTag = geo.Classify(r.SegmentStart, anchors, radiusMeters)
		cr.EndTag = geo.Classify(r.SegmentEnd, anchors, radiusMeters)
		cr.Tag = cr.EndTag
	}
	return cr
}

// ClassifyAll tags every record, preserving order.
func ClassifyAll(records []model.TimelineRecord, anchors model.AnchorSet, radiusMeters float64) []model.ClassifiedRecord {
	out := make([]model.ClassifiedRecord, len(records))
	for i, r := range records {
		out[i] = ClassifyRecord(r, anchors, radiusMeters)
	}
	return out
}
