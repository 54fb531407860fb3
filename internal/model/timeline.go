package model

import (
	"fmt"
	"time"
)

// RecordKind distinguishes stationary visits from travel segments.
type RecordKind string

const (
	KindPointVisit      RecordKind = "point_visit"
	KindActivitySegment RecordKind = "activity_segment"
)

// Source format tags carried on records and trips.
const (
	SourceTimelineObjects  = "timelineObjects"
	SourceSemanticSegments = "semanticSegments"
	SourceTimelinePath     = "semanticSegments_timelinePath"
)

// TimelineRecord is one entry of the location history, in stream order.
type TimelineRecord struct {
	Timestamp    time.Time // start instant, UTC
	EndTimestamp time.Time // zero when unknown
	Kind         RecordKind

	// Coordinate is set for point visits.
	Coordinate *Coordinate

	// Segment fields are set for activity segments.
	SegmentDistanceMeters *float64
	SegmentStart          *Coordinate
	SegmentEnd            *Coordinate
	ActivityType          string

	Source string
}

// Usable reports whether the record carries any coordinate or travel distance.
// Records that are not usable are malformed and skipped by the detector.
func (r TimelineRecord) Usable() bool {
	if r.Timestamp.IsZero() {
		return false
	}
	switch r.Kind {
	case KindPointVisit:
		return r.Coordinate != nil
	case KindActivitySegment:
		return r.SegmentDistanceMeters != nil || r.SegmentStart != nil || r.SegmentEnd != nil
	default:
		return false
	}
}

// DistanceKm returns the segment's recorded travel distance in kilometers,
// or 0 for visits and segments without a distance.
func (r TimelineRecord) DistanceKm() float64 {
	if r.Kind != KindActivitySegment || r.SegmentDistanceMeters == nil {
		return 0
	}
	return *r.SegmentDistanceMeters / 1000.0
}

// TagKind is the kind of anchor a location was matched to.
type TagKind uint8

const (
	TagNone TagKind = iota
	TagHome
	TagWork
)

// LocationTag is the result of proximity classification. WorkIndex is only
// meaningful when Kind is TagWork.
type LocationTag struct {
	Kind      TagKind
	WorkIndex int
}

var (
	NoneTag = LocationTag{Kind: TagNone}
	HomeTag = LocationTag{Kind: TagHome}
)

// WorkTag returns the tag for work anchor i.
func WorkTag(i int) LocationTag {
	return LocationTag{Kind: TagWork, WorkIndex: i}
}

func (t LocationTag) IsNone() bool { return t.Kind == TagNone }
func (t LocationTag) IsHome() bool { return t.Kind == TagHome }
func (t LocationTag) IsWork() bool { return t.Kind == TagWork }

func (t LocationTag) String() string {
	switch t.Kind {
	case TagHome:
		return "HOME"
	case TagWork:
		return fmt.Sprintf("WORK(%d)", t.WorkIndex)
	default:
		return "NONE"
	}
}

// ClassifiedRecord is a TimelineRecord with its location tags. Visits use Tag;
// segments use StartTag and EndTag, classified independently.
type ClassifiedRecord struct {
	TimelineRecord
	Tag      LocationTag
	StartTag LocationTag
	EndTag   LocationTag
}

// DayBucket holds one UTC date's records in stream order.
type DayBucket struct {
	Date    Date
	Records []ClassifiedRecord
}
