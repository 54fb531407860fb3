package commute

import (
	"time"

	"github.com/sells-group/trip-tracker/internal/model"
)

var (
	homeC  = model.Coordinate{Lat: 0, Lng: 0}
	work0C = model.Coordinate{Lat: 0, Lng: 1}
	work1C = model.Coordinate{Lat: 1, Lng: 0}
	cafeC  = model.Coordinate{Lat: 0.5, Lng: 0.5}
)

const testRadius = 1000.0

func testAnchors() model.AnchorSet {
	return model.AnchorSet{
		Home: model.AnchorPoint{Label: "Home", Latitude: homeC.Lat, Longitude: homeC.Lng},
		Work: []model.AnchorPoint{
			{Label: "Office", Latitude: work0C.Lat, Longitude: work0C.Lng},
			{Label: "Plant", Latitude: work1C.Lat, Longitude: work1C.Lng},
		},
	}
}

// at returns hh:mm UTC on the given June 2023 day.
func at(day, hh, mm int) time.Time {
	return time.Date(2023, time.June, day, hh, mm, 0, 0, time.UTC)
}

func visit(ts time.Time, c model.Coordinate) model.TimelineRecord {
	return model.TimelineRecord{
		Timestamp:  ts,
		Kind:       model.KindPointVisit,
		Coordinate: &c,
		Source:     model.SourceTimelineObjects,
	}
}

func segment(ts time.Time, from, to *model.Coordinate, meters float64) model.TimelineRecord {
	return model.TimelineRecord{
		Timestamp:             ts,
		EndTimestamp:          ts.Add(25 * time.Minute),
		Kind:                  model.KindActivitySegment,
		SegmentDistanceMeters: &meters,
		SegmentStart:          from,
		SegmentEnd:            to,
		ActivityType:          "IN_PASSENGER_VEHICLE",
		Source:                model.SourceTimelineObjects,
	}
}

func ptr(c model.Coordinate) *model.Coordinate { return &c }

// commuteDay is the canonical Home→Work→Home day.
func commuteDay(day int, toMeters, fromMeters float64) []model.TimelineRecord {
	return []model.TimelineRecord{
		visit(at(day, 8, 0), homeC),
		segment(at(day, 8, 30), ptr(homeC), ptr(work0C), toMeters),
		visit(at(day, 12, 0), work0C),
		segment(at(day, 17, 0), ptr(work0C), ptr(homeC), fromMeters),
		visit(at(day, 17, 30), homeC),
	}
}

func bucketOf(records ...model.TimelineRecord) model.DayBucket {
	buckets := Group(ClassifyAll(records, testAnchors(), testRadius))
	if len(buckets) != 1 {
		panic("records span more than one day")
	}
	return buckets[0]
}
