package timeline

import (
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/trip-tracker/internal/model"
)

type e7Location struct {
	LatitudeE7  *int64 `json:"latitudeE7"`
	LongitudeE7 *int64 `json:"longitudeE7"`
	PlaceID     string `json:"placeId"`
	Address     string `json:"address"`
	Name        string `json:"name"`
}

type objectDuration struct {
	StartTimestamp   string `json:"startTimestamp"`
	EndTimestamp     string `json:"endTimestamp"`
	StartTimestampMs string `json:"startTimestampMs"`
	EndTimestampMs   string `json:"endTimestampMs"`
}

// bounds returns the start and end instants. The end is zero when missing.
func (d objectDuration) bounds() (time.Time, time.Time, error) {
	var start, end time.Time
	var err error
	switch {
	case d.StartTimestamp != "":
		start, err = parseTimestamp(d.StartTimestamp)
	default:
		start, err = parseMillis(d.StartTimestampMs)
	}
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	switch {
	case d.EndTimestamp != "":
		end, _ = parseTimestamp(d.EndTimestamp)
	case d.EndTimestampMs != "":
		end, _ = parseMillis(d.EndTimestampMs)
	}
	return start, end, nil
}

type placeVisit struct {
	Location    e7Location     `json:"location"`
	CenterLatE7 *int64         `json:"centerLatE7"`
	CenterLngE7 *int64         `json:"centerLngE7"`
	Duration    objectDuration `json:"duration"`
}

type activitySegment struct {
	StartLocation e7Location     `json:"startLocation"`
	EndLocation   e7Location     `json:"endLocation"`
	Duration      objectDuration `json:"duration"`
	Distance      *float64       `json:"distance"`
	ActivityType  string         `json:"activityType"`
}

type timelineObject struct {
	PlaceVisit      *placeVisit      `json:"placeVisit"`
	ActivitySegment *activitySegment `json:"activitySegment"`
}

func parseTimelineObjects(objs []timelineObject) *Timeline {
	tl := &Timeline{Format: model.SourceTimelineObjects}

	for _, obj := range objs {
		switch {
		case obj.PlaceVisit != nil:
			v := obj.PlaceVisit
			start, end, err := v.Duration.bounds()
			if err != nil {
				zap.L().Warn("timeline: skipping place visit", zap.Error(err))
				tl.Skipped++
				continue
			}
			coord := fromE7(v.Location.LatitudeE7, v.Location.LongitudeE7)
			if coord == nil {
				coord = fromE7(v.CenterLatE7, v.CenterLngE7)
			}
			tl.Records = append(tl.Records, model.TimelineRecord{
				Timestamp:    start,
				EndTimestamp: end,
				Kind:         model.KindPointVisit,
				Coordinate:   coord,
				Source:       model.SourceTimelineObjects,
			})

		case obj.ActivitySegment != nil:
			s := obj.ActivitySegment
			start, end, err := s.Duration.bounds()
			if err != nil {
				zap.L().Warn("timeline: skipping activity segment", zap.Error(err))
				tl.Skipped++
				continue
			}
			tl.Records = append(tl.Records, model.TimelineRecord{
				Timestamp:             start,
				EndTimestamp:          end,
				Kind:                  model.KindActivitySegment,
				SegmentDistanceMeters: s.Distance,
				SegmentStart:          fromE7(s.StartLocation.LatitudeE7, s.StartLocation.LongitudeE7),
				SegmentEnd:            fromE7(s.EndLocation.LatitudeE7, s.EndLocation.LongitudeE7),
				ActivityType:          s.ActivityType,
				Source:                model.SourceTimelineObjects,
			})
		}
	}
	return tl
}
