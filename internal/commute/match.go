package commute

import (
	"time"

	"github.com/sells-group/trip-tracker/internal/model"
)

type matchState int

const (
	seekingHomeDeparture matchState = iota
	atWork
	seekingHomeReturn
	done
)

func (s matchState) String() string {
	switch s {
	case seekingHomeDeparture:
		return "SEEKING_HOME_DEPARTURE"
	case atWork:
		return "AT_WORK"
	case seekingHomeReturn:
		return "SEEKING_HOME_RETURN"
	case done:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// Matcher finds the first Home→Work→Home cycle in a day bucket.
type Matcher struct {
	// ArrivalTolerance bounds the gap between the end of a segment with no
	// end coordinate and the start of the visit that supplies its
	// destination. Zero disables the check.
	ArrivalTolerance time.Duration
}

// Match scans a bucket once and returns the first completed cycle. The
// second return value is false when the day has no qualifying cycle.
func Match(b model.DayBucket) (model.TripMatch, bool) {
	return Matcher{}.Match(b)
}

// Match implements the day scan for m.
func (m Matcher) Match(b model.DayBucket) (model.TripMatch, bool) {
	s := &dayScan{date: b.Date, tolerance: m.ArrivalTolerance, last: model.NoneTag}
	for i := range b.Records {
		s.feed(&b.Records[i])
		if s.state == done {
			return s.trip, true
		}
	}
	s.flush()
	if s.state == done {
		return s.trip, true
	}
	return model.TripMatch{}, false
}

// dayScan is the per-bucket state machine. last is the most recent known
// location; pending holds a segment with no anchored end fix, whose
// destination is decided by the next record.
type dayScan struct {
	date      model.Date
	tolerance time.Duration

	state   matchState
	last    model.LocationTag
	pending *model.ClassifiedRecord
	trip    model.TripMatch
}

func (s *dayScan) feed(r *model.ClassifiedRecord) {
	switch r.Kind {
	case model.KindPointVisit:
		if s.pending != nil {
			dest := model.NoneTag
			if s.arrives(s.pending, r) {
				dest = r.Tag
			}
			seg := s.pending
			s.pending = nil
			s.leg(seg, dest)
			if s.state == done {
				return
			}
		}
		s.visit(r.Tag)

	case model.KindActivitySegment:
		s.flush()
		if s.state == done {
			return
		}
		if r.SegmentEnd == nil || r.EndTag.IsNone() {
			s.pending = r
			return
		}
		s.leg(r, r.EndTag)
	}
}

// flush resolves a pending segment that was not followed by a visit.
func (s *dayScan) flush() {
	if s.pending == nil {
		return
	}
	seg := s.pending
	s.pending = nil
	s.leg(seg, model.NoneTag)
}

func (s *dayScan) arrives(seg, visit *model.ClassifiedRecord) bool {
	if s.tolerance <= 0 || seg.EndTimestamp.IsZero() {
		return true
	}
	gap := visit.Timestamp.Sub(seg.EndTimestamp)
	if gap < 0 {
		gap = -gap
	}
	return gap < s.tolerance
}

// leg applies a travel segment from its origin to dest. A start fix that
// matches no anchor departs from the last known place.
func (s *dayScan) leg(seg *model.ClassifiedRecord, dest model.LocationTag) {
	origin := seg.StartTag
	if seg.SegmentStart == nil || origin.IsNone() {
		origin = s.last
	}
	km := seg.DistanceKm()
	defer func() { s.last = dest }()

	switch s.state {
	case seekingHomeDeparture:
		if origin.IsHome() && dest.IsWork() && km > 0 {
			s.trip = model.TripMatch{
				Date:             s.date,
				WorkAnchorIndex:  dest.WorkIndex,
				DistanceToWorkKm: km,
				Source:           seg.Source,
			}
			s.state = atWork
		}

	case atWork, seekingHomeReturn:
		if s.otherWork(origin) {
			s.abandon()
			return
		}
		switch {
		case dest.IsHome() && km > 0:
			s.trip.DistanceFromWorkKm = km
			s.state = done
		case dest.IsHome():
			s.abandon()
		case s.otherWork(dest):
			s.abandon()
		case dest.IsWork():
			s.state = atWork
		default:
			s.state = seekingHomeReturn
		}
	}
}

func (s *dayScan) visit(tag model.LocationTag) {
	defer func() { s.last = tag }()

	if s.state != atWork && s.state != seekingHomeReturn {
		return
	}
	switch {
	case s.otherWork(tag):
		s.abandon()
	case tag.IsWork():
		s.state = atWork
	case tag.IsHome():
		// Home reached without a travel segment: the return leg has no distance.
		s.abandon()
	}
}

func (s *dayScan) otherWork(tag model.LocationTag) bool {
	return tag.IsWork() && tag.WorkIndex != s.trip.WorkAnchorIndex
}

// abandon drops the current cycle. A new one needs a fresh departure from HOME.
func (s *dayScan) abandon() {
	s.trip = model.TripMatch{}
	s.state = seekingHomeDeparture
}
