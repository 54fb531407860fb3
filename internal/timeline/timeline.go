// Package timeline parses Google location-history exports into timeline records.
package timeline

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/trip-tracker/internal/model"
)

// ErrNoData is returned when an export has neither a non-empty timelineObjects
// nor a non-empty semanticSegments list.
var ErrNoData = eris.New("timeline: no timelineObjects or semanticSegments found")

// Timeline is a parsed export.
type Timeline struct {
	Format  string
	Records []model.TimelineRecord

	// Skipped counts entries dropped because their timestamps could not be parsed.
	Skipped int
}

// Visits returns the number of point visits.
func (t *Timeline) Visits() int { return t.count(model.KindPointVisit) }

// Segments returns the number of activity segments.
func (t *Timeline) Segments() int { return t.count(model.KindActivitySegment) }

func (t *Timeline) count(kind model.RecordKind) int {
	n := 0
	for _, r := range t.Records {
		if r.Kind == kind {
			n++
		}
	}
	return n
}

type export struct {
	TimelineObjects  []timelineObject  `json:"timelineObjects"`
	SemanticSegments []semanticSegment `json:"semanticSegments"`
}

// Load reads and parses the export at path.
func Load(path string) (*Timeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "timeline: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	tl, err := Parse(f)
	if err != nil {
		return nil, eris.Wrapf(err, "timeline: parse %s", path)
	}
	return tl, nil
}

// Parse decodes an export. The legacy timelineObjects layout wins when it is
// non-empty; otherwise semanticSegments is used. A bare JSON array is read as
// a list of semantic segments. Record order follows the file.
func Parse(r io.Reader) (*Timeline, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "timeline: read")
	}

	var tl *Timeline
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var segs []semanticSegment
		if err := json.Unmarshal(trimmed, &segs); err != nil {
			return nil, eris.Wrap(err, "timeline: decode segment array")
		}
		if len(segs) == 0 {
			return nil, ErrNoData
		}
		tl = parseSemanticSegments(segs)
	} else {
		var exp export
		if err := json.Unmarshal(trimmed, &exp); err != nil {
			return nil, eris.Wrap(err, "timeline: decode export")
		}
		switch {
		case len(exp.TimelineObjects) > 0:
			tl = parseTimelineObjects(exp.TimelineObjects)
		case len(exp.SemanticSegments) > 0:
			tl = parseSemanticSegments(exp.SemanticSegments)
		default:
			return nil, ErrNoData
		}
	}

	zap.L().Info("timeline loaded",
		zap.String("format", tl.Format),
		zap.Int("visits", tl.Visits()),
		zap.Int("segments", tl.Segments()),
		zap.Int("skipped", tl.Skipped),
	)
	return tl, nil
}
