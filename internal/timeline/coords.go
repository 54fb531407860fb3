package timeline

import (
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/trip-tracker/internal/model"
)

// e7Divisor converts E7 fixed-point degrees to decimal degrees.
const e7Divisor = 10000000.0

func fromE7(lat, lng *int64) *model.Coordinate {
	if lat == nil || lng == nil {
		return nil
	}
	return &model.Coordinate{Lat: float64(*lat) / e7Divisor, Lng: float64(*lng) / e7Divisor}
}

// parseLatLng parses "43.8946875°, -79.5587437°" and the "geo:43.89,-79.55"
// form used by on-device exports.
func parseLatLng(s string) *model.Coordinate {
	if s == "" {
		return nil
	}
	clean := strings.TrimPrefix(strings.TrimSpace(s), "geo:")
	clean = strings.ReplaceAll(clean, "°", "")
	parts := strings.Split(clean, ",")
	if len(parts) != 2 {
		zap.L().Warn("timeline: unparseable coordinate", zap.String("value", s))
		return nil
	}
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, errLng := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLat != nil || errLng != nil {
		zap.L().Warn("timeline: unparseable coordinate", zap.String("value", s))
		return nil
	}
	return &model.Coordinate{Lat: lat, Lng: lng}
}

// parseTimestamp accepts RFC 3339 timestamps (with or without fractional
// seconds and with any offset) and returns them in UTC.
func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, eris.New("timeline: empty timestamp")
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, eris.Wrapf(err, "timeline: parse timestamp %q", s)
	}
	return t.UTC(), nil
}

// parseMillis parses the epoch-millisecond strings of older exports.
func parseMillis(s string) (time.Time, error) {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, eris.Wrapf(err, "timeline: parse millisecond timestamp %q", s)
	}
	return time.UnixMilli(ms).UTC(), nil
}
