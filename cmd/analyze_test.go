package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/trip-tracker/internal/anchors"
	"github.com/sells-group/trip-tracker/internal/commute"
	"github.com/sells-group/trip-tracker/internal/config"
	"github.com/sells-group/trip-tracker/internal/report"
)

const commuteExport = `{"timelineObjects": [
  {"placeVisit": {"location": {"latitudeE7": 0, "longitudeE7": 0},
    "duration": {"startTimestamp": "2023-06-01T06:00:00Z", "endTimestamp": "2023-06-01T08:00:00Z"}}},
  {"activitySegment": {"startLocation": {"latitudeE7": 0, "longitudeE7": 0},
    "endLocation": {"latitudeE7": 0, "longitudeE7": 10000000},
    "duration": {"startTimestamp": "2023-06-01T08:00:00Z", "endTimestamp": "2023-06-01T08:30:00Z"},
    "distance": 12000, "activityType": "IN_PASSENGER_VEHICLE"}},
  {"placeVisit": {"location": {"latitudeE7": 0, "longitudeE7": 10000000},
    "duration": {"startTimestamp": "2023-06-01T08:31:00Z", "endTimestamp": "2023-06-01T17:00:00Z"}}},
  {"activitySegment": {"startLocation": {"latitudeE7": 0, "longitudeE7": 10000000},
    "endLocation": {"latitudeE7": 0, "longitudeE7": 0},
    "duration": {"startTimestamp": "2023-06-01T17:00:00Z", "endTimestamp": "2023-06-01T17:40:00Z"},
    "distance": 13000, "activityType": "IN_PASSENGER_VEHICLE"}},
  {"placeVisit": {"location": {"latitudeE7": 0, "longitudeE7": 0},
    "duration": {"startTimestamp": "2023-06-01T17:41:00Z"}}},
  {"activitySegment": {"startLocation": {"latitudeE7": 0, "longitudeE7": 0},
    "endLocation": {"latitudeE7": 0, "longitudeE7": 10000000},
    "duration": {"startTimestamp": "2023-07-15T08:00:00Z", "endTimestamp": "2023-07-15T08:30:00Z"},
    "distance": 12000}},
  {"placeVisit": {"duration": {"startTimestamp": "2023-06-02T09:00:00Z"}}}
]}`

const commuteAnchors = `
home:
  label: Home
  lat: 0
  lng: 0
work:
  - label: Office
    address: 1 Office Rd
    lat: 0
    lng: 1
`

func testConfig() *config.Config {
	c := &config.Config{}
	c.Commute.RadiusMeters = 1000
	c.Commute.ArrivalToleranceSecs = 600
	c.Commute.Workers = 2
	c.Report.Output = "travel_report.xlsx"
	return c
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestRunAnalyze_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	opts := analyzeOptions{
		AnchorsFile: writeFile(t, dir, "anchors.yaml", commuteAnchors),
		Timeline:    writeFile(t, dir, "Records.json", commuteExport),
		Start:       "2023-06-01",
		End:         "2023-06-30",
		Output:      filepath.Join(dir, "out.xlsx"),
	}

	var out bytes.Buffer
	require.NoError(t, runAnalyze(context.Background(), testConfig(), nil, opts, &out))

	assert.Contains(t, out.String(), "Commute days:")
	assert.Contains(t, out.String(), "25.00 km")
	assert.Contains(t, out.String(), "Outside date range:")
	assert.Contains(t, out.String(), "Skipped records:")

	f, err := xlsx.OpenFile(opts.Output)
	require.NoError(t, err)
	sheet := f.Sheet[report.SheetName]
	require.NotNil(t, sheet)
	require.Len(t, sheet.Rows, 3)

	row := sheet.Rows[1].Cells
	assert.Equal(t, "2023-06-01", row[0].String())
	assert.Equal(t, "1 Office Rd", row[1].String())
	assert.Equal(t, "Office", row[2].String())
	total, err := strconv.ParseFloat(row[5].Value, 64)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, total, 1e-9)
	assert.Equal(t, "Home", row[6].String())
	assert.Equal(t, report.TotalLabel, sheet.Rows[2].Cells[0].String())
}

func TestRunAnalyze_NoTravelData(t *testing.T) {
	dir := t.TempDir()
	opts := analyzeOptions{
		AnchorsFile: writeFile(t, dir, "anchors.yaml", commuteAnchors),
		Timeline: writeFile(t, dir, "Records.json",
			`{"timelineObjects": [{"placeVisit": {"duration": {"startTimestamp": "2023-06-01T06:00:00Z"}}}]}`),
		Start:  "2023-06-01",
		End:    "2023-06-30",
		Output: filepath.Join(dir, "out.xlsx"),
	}

	err := runAnalyze(context.Background(), testConfig(), nil, opts, &bytes.Buffer{})
	assert.True(t, errors.Is(err, ErrNoTravelData), "got %v", err)
	assert.NoFileExists(t, opts.Output)
}

func TestRunAnalyze_InvalidDates(t *testing.T) {
	dir := t.TempDir()
	base := analyzeOptions{
		AnchorsFile: writeFile(t, dir, "anchors.yaml", commuteAnchors),
		Timeline:    writeFile(t, dir, "Records.json", commuteExport),
	}

	for _, tc := range []struct{ start, end string }{
		{"2023-06-30", "2023-06-01"},
		{"June 1", "2023-06-30"},
		{"2023-06-01", ""},
	} {
		opts := base
		opts.Start, opts.End = tc.start, tc.end
		err := runAnalyze(context.Background(), testConfig(), nil, opts, &bytes.Buffer{})
		assert.True(t, errors.Is(err, commute.ErrInvalidConfiguration), "%v: got %v", tc, err)
	}
}

func TestRunAnalyze_RadiusFlagOverridesConfig(t *testing.T) {
	dc, err := detectorConfig(testConfig(), analyzeOptions{Start: "2023-01-01", End: "2023-01-31", Radius: 250, Workers: 8})
	require.NoError(t, err)
	assert.InDelta(t, 250.0, dc.RadiusMeters, 1e-9)
	assert.Equal(t, 8, dc.Workers)

	dc, err = detectorConfig(testConfig(), analyzeOptions{Start: "2023-01-01", End: "2023-01-31"})
	require.NoError(t, err)
	assert.InDelta(t, 1000.0, dc.RadiusMeters, 1e-9)
	assert.Equal(t, 2, dc.Workers)

	_, err = detectorConfig(testConfig(), analyzeOptions{Start: "2023-01-01", End: "2023-01-31", Radius: -5})
	assert.True(t, errors.Is(err, commute.ErrInvalidConfiguration))
}

func TestAnchorEntries(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "anchors.yaml", commuteAnchors)

	home, work, err := anchorEntries(analyzeOptions{Home: "1 Main St", Work: []string{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, "1 Main St", home.Address)
	assert.Equal(t, []anchors.Entry{{Address: "a"}, {Address: "b"}}, work)

	home, work, err = anchorEntries(analyzeOptions{AnchorsFile: file, Work: []string{"extra"}})
	require.NoError(t, err)
	assert.Equal(t, "Home", home.Label)
	require.Len(t, work, 2)
	assert.Equal(t, "Office", work[0].Label)
	assert.Equal(t, "extra", work[1].Address)

	_, _, err = anchorEntries(analyzeOptions{Work: []string{"a"}})
	assert.ErrorContains(t, err, "home address is required")

	_, _, err = anchorEntries(analyzeOptions{Home: "h"})
	assert.True(t, errors.Is(err, anchors.ErrNoWorkAnchors))
}

func TestRunAnalyze_GeocodesAddresses(t *testing.T) {
	dir := t.TempDir()
	gc := &stubGeocoder{}
	opts := analyzeOptions{
		Home:     "home",
		Work:     []string{"office"},
		Timeline: writeFile(t, dir, "Records.json", commuteExport),
		Start:    "2023-06-01",
		End:      "2023-06-30",
		Output:   filepath.Join(dir, "out.xlsx"),
	}

	var out bytes.Buffer
	require.NoError(t, runAnalyze(context.Background(), testConfig(), gc, opts, &out))
	assert.Contains(t, out.String(), "1 Office Rd, City")
	assert.FileExists(t, opts.Output)
}
