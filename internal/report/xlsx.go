// Package report renders a commute report as a spreadsheet and a console summary.
package report

import (
	"math"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/trip-tracker/internal/model"
)

// SheetName is the worksheet holding one row per trip.
const SheetName = "Trips"

const kmFormat = "0.00"

// Columns is the header row of the trips sheet.
var Columns = []string{
	"Date",
	"Work Location Visited (Query)",
	"Work Location Visited (Geocoded)",
	"Distance to Work (km)",
	"Distance from Work (km)",
	"Total Distance (km)",
	"Home Address (Geocoded)",
	"Source Format",
}

// TotalLabel marks the totals row in the Date column.
const TotalLabel = "TOTAL"

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// BuildWorkbook lays out rep as a workbook with a header row, one row per
// trip in date order and a totals row. Distances are rounded to 2 dp.
func BuildWorkbook(rep *model.Report, anchors *model.AnchorSet) (*xlsx.File, error) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return nil, eris.Wrap(err, "report: add sheet")
	}

	header := sheet.AddRow()
	for _, c := range Columns {
		header.AddCell().SetString(c)
	}

	var toSum, fromSum float64
	for _, t := range rep.Trips {
		work, ok := anchors.WorkAt(t.WorkAnchorIndex)
		if !ok {
			return nil, eris.Errorf("report: trip on %s references unknown work anchor %d", t.Date, t.WorkAnchorIndex)
		}
		row := sheet.AddRow()
		row.AddCell().SetString(t.Date.String())
		row.AddCell().SetString(work.Query)
		row.AddCell().SetString(work.Label)
		row.AddCell().SetFloatWithFormat(Round2(t.DistanceToWorkKm), kmFormat)
		row.AddCell().SetFloatWithFormat(Round2(t.DistanceFromWorkKm), kmFormat)
		row.AddCell().SetFloatWithFormat(Round2(t.TotalKm()), kmFormat)
		row.AddCell().SetString(anchors.Home.Label)
		row.AddCell().SetString(t.Source)

		toSum += t.DistanceToWorkKm
		fromSum += t.DistanceFromWorkKm
	}

	totals := sheet.AddRow()
	totals.AddCell().SetString(TotalLabel)
	totals.AddCell().SetString("")
	totals.AddCell().SetString("")
	totals.AddCell().SetFloatWithFormat(Round2(toSum), kmFormat)
	totals.AddCell().SetFloatWithFormat(Round2(fromSum), kmFormat)
	totals.AddCell().SetFloatWithFormat(Round2(rep.TotalKm), kmFormat)
	return f, nil
}

// WriteXLSX builds the workbook and saves it to path.
func WriteXLSX(path string, rep *model.Report, anchors *model.AnchorSet) error {
	f, err := BuildWorkbook(rep, anchors)
	if err != nil {
		return err
	}
	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "report: save %s", path)
	}
	return nil
}
