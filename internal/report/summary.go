package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"gonum.org/v1/gonum/stat"

	"github.com/sells-group/trip-tracker/internal/model"
)

// Summary holds the figures printed after a run.
type Summary struct {
	Trips    int
	Days     int
	Skipped  int
	Filtered int
	TotalKm  float64

	// Mean and standard deviation of the per-trip round-trip distance.
	MeanKm   float64
	StdDevKm float64

	// TripsPerWork counts trips by work anchor index.
	TripsPerWork []int
}

// Summarize computes the summary of rep.
func Summarize(rep *model.Report, anchors *model.AnchorSet) Summary {
	s := Summary{
		Trips:        len(rep.Trips),
		Days:         rep.Days,
		Skipped:      rep.SkippedRecords,
		Filtered:     rep.FilteredRecords,
		TotalKm:      rep.TotalKm,
		TripsPerWork: make([]int, len(anchors.Work)),
	}
	if len(rep.Trips) == 0 {
		return s
	}

	km := make([]float64, len(rep.Trips))
	for i, t := range rep.Trips {
		km[i] = t.TotalKm()
		if t.WorkAnchorIndex >= 0 && t.WorkAnchorIndex < len(s.TripsPerWork) {
			s.TripsPerWork[t.WorkAnchorIndex]++
		}
	}
	if len(km) == 1 {
		s.MeanKm = km[0]
		return s
	}
	s.MeanKm, s.StdDevKm = stat.MeanStdDev(km, nil)
	return s
}

// WriteSummary writes s as an aligned table.
func WriteSummary(out io.Writer, s Summary, anchors *model.AnchorSet) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Home:\t%s\n", anchors.Home.Label)
	for i, a := range anchors.Work {
		_, _ = fmt.Fprintf(w, "Work %d:\t%s\t%d trips\n", i+1, a.Label, s.TripsPerWork[i])
	}
	_, _ = fmt.Fprintf(w, "Days examined:\t%d\n", s.Days)
	_, _ = fmt.Fprintf(w, "Commute days:\t%d\n", s.Trips)
	_, _ = fmt.Fprintf(w, "Total distance:\t%.2f km\n", Round2(s.TotalKm))
	if s.Trips > 0 {
		_, _ = fmt.Fprintf(w, "Per day:\t%.2f km (sd %.2f)\n", Round2(s.MeanKm), Round2(s.StdDevKm))
	}
	if s.Skipped > 0 {
		_, _ = fmt.Fprintf(w, "Skipped records:\t%d\n", s.Skipped)
	}
	if s.Filtered > 0 {
		_, _ = fmt.Fprintf(w, "Outside date range:\t%d\n", s.Filtered)
	}
	_ = w.Flush()
}
