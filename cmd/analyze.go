package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/trip-tracker/internal/anchors"
	"github.com/sells-group/trip-tracker/internal/commute"
	"github.com/sells-group/trip-tracker/internal/config"
	"github.com/sells-group/trip-tracker/internal/model"
	"github.com/sells-group/trip-tracker/internal/report"
	"github.com/sells-group/trip-tracker/internal/timeline"
	"github.com/sells-group/trip-tracker/pkg/geocode"
)

// ErrNoTravelData is returned when the export holds no usable record.
var ErrNoTravelData = eris.New("analyze: no visit or travel data")

type analyzeOptions struct {
	Home        string
	Work        []string
	AnchorsFile string
	Start       string
	End         string
	Timeline    string
	APIKey      string
	Output      string
	Radius      float64
	Workers     int
}

var analyzeOpts analyzeOptions

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Find commute days in a location-history export and write an xlsx report",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st := initCache(ctx, cfg.Cache)
		if st != nil {
			defer st.Close() //nolint:errcheck
		}

		gc := initGeocoder(cfg.Geocode, analyzeOpts.APIKey, st)
		return runAnalyze(ctx, cfg, gc, analyzeOpts, os.Stdout)
	},
}

// runAnalyze resolves anchors, loads the export, detects trips, writes the
// spreadsheet and prints a summary to out.
func runAnalyze(ctx context.Context, c *config.Config, gc geocode.Client, opts analyzeOptions, out io.Writer) error {
	log := zap.L().With(zap.String("run_id", uuid.NewString()))

	detCfg, err := detectorConfig(c, opts)
	if err != nil {
		return err
	}

	home, work, err := anchorEntries(opts)
	if err != nil {
		return err
	}
	set, err := anchors.NewResolver(gc).Resolve(ctx, home, work)
	if err != nil {
		return eris.Wrap(err, "analyze: resolve anchors")
	}

	tl, err := timeline.Load(opts.Timeline)
	if err != nil {
		return err
	}
	if countUsable(tl.Records) == 0 {
		return ErrNoTravelData
	}
	log.Info("timeline ready",
		zap.String("path", opts.Timeline),
		zap.String("format", tl.Format),
		zap.Int("records", len(tl.Records)),
	)

	det, err := commute.NewDetector(*set, detCfg, commute.WithLogger(log.With(zap.String("component", "commute.detector"))))
	if err != nil {
		return err
	}
	rep, err := det.Run(ctx, tl.Records)
	if err != nil {
		return eris.Wrap(err, "analyze: detect trips")
	}
	rep.SkippedRecords += tl.Skipped

	output := opts.Output
	if output == "" {
		output = c.Report.Output
	}
	if err := report.WriteXLSX(output, rep, set); err != nil {
		return err
	}
	log.Info("report written", zap.String("path", output), zap.Int("trips", len(rep.Trips)))

	report.WriteSummary(out, report.Summarize(rep, set), set)
	_, _ = fmt.Fprintf(out, "Report written to %s\n", output)
	return nil
}

func detectorConfig(c *config.Config, opts analyzeOptions) (commute.Config, error) {
	dc := commute.Config{
		RadiusMeters:     c.Commute.RadiusMeters,
		ArrivalTolerance: c.Commute.ArrivalTolerance(),
		Workers:          c.Commute.Workers,
	}
	if opts.Radius != 0 {
		dc.RadiusMeters = opts.Radius
	}
	if opts.Workers > 0 {
		dc.Workers = opts.Workers
	}

	var err error
	if dc.Start, err = model.ParseDate(opts.Start); err != nil {
		return dc, eris.Wrap(commute.ErrInvalidConfiguration, err.Error())
	}
	if dc.End, err = model.ParseDate(opts.End); err != nil {
		return dc, eris.Wrap(commute.ErrInvalidConfiguration, err.Error())
	}
	return dc, dc.Validate()
}

// anchorEntries merges the anchors file with --home and --work. Flags win for
// home; --work entries are appended after the file's work list.
func anchorEntries(opts analyzeOptions) (anchors.Entry, []anchors.Entry, error) {
	var home anchors.Entry
	var work []anchors.Entry

	if opts.AnchorsFile != "" {
		f, err := anchors.LoadFile(opts.AnchorsFile)
		if err != nil {
			return home, nil, err
		}
		home, work = f.Home, f.Work
	}
	if opts.Home != "" {
		home = anchors.FromAddress(opts.Home)
	}
	for _, w := range opts.Work {
		work = append(work, anchors.FromAddress(w))
	}

	if _, ok := home.Resolved(); !ok && home.Address == "" {
		return home, nil, eris.New("analyze: a home address is required (--home or --anchors)")
	}
	if len(work) == 0 {
		return home, nil, anchors.ErrNoWorkAnchors
	}
	return home, work, nil
}

func countUsable(records []model.TimelineRecord) int {
	n := 0
	for _, r := range records {
		if r.Usable() {
			n++
		}
	}
	return n
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeOpts.Home, "home", "", "home address")
	f.StringArrayVar(&analyzeOpts.Work, "work", nil, "work address (repeatable, order breaks ties)")
	f.StringVar(&analyzeOpts.AnchorsFile, "anchors", "", "YAML file with home and work locations")
	f.StringVar(&analyzeOpts.Start, "start", "", "first day to include, YYYY-MM-DD (required)")
	f.StringVar(&analyzeOpts.End, "end", "", "last day to include, YYYY-MM-DD (required)")
	f.StringVar(&analyzeOpts.Timeline, "timeline", "", "path to the location-history JSON export (required)")
	f.StringVar(&analyzeOpts.APIKey, "api-key", "", "Google Geocoding API key (overrides config)")
	f.StringVar(&analyzeOpts.Output, "output", "", "xlsx output path (default from config: travel_report.xlsx)")
	f.Float64Var(&analyzeOpts.Radius, "radius", 0, "proximity radius in meters (default from config: 500)")
	f.IntVar(&analyzeOpts.Workers, "workers", 0, "days matched in parallel (default from config: 1)")
	_ = analyzeCmd.MarkFlagRequired("start")
	_ = analyzeCmd.MarkFlagRequired("end")
	_ = analyzeCmd.MarkFlagRequired("timeline")
	rootCmd.AddCommand(analyzeCmd)
}
