package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/trip-tracker/pkg/geocode"
)

var geocodeAPIKey string

var geocodeCmd = &cobra.Command{
	Use:   "geocode <address>...",
	Short: "Show every geocoding candidate for one or more addresses",
	Long:  "Prints all candidates returned for each address. The first candidate, marked with *, is the one analyze uses.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st := initCache(ctx, cfg.Cache)
		if st != nil {
			defer st.Close() //nolint:errcheck
		}
		return runGeocode(ctx, initGeocoder(cfg.Geocode, geocodeAPIKey, st), args, os.Stdout)
	},
}

// runGeocode prints candidates for every query and fails if any query failed.
func runGeocode(ctx context.Context, gc geocode.Client, queries []string, out io.Writer) error {
	results := gc.BatchGeocode(ctx, queries)

	failed := 0
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, r := range results {
		_, _ = fmt.Fprintf(w, "%s\n", r.Query)
		switch {
		case r.Err != nil:
			failed++
			_, _ = fmt.Fprintf(w, "  error:\t%v\n", r.Err)
		case len(r.Candidates) == 0:
			failed++
			_, _ = fmt.Fprintln(w, "  no results")
		default:
			for i, c := range r.Candidates {
				mark := " "
				if i == 0 {
					mark = "*"
				}
				_, _ = fmt.Fprintf(w, "  %s\t%s\t%.7f, %.7f\t%s\n", mark, c.FormattedAddress, c.Latitude, c.Longitude, c.Quality)
			}
		}
	}
	_ = w.Flush()

	if failed > 0 {
		return eris.Errorf("geocode: %d of %d addresses could not be resolved", failed, len(queries))
	}
	return nil
}

func init() {
	geocodeCmd.Flags().StringVar(&geocodeAPIKey, "api-key", "", "Google Geocoding API key (overrides config)")
	rootCmd.AddCommand(geocodeCmd)
}
