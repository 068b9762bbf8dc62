package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadscout/internal/export"
	"github.com/sells-group/leadscout/internal/geomath"
	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/internal/pipeline"
)

var (
	findCity       string
	findCategories []string
	findRadiusKm   float64
	findNear       string
	findOut        string
	findLimit      int
	findNoLog      bool
)

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Search for business leads in a city",
	Example: `  leadscout find --city Pune --category bakery --radius-km 10
  leadscout find --city Austin --category plumber --category electrician --near 30.2672,-97.7431 --out leads.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		query := model.SearchQuery{
			City:       findCity,
			Categories: findCategories,
			RadiusKm:   findRadiusKm,
		}

		var ref *geomath.Point
		if findNear != "" {
			p, err := parseLatLng(findNear)
			if err != nil {
				return err
			}
			ref = &p
		}

		if findLimit > 0 {
			cfg.Search.MaxLeads = findLimit
		}

		p := newPipeline(cfg)
		session := &pipeline.Session{}

		result, err := p.FindLeads(ctx, query, pipeline.FindOptions{
			Reference:  ref,
			Generation: session.Next(),
		})

		if !findNoLog {
			recordRun(cmd, query, result, err)
		}

		if err != nil {
			var perr *pipeline.Error
			if errors.As(err, &perr) {
				return eris.Wrap(err, perr.Kind.Message())
			}
			return err
		}

		if len(result.Leads) == 0 {
			fmt.Fprintln(os.Stderr, "No leads found.")
			return nil
		}

		formatLeads(os.Stdout, result.Leads)

		if findOut != "" {
			if err := export.WriteFile(findOut, result.Leads); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Wrote %d leads to %s\n", len(result.Leads), findOut)
		}

		return nil
	},
}

// recordRun persists run metadata; failures to log never fail the
// search itself.
func recordRun(cmd *cobra.Command, query model.SearchQuery, result *pipeline.Result, findErr error) {
	ctx := cmd.Context()

	runLog, err := openRunLog(ctx, cfg)
	if err != nil {
		zap.L().Warn("run log unavailable", zap.Error(err))
		return
	}
	defer runLog.Close() //nolint:errcheck

	run := model.SearchRun{
		City:       query.City,
		Categories: query.Categories,
		RadiusKm:   query.RadiusKm,
	}
	if result != nil {
		run.LeadCount = len(result.Leads)
		run.DurationMs = result.Elapsed.Milliseconds()
	}
	if findErr != nil {
		run.ErrorKind = pipeline.KindOf(findErr).String()
	}

	if _, err := runLog.Record(ctx, run); err != nil {
		zap.L().Warn("record run failed", zap.Error(err))
	}
}

func formatLeads(w io.Writer, leads []model.Lead) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPHONE\tRATING\tDISTANCE\tADDRESS")
	for _, l := range leads {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			l.Name,
			orDash(l.Phone),
			ratingCol(l.Rating, l.ReviewCount),
			distanceCol(l.DistanceKm),
			l.Address,
		)
	}
	tw.Flush()
}

func orDash(p *string) string {
	if p == nil {
		return "-"
	}
	return *p
}

func ratingCol(rating *float64, reviews *int) string {
	if rating == nil {
		return "-"
	}
	if reviews == nil {
		return fmt.Sprintf("%.1f", *rating)
	}
	return fmt.Sprintf("%.1f (%d)", *rating, *reviews)
}

func distanceCol(d *float64) string {
	if d == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f km", *d)
}

// parseLatLng parses "lat,lng" in decimal degrees.
func parseLatLng(s string) (geomath.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return geomath.Point{}, eris.Errorf("invalid coordinates %q: expected lat,lng", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geomath.Point{}, eris.Wrapf(err, "invalid latitude %q", parts[0])
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geomath.Point{}, eris.Wrapf(err, "invalid longitude %q", parts[1])
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return geomath.Point{}, eris.Errorf("coordinates %q out of range", s)
	}
	return geomath.Point{Lat: lat, Lng: lng}, nil
}

func init() {
	findCmd.Flags().StringVar(&findCity, "city", "", "city to search in (required)")
	findCmd.Flags().StringSliceVar(&findCategories, "category", nil, "business category; repeatable (required)")
	findCmd.Flags().Float64Var(&findRadiusKm, "radius-km", 10, "search radius in km (5-100)")
	findCmd.Flags().StringVar(&findNear, "near", "", "reference coordinates lat,lng for distance annotation")
	findCmd.Flags().StringVar(&findOut, "out", "", "write results to a .csv or .xlsx file")
	findCmd.Flags().IntVar(&findLimit, "limit", 0, "maximum leads to request (default from config)")
	findCmd.Flags().BoolVar(&findNoLog, "no-log", false, "skip recording this search in the run log")
	rootCmd.AddCommand(findCmd)
}
