package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/leadscout/internal/model"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded search runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		runLog, err := openRunLog(ctx, cfg)
		if err != nil {
			return err
		}
		defer runLog.Close() //nolint:errcheck

		runs, err := runLog.List(ctx, runsLimit)
		if err != nil {
			return eris.Wrap(err, "runs list")
		}

		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No runs recorded.")
			return nil
		}

		formatRuns(os.Stdout, runs)
		return nil
	},
}

func formatRuns(w io.Writer, runs []model.SearchRun) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tCITY\tCATEGORIES\tRADIUS\tLEADS\tOUTCOME\tTOOK")
	for _, r := range runs {
		outcome := "ok"
		if r.ErrorKind != "" {
			outcome = r.ErrorKind
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.0f km\t%d\t%s\t%dms\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.City,
			strings.Join(r.Categories, ","),
			r.RadiusKm,
			r.LeadCount,
			outcome,
			r.DurationMs,
		)
	}
	tw.Flush()
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "maximum runs to list")
	rootCmd.AddCommand(runsCmd)
}
