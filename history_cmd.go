package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/dgnsrekt/shadowdrill/internal/storage"
)

var historyDays int

var historyCmd = &cobra.Command{
	Use:     "history",
	Short:   "Show practice history",
	Long:    paragraph(fmt.Sprintf("\nShow how many clips were %s per day.", keyword("played"))),
	Example: paragraph("shadowdrill history\nshadowdrill history --days 30"),
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		db, err := storage.Open(cfg.Store)
		if err != nil {
			return fmt.Errorf("unable to open store: %w", err)
		}
		defer db.Close() //nolint:errcheck

		now := time.Now()
		days, err := db.DailyCounts(ctx, now.AddDate(0, 0, -historyDays))
		if err != nil {
			return err //nolint:wrapcheck
		}
		total, err := db.TotalPlays(ctx)
		if err != nil {
			return err //nolint:wrapcheck
		}
		return printHistory(cmd.OutOrStdout(), days, total, now)
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyDays, "days", "d", 14, "number of days to show")
}

func printHistory(w io.Writer, days []storage.DayCount, total int, now time.Time) error {
	if len(days) == 0 {
		_, err := fmt.Fprintln(w, "No practice recorded in this period.")
		return err //nolint:wrapcheck
	}
	for _, d := range days {
		fmt.Fprintf(w, "%s  %s plays  %s sentences  %s\n",
			d.Day.Format("Mon Jan 02"),
			keyword(fmt.Sprintf("%5s", humanize.Comma(int64(d.Plays)))),
			fmt.Sprintf("%4d", d.Sentences),
			faint(dayLabel(d.Day, now)),
		)
	}
	_, err := fmt.Fprintf(w, "\n%s clips played in total\n", humanize.Comma(int64(total)))
	return err //nolint:wrapcheck
}

// dayLabel describes a UTC calendar day relative to now.
func dayLabel(day, now time.Time) string {
	today := now.UTC().Truncate(24 * time.Hour)
	switch diff := today.Sub(day.UTC().Truncate(24 * time.Hour)); {
	case diff <= 0:
		return "today"
	case diff == 24*time.Hour:
		return "yesterday"
	default:
		return humanize.RelTime(day, today, "ago", "from now")
	}
}
