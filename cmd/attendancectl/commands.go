package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/app"
	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/spf13/cobra"
)

type cli struct {
	app *app.App
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "attendancectl",
		Short:         "Run attendance jobs and inspect reports",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			slog.SetDefault(app.NewLogger(cfg))

			a, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			c.app = a
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.app != nil {
				c.app.Close()
			}
		},
	}

	root.AddCommand(
		c.absentCmd(),
		c.dailyReportCmd(),
		c.periodReportCmd(),
		c.reportsCmd(),
		c.runJobCmd(),
	)
	return root
}

// date parses s as YYYY-MM-DD, or returns today in the configured zone when s
// is empty.
func (c *cli) date(s string) (time.Time, error) {
	if s == "" {
		return time.Now().In(c.app.Location), nil
	}
	d, ok := validator.IsValidDate(s)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *cli) absentCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "absent",
		Short: "Mark employees without a record as absent",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := c.date(date)
			if err != nil {
				return err
			}
			marked, err := c.app.AttendanceService.MarkAbsent(cmd.Context(), d)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{"date": d.Format(time.DateOnly), "marked": marked})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Date to sweep (YYYY-MM-DD, default today)")
	return cmd
}

func (c *cli) dailyReportCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "daily-report",
		Short: "Generate the daily report for a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := c.date(date)
			if err != nil {
				return err
			}
			result, err := c.app.ReportService.GenerateDailyReport(cmd.Context(), d)
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Report date (YYYY-MM-DD, default today)")
	return cmd
}

func (c *cli) periodReportCmd() *cobra.Command {
	var kind, date string
	cmd := &cobra.Command{
		Use:   "period-report",
		Short: "Generate a 15day or monthly report",
		Long: "Generate the report of the period containing --date. Without --date the\n" +
			"last closed period is used, as the scheduled job does.",
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := report.ParsePeriodKind(kind)
			if err != nil {
				return err
			}

			var period report.Period
			if date == "" {
				today := time.Now().In(c.app.Location)
				if k == report.KindMonthly {
					period = report.PreviousMonthPeriod(today)
				} else {
					period = report.PreviousFifteenDayPeriod(today)
				}
			} else {
				d, err := c.date(date)
				if err != nil {
					return err
				}
				period = report.PeriodContaining(k, d)
			}

			result, err := c.app.ReportService.GeneratePeriodReport(cmd.Context(), period)
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", string(report.KindFifteenDay), "Period kind: 15day or monthly")
	cmd.Flags().StringVar(&date, "date", "", "Any date inside the period (YYYY-MM-DD)")
	return cmd
}

func (c *cli) reportsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:       "reports daily|15day|monthly",
		Short:     "List stored reports, newest first",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"daily", string(report.KindFifteenDay), string(report.KindMonthly)},
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("--limit must not be negative")
			}
			if args[0] == "daily" {
				result, err := c.app.ReportService.ListDailyReports(cmd.Context(), limit)
				if err != nil {
					return err
				}
				return printJSON(cmd, result)
			}

			k, err := report.ParsePeriodKind(args[0])
			if err != nil {
				return err
			}
			result, err := c.app.ReportService.ListPeriodReports(cmd.Context(), k, limit)
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Number of reports (0 = default)")
	return cmd
}

func (c *cli) runJobCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run-job NAME",
		Short: "Run a scheduler job now",
		Long:  "Run a scheduler job once. A manual run does not count as the job's daily firing.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Scheduler.RunNow(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("%w (jobs: %v)", err, c.app.Scheduler.JobNames())
			}
			return printJSON(cmd, c.app.Scheduler.Status())
		},
	}
}
