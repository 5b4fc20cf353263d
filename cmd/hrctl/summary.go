package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cmlabs-hris/hr-portal-go/internal/config"
	"github.com/cmlabs-hris/hr-portal-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-portal-go/internal/domain/movement"
	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/database"
	"github.com/cmlabs-hris/hr-portal-go/internal/repository/mysql"
	"github.com/cmlabs-hris/hr-portal-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hr-portal-go/internal/service/attendance"
)

func summaryCmd() *cobra.Command {
	var (
		employeeNumber int
		start, end     string
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Reconcile one employee's attendance and print the counters",
		Example: `  hrctl summary --employee 1001
  hrctl summary --employee 1001 --start 2024-01-01 --end 2024-01-31`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if employeeNumber <= 0 {
				return fmt.Errorf("--employee must be a positive number")
			}
			r, err := calendar.ParseRange(start, end)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{MaxConns: 2, MinConns: 1})
			if err != nil {
				return err
			}
			defer db.Close()

			timeClockDB, err := database.NewTimeClockDB(ctx, cfg.TimeClockDB())
			if err != nil {
				return err
			}
			defer timeClockDB.Close()

			recordRepo := mysql.NewAttendanceRepository(timeClockDB, cfg.TimeClock.Table)
			movementRepo := postgresql.NewMovementRepository(db)

			var (
				records   []attendance.Record
				movements []movement.Movement
			)
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() (err error) {
				records, err = recordRepo.ListByEmployee(gctx, employeeNumber, r)
				return err
			})
			g.Go(func() (err error) {
				movements, err = movementRepo.ListByEmployee(gctx, employeeNumber, r)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			rec := attendanceService.Reconcile(records, movements)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "Employee\t%d\n", employeeNumber)
			fmt.Fprintf(tw, "Attendances\t%d\n", rec.Summary.Attendances)
			fmt.Fprintf(tw, "Tardies\t%d\n", rec.Summary.Tardies)
			fmt.Fprintf(tw, "Absences\t%d\n", rec.Summary.Absences)
			fmt.Fprintf(tw, "Total days\t%d\n", rec.Summary.TotalDays)
			fmt.Fprintf(tw, "Punctuality\t%d%%\n", rec.Summary.PunctualityPercent)
			for _, d := range rec.AmbiguousDates {
				fmt.Fprintf(tw, "Ambiguous\t%s\n", d)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVarP(&employeeNumber, "employee", "e", 0, "employee number")
	cmd.Flags().StringVar(&start, "start", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "last day, YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("employee")

	return cmd
}
