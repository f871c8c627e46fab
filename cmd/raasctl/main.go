package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/ManuelReschke/RAAS/app/repository"
	"github.com/ManuelReschke/RAAS/internal/pkg/clearance"
	"github.com/ManuelReschke/RAAS/internal/pkg/database"
	"github.com/ManuelReschke/RAAS/internal/pkg/env"
	"github.com/ManuelReschke/RAAS/internal/pkg/exclusion"
	"github.com/ManuelReschke/RAAS/internal/pkg/subjectlock"
	"github.com/ManuelReschke/RAAS/internal/pkg/validity"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type services struct {
	exclusions *exclusion.Service
	clearances *clearance.Service
}

func newRootCmd() *cobra.Command {
	var sqlitePath string

	rootCmd := &cobra.Command{
		Use:           "raasctl",
		Short:         "Maintenance commands for provider exclusions and clearances",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&sqlitePath, "sqlite", "", "use a SQLite database file instead of the MySQL settings from the environment")

	open := func() (*services, error) {
		db, err := openDB(sqlitePath)
		if err != nil {
			return nil, err
		}
		repos := repository.NewRepositories(db)
		// Commands only read, the locker is never contended.
		locker := subjectlock.NewLocalLocker(time.Second)
		return &services{
			exclusions: exclusion.NewService(exclusion.NewRepository(db), repos.Provider, repos.ExclusionType, locker),
			clearances: clearance.NewService(clearance.NewRepository(db), repos.Provider, repos.Representator, locker),
		}, nil
	}

	rootCmd.AddCommand(expiringCmd(open))
	rootCmd.AddCommand(auditOverlapsCmd(open))
	return rootCmd
}

func openDB(sqlitePath string) (*gorm.DB, error) {
	if sqlitePath != "" {
		db, err := database.OpenSQLite(sqlitePath)
		if err != nil {
			return nil, err
		}
		return db, database.AutoMigrate(db)
	}
	env.SetupEnvFile()
	database.SetupDatabase()
	return database.GetDB(), nil
}

func expiringCmd(open func() (*services, error)) *cobra.Command {
	var days int
	var resource string
	var at string

	cmd := &cobra.Command{
		Use:   "expiring",
		Short: "List bounded records ending within the given number of days",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now().UTC()
			if at != "" {
				parsed, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("--at: %w", err)
				}
				now = parsed.UTC()
			}
			if resource != "all" && resource != "exclusions" && resource != "clearances" {
				return fmt.Errorf("--resource must be exclusions, clearances or all")
			}

			svc, err := open()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RESOURCE\tID\tSUBJECT\tEND\tREMAINING")
			ctx := cmd.Context()

			if resource != "clearances" {
				records, err := svc.exclusions.Expiring(ctx, now, days)
				if err != nil {
					return err
				}
				for i := range records {
					writeRow(w, exclusion.Resource, records[i].Interval(), now)
				}
			}
			if resource != "exclusions" {
				records, err := svc.clearances.Expiring(ctx, now, days)
				if err != nil {
					return err
				}
				for i := range records {
					writeRow(w, clearance.Resource, records[i].Interval(), now)
				}
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&days, "days", validity.CloseToExpirationDays, "window in days")
	cmd.Flags().StringVar(&resource, "resource", "all", "exclusions, clearances or all")
	cmd.Flags().StringVar(&at, "at", "", "evaluate at this RFC 3339 instant instead of now")
	return cmd
}

func writeRow(w io.Writer, resource string, iv validity.Interval, now time.Time) {
	snapshot := validity.Describe(iv, now)
	fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%d\n", resource, iv.RecordID, iv.SubjectKey, iv.End.Format(time.RFC3339), *snapshot.RemainingDays)
}

func auditOverlapsCmd(open func() (*services, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "audit-overlaps",
		Short: "Report stored records that overlap another record of the same subject",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := open()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			exclusionPairs, err := svc.exclusions.AuditOverlaps(ctx)
			if err != nil {
				return err
			}
			clearancePairs, err := svc.clearances.AuditOverlaps(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, pair := range exclusionPairs {
				fmt.Fprintf(out, "%s %s: #%d %s overlaps #%d %s\n", exclusion.Resource, pair[0].SubjectKey, pair[0].RecordID, pair[0], pair[1].RecordID, pair[1])
			}
			for _, pair := range clearancePairs {
				fmt.Fprintf(out, "%s %s: #%d %s overlaps #%d %s\n", clearance.Resource, pair[0].SubjectKey, pair[0].RecordID, pair[0], pair[1].RecordID, pair[1])
			}

			total := len(exclusionPairs) + len(clearancePairs)
			if total > 0 {
				return fmt.Errorf("%d overlapping pairs found", total)
			}
			fmt.Fprintln(out, "no overlaps found")
			return nil
		},
	}
}
