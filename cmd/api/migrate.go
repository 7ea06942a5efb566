package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib" // "pgx" driver for database/sql
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/pkordes/sighting-registry/internal/config"
	"github.com/pkordes/sighting-registry/migrations"
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(
		migrateStep("up", "Apply every pending migration", func(ctx context.Context, p *goose.Provider) ([]*goose.MigrationResult, error) {
			return p.Up(ctx)
		}),
		migrateStep("down", "Roll back the most recent migration", func(ctx context.Context, p *goose.Provider) ([]*goose.MigrationResult, error) {
			r, err := p.Down(ctx)
			if r == nil {
				return nil, err
			}
			return []*goose.MigrationResult{r}, err
		}),
		&cobra.Command{
			Use:   "status",
			Short: "List migrations and whether they are applied",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withProvider(cmd.Context(), func(p *goose.Provider) error {
					statuses, err := p.Status(cmd.Context())
					if err != nil {
						return fmt.Errorf("migrate status: %w", err)
					}
					printStatus(cmd.OutOrStdout(), statuses)
					return nil
				})
			},
		},
	)
	return cmd
}

func migrateStep(use, short string, run func(context.Context, *goose.Provider) ([]*goose.MigrationResult, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withProvider(cmd.Context(), func(p *goose.Provider) error {
				results, err := run(cmd.Context(), p)
				for _, r := range results {
					slog.Info("migration", "version", r.Source.Version, "direction", r.Direction, "duration", r.Duration)
				}
				if err != nil {
					return fmt.Errorf("migrate %s: %w", use, err)
				}
				if len(results) == 0 {
					slog.Info("no migrations to run")
				}
				return nil
			})
		},
	}
}

// withProvider opens its own database/sql handle, since goose cannot use a
// pgx pool directly.
func withProvider(ctx context.Context, fn func(*goose.Provider) error) error {
	url, err := config.LoadDatabaseURL()
	if err != nil {
		return err
	}
	db, err := sql.Open("pgx", url)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	p, err := migrations.NewProvider(db)
	if err != nil {
		return err
	}
	return fn(p)
}

func printStatus(w io.Writer, statuses []*goose.MigrationStatus) {
	for _, s := range statuses {
		applied := "pending"
		if s.State == goose.StateApplied {
			applied = s.AppliedAt.UTC().Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(w, "%05d  %-20s  %s\n", s.Source.Version, applied, s.Source.Path)
	}
}
