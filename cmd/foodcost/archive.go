package main

import (
	"database/sql"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/internal/config"
	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/pkg/logger"
)

const createArchiveTable = `
CREATE TABLE IF NOT EXISTS usage_record_archive (
	record_id           TEXT PRIMARY KEY,
	period_start        TEXT NOT NULL,
	period_end          TEXT NOT NULL,
	item_count          INTEGER NOT NULL,
	total_cost_of_usage DOUBLE PRECISION NOT NULL,
	created_at          TIMESTAMPTZ NOT NULL,
	archived_at         TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// runArchive copies every saved record summary from the configured store
// into a reporting database. Re-running is safe: existing rows are skipped.
func runArchive(c *cli.Context) error {
	cfg := config.Load()

	records, err := newRecordStore(cfg.Store)
	if err != nil {
		return err
	}

	summaries, err := records.List(c.Context)
	if err != nil {
		return fmt.Errorf("list saved records: %w", err)
	}
	if len(summaries) == 0 {
		logger.Log.Info().Msg("no saved records to archive")
		return nil
	}

	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(c.Context); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.ExecContext(c.Context, createArchiveTable); err != nil {
		return fmt.Errorf("ensure archive table: %w", err)
	}

	archived := 0
	for _, s := range summaries {
		res, err := db.ExecContext(c.Context,
			`INSERT INTO usage_record_archive
			 (record_id, period_start, period_end, item_count, total_cost_of_usage, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (record_id) DO NOTHING`,
			s.ID, s.PeriodStart, s.PeriodEnd, s.ItemCount, s.TotalCostOfUsage, s.CreatedAt)
		if err != nil {
			return fmt.Errorf("archive record %s: %w", s.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			archived++
		}
	}

	logger.Log.Info().Int("total", len(summaries)).Int("archived", archived).Msg("archive complete")
	return nil
}
