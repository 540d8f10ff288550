package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"golang.org/x/sync/semaphore"

	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/internal/config"
	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/internal/domain"
)

const createRecordsTable = `
CREATE TABLE IF NOT EXISTS usage_records (
	id                  TEXT PRIMARY KEY,
	period_start        TEXT NOT NULL,
	period_end          TEXT NOT NULL,
	item_count          INTEGER NOT NULL,
	total_cost_of_usage DOUBLE PRECISION NOT NULL,
	sample_item_code    TEXT NOT NULL DEFAULT '',
	sample_usage        DOUBLE PRECISION NOT NULL DEFAULT 0,
	payload             JSONB NOT NULL,
	created_at          TIMESTAMPTZ NOT NULL
)`

// PostgresStore keeps usage records as JSONB documents, one row per record,
// with summary columns denormalized for listing and duplicate checks.
type PostgresStore struct {
	db  *sqlx.DB
	sem *semaphore.Weighted
}

// NewPostgresStore connects, ensures the schema, and caps concurrent
// operations.
func NewPostgresStore(cfg config.PostgresConfig) (*PostgresStore, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	db, err := sqlx.Connect("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if _, err := db.Exec(createRecordsTable); err != nil {
		return nil, fmt.Errorf("ensure usage_records table: %w", err)
	}

	return &PostgresStore{
		db:  db,
		sem: semaphore.NewWeighted(10),
	}, nil
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) acquire(ctx context.Context) (release func(), err error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("could not acquire semaphore: %w", err)
	}
	return func() { s.sem.Release(1) }, nil
}

func (s *PostgresStore) Save(ctx context.Context, record domain.UsageRecord) (string, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return "", err
	}
	defer release()

	summary := record.Summarize()
	var existing string
	err = s.db.GetContext(ctx, &existing,
		`SELECT id FROM usage_records
		 WHERE period_start = $1 AND period_end = $2 AND item_count = $3
		   AND sample_item_code = $4 AND sample_usage = $5
		 LIMIT 1`,
		record.PeriodStart, record.PeriodEnd, summary.ItemCount,
		summary.SampleItemCode, summary.SampleUsage)
	if err == nil {
		return "", domain.ErrDuplicateRecord
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("duplicate check failed: %w", err)
	}

	now := time.Now().UTC()
	record.ID = newRecordID(record, now)
	record.CreatedAt = now

	payload, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("encode usage record: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO usage_records
		 (id, period_start, period_end, item_count, total_cost_of_usage,
		  sample_item_code, sample_usage, payload, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		record.ID, record.PeriodStart, record.PeriodEnd, summary.ItemCount,
		summary.TotalCostOfUsage, summary.SampleItemCode, summary.SampleUsage,
		payload, record.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("insert usage record: %w", err)
	}

	return record.ID, nil
}

func (s *PostgresStore) Load(ctx context.Context, id string) (domain.UsageRecord, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return domain.UsageRecord{}, err
	}
	defer release()

	var payload []byte
	err = s.db.GetContext(ctx, &payload,
		`SELECT payload FROM usage_records WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.UsageRecord{}, domain.ErrRecordNotFound
	}
	if err != nil {
		return domain.UsageRecord{}, fmt.Errorf("load usage record: %w", err)
	}

	var record domain.UsageRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return domain.UsageRecord{}, fmt.Errorf("decode usage record: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]domain.RecordSummary, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	rows, err := s.db.QueryxContext(ctx,
		`SELECT id, period_start, period_end, item_count, total_cost_of_usage,
		        sample_item_code, sample_usage, created_at
		 FROM usage_records ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list usage records: %w", err)
	}
	defer rows.Close()

	summaries := make([]domain.RecordSummary, 0)
	for rows.Next() {
		var s domain.RecordSummary
		if err := rows.Scan(&s.ID, &s.PeriodStart, &s.PeriodEnd, &s.ItemCount,
			&s.TotalCostOfUsage, &s.SampleItemCode, &s.SampleUsage, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan record summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	release, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	res, err := s.db.ExecContext(ctx, `DELETE FROM usage_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete usage record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

var _ RecordStore = (*PostgresStore)(nil)
