package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/storefront-harvester/internal/entity"
)

const schema = `
	CREATE TABLE IF NOT EXISTS harvest_batches (
		id          BIGSERIAL PRIMARY KEY,
		seed        TEXT        NOT NULL,
		profile     TEXT        NOT NULL,
		pages       INT         NOT NULL,
		stop_reason TEXT        NOT NULL,
		error       TEXT        NOT NULL DEFAULT '',
		started_at  TIMESTAMPTZ NOT NULL,
		finished_at TIMESTAMPTZ NOT NULL
	);
	CREATE TABLE IF NOT EXISTS harvested_records (
		batch_id BIGINT NOT NULL REFERENCES harvest_batches(id) ON DELETE CASCADE,
		position INT    NOT NULL,
		content  TEXT   NOT NULL,
		PRIMARY KEY (batch_id, position)
	);
`

// BatchSinkImpl provides a concrete implementation for the BatchSink
// interface using PostgreSQL.
type BatchSinkImpl struct {
	db *pgxpool.Pool
}

// NewBatchSink creates a new instance of BatchSinkImpl.
func NewBatchSink(db *pgxpool.Pool) *BatchSinkImpl {
	return &BatchSinkImpl{db: db}
}

func (s *BatchSinkImpl) Name() string { return "postgres" }

// EnsureSchema creates the batch tables if they do not exist.
func (s *BatchSinkImpl) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Save stores each batch and its records in one transaction per batch.
// Record positions preserve harvest order.
func (s *BatchSinkImpl) Save(ctx context.Context, results []entity.BatchResult) error {
	for _, r := range results {
		if err := s.saveOne(ctx, r); err != nil {
			return fmt.Errorf("failed to save batch for %s: %w", r.Seed, err)
		}
	}
	return nil
}

func (s *BatchSinkImpl) saveOne(ctx context.Context, r entity.BatchResult) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO harvest_batches (seed, profile, pages, stop_reason, error, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id;
	`
	var id int64
	err = tx.QueryRow(ctx, query,
		r.Seed.String(),
		r.Profile,
		r.Pages,
		string(r.Stop),
		r.Err,
		r.StartedAt,
		r.FinishedAt,
	).Scan(&id)
	if err != nil {
		return err
	}

	if len(r.Records) > 0 {
		batch := &pgx.Batch{}
		for i, rec := range r.Records {
			batch.Queue(`INSERT INTO harvested_records (batch_id, position, content) VALUES ($1, $2, $3)`, id, i, string(rec))
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
