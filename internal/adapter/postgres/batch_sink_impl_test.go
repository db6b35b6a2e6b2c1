package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/user/storefront-harvester/internal/entity"
)

// Runs against a disposable database named by POSTGRES_TEST_URL.
func TestBatchSinkSave(t *testing.T) {
	dsn := os.Getenv("POSTGRES_TEST_URL")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_URL not set")
	}
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	sink := NewBatchSink(pool)
	require.NoError(t, sink.EnsureSchema(ctx))

	seed := "https://example.com/" + time.Now().Format("150405.000000000")
	now := time.Now()
	require.NoError(t, sink.Save(ctx, []entity.BatchResult{{
		Seed:       entity.SeedTarget(seed),
		Profile:    "comments",
		Records:    []entity.HarvestedRecord{"b", "a", "b"},
		Pages:      2,
		Stop:       entity.StopExhausted,
		StartedAt:  now,
		FinishedAt: now,
	}}))

	rows, err := pool.Query(ctx, `
		SELECT r.content FROM harvested_records r
		JOIN harvest_batches b ON b.id = r.batch_id
		WHERE b.seed = $1 ORDER BY r.position`, seed)
	require.NoError(t, err)
	defer rows.Close()

	var got []string
	for rows.Next() {
		var s string
		require.NoError(t, rows.Scan(&s))
		got = append(got, s)
	}
	require.Equal(t, []string{"b", "a", "b"}, got)
}
