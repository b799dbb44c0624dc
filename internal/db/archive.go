// Package db provides optional PostgreSQL archiving for ingestion runs. The
// master CSV stays the source of truth; the archive mirrors merged rows for
// downstream analysis and is skipped entirely when no database is configured.
//
// Expected schema:
//
//	CREATE TABLE comment_runs (
//	    id            UUID PRIMARY KEY,
//	    input_dir     TEXT NOT NULL,
//	    output_dir    TEXT NOT NULL,
//	    status        TEXT NOT NULL,
//	    rows_archived INT,
//	    started_at    TIMESTAMPTZ DEFAULT NOW(),
//	    completed_at  TIMESTAMPTZ
//	);
//
//	CREATE TABLE comment_rows (
//	    run_id        UUID REFERENCES comment_runs(id),
//	    video_id      TEXT NOT NULL,
//	    video_title   TEXT,
//	    channel_title TEXT,
//	    publish_date  TEXT,
//	    quote         TEXT NOT NULL,
//	    PRIMARY KEY (video_id, quote)
//	);
package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/comments-curator/internal/types"
)

// DB wraps a PostgreSQL connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// CreateRun records the start of an ingestion run.
func (db *DB) CreateRun(ctx context.Context, runID uuid.UUID, inputDir, outputDir string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO comment_runs (id, input_dir, output_dir, status)
		 VALUES ($1, $2, $3, 'running')`,
		runID, inputDir, outputDir,
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// CompleteRun marks an ingestion run as finished.
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, status string, rowsArchived int) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE comment_runs SET status = $1, rows_archived = $2, completed_at = NOW() WHERE id = $3`,
		status, rowsArchived, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// ArchiveTable inserts the table's rows, skipping rows whose (video_id, quote)
// key already exists, the same dedupe key the CSV merge uses. Returns how
// many rows were newly archived.
func (db *DB) ArchiveTable(ctx context.Context, runID uuid.UUID, table *types.Table) (int, error) {
	cell := func(row []string, idx int) any {
		if idx < 0 || idx >= len(row) || row[idx] == "" {
			return nil
		}
		return row[idx]
	}

	idIdx := table.ColumnIndex(types.FieldVideoID)
	titleIdx := table.ColumnIndex(types.FieldVideoTitle)
	channelIdx := table.ColumnIndex(types.FieldChannelTitle)
	dateIdx := table.ColumnIndex(types.FieldPublishDate)
	quoteIdx := table.ColumnIndex(types.FieldQuote)
	if idIdx < 0 || quoteIdx < 0 {
		return 0, fmt.Errorf("table is missing the dedupe key columns")
	}

	archived := 0
	for _, row := range table.Rows {
		tag, err := db.pool.Exec(ctx,
			`INSERT INTO comment_rows (run_id, video_id, video_title, channel_title, publish_date, quote)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (video_id, quote) DO NOTHING`,
			runID, row[idIdx], cell(row, titleIdx), cell(row, channelIdx), cell(row, dateIdx), row[quoteIdx],
		)
		if err != nil {
			return archived, fmt.Errorf("failed to archive row: %w", err)
		}
		archived += int(tag.RowsAffected())
	}
	return archived, nil
}
