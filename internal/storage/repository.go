// Package storage keeps an advisory history of processed documents in
// SQLite: one row per extraction plus the extracted records, so the sync
// worker can replay them to Google Sheets.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"ctcconv/internal/core"

	_ "modernc.org/sqlite"
)

type Extraction struct {
	ID           int64
	CreatedAt    time.Time
	SourceChars  int64
	RecordCount  int64
	TotalCents   int64
	ArtifactName string
	Version      int64
	SyncedAt     sql.NullTime
	SyncError    bool
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateExtraction stores one processed document and its records in a single
// transaction, returning the new extraction ID.
func (r *SQLiteRepository) CreateExtraction(ctx context.Context, sourceChars int, artifactName string, records []core.Record) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var totalCents int64
	for _, rec := range records {
		totalCents += rec.Amount.Cents
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO extractions (source_chars, record_count, total_cents, artifact_name) VALUES (?, ?, ?, ?)`,
		sourceChars, len(records), totalCents, artifactName)
	if err != nil {
		return 0, fmt.Errorf("insert extraction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("extraction id: %w", err)
	}

	for i, rec := range records {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO extraction_records (extraction_id, position, period, amount_cents) VALUES (?, ?, ?, ?)`,
			id, i, rec.Period, rec.Amount.Cents); err != nil {
			return 0, fmt.Errorf("insert record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "Extraction saved to SQLite",
		"id", id,
		"record_count", len(records),
		"total_cents", totalCents)
	return id, nil
}

func (r *SQLiteRepository) GetExtraction(ctx context.Context, id int64) (Extraction, error) {
	var e Extraction
	err := r.db.QueryRowContext(ctx,
		`SELECT id, created_at, source_chars, record_count, total_cents, artifact_name, version, synced_at, sync_error
		 FROM extractions WHERE id = ?`, id).
		Scan(&e.ID, &e.CreatedAt, &e.SourceChars, &e.RecordCount, &e.TotalCents, &e.ArtifactName, &e.Version, &e.SyncedAt, &e.SyncError)
	if err != nil {
		return Extraction{}, fmt.Errorf("get extraction %d: %w", id, err)
	}
	return e, nil
}

// GetExtractionRecords returns the records of one extraction in their
// original document order.
func (r *SQLiteRepository) GetExtractionRecords(ctx context.Context, id int64) ([]core.Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT period, amount_cents FROM extraction_records WHERE extraction_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("get extraction records: %w", err)
	}
	defer rows.Close()

	var records []core.Record
	for rows.Next() {
		var period string
		var cents int64
		if err := rows.Scan(&period, &cents); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, core.Record{Period: period, Amount: core.Money{Cents: cents}})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

// ListRecentExtractions returns the newest extractions first.
func (r *SQLiteRepository) ListRecentExtractions(ctx context.Context, limit int) ([]Extraction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, created_at, source_chars, record_count, total_cents, artifact_name, version, synced_at, sync_error
		 FROM extractions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list extractions: %w", err)
	}
	defer rows.Close()

	var out []Extraction
	for rows.Next() {
		var e Extraction
		if err := rows.Scan(&e.ID, &e.CreatedAt, &e.SourceChars, &e.RecordCount, &e.TotalCents, &e.ArtifactName, &e.Version, &e.SyncedAt, &e.SyncError); err != nil {
			return nil, fmt.Errorf("scan extraction: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate extractions: %w", err)
	}
	return out, nil
}

// GetPendingSyncExtractions returns extractions not yet synced to Sheets.
func (r *SQLiteRepository) GetPendingSyncExtractions(ctx context.Context, limit int) ([]Extraction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, created_at, source_chars, record_count, total_cents, artifact_name, version, synced_at, sync_error
		 FROM extractions WHERE synced_at IS NULL ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync extractions: %w", err)
	}
	defer rows.Close()

	var out []Extraction
	for rows.Next() {
		var e Extraction
		if err := rows.Scan(&e.ID, &e.CreatedAt, &e.SourceChars, &e.RecordCount, &e.TotalCents, &e.ArtifactName, &e.Version, &e.SyncedAt, &e.SyncError); err != nil {
			return nil, fmt.Errorf("scan extraction: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate extractions: %w", err)
	}
	return out, nil
}

// MarkSynced marks an extraction as successfully synced to Sheets.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE extractions SET synced_at = CURRENT_TIMESTAMP, sync_error = 0 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark extraction synced: %w", err)
	}
	slog.InfoContext(ctx, "Extraction marked as synced", "id", id)
	return nil
}

// MarkSyncError flags an extraction so the periodic sweep retries it.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE extractions SET sync_error = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark extraction sync error: %w", err)
	}
	return nil
}
