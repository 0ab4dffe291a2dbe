package worker

import (
	"context"
	"fmt"
	"log/slog"

	"ctcconv/internal/amqp"
	"ctcconv/internal/sheets"
	"ctcconv/internal/storage"
)

// SyncWorker pushes extractions from SQLite to Google Sheets.
type SyncWorker struct {
	storage   *storage.SQLiteRepository
	sheets    sheets.RecordAppender
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, appender sheets.RecordAppender, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		sheets:    appender,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single extraction sync message from AMQP.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.ExtractionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"id", msg.ID,
		"version", msg.Version)
	return w.syncExtraction(ctx, msg.ID)
}

func (w *SyncWorker) syncExtraction(ctx context.Context, id int64) error {
	records, err := w.storage.GetExtractionRecords(ctx, id)
	if err != nil {
		return fmt.Errorf("load extraction records: %w", err)
	}

	ref, err := w.sheets.AppendRecords(ctx, records)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("append records to sheets: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, id); err != nil {
		return fmt.Errorf("mark extraction synced: %w", err)
	}

	slog.InfoContext(ctx, "Extraction synced to Google Sheets",
		"id", id,
		"record_count", len(records),
		"sheets_ref", ref)
	return nil
}

// ProcessPendingExtractions sweeps extractions whose sync message was lost.
func (w *SyncWorker) ProcessPendingExtractions(ctx context.Context) error {
	pending, err := w.storage.GetPendingSyncExtractions(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending extractions: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending extractions", "count", len(pending))
	for _, e := range pending {
		if err := w.syncExtraction(ctx, e.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to sync pending extraction", "id", e.ID, "error", err)
			// keep going, the next sweep retries the failed one
		}
	}
	return nil
}

// StartupSyncCheck processes anything missed while the worker was down.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	return w.ProcessPendingExtractions(ctx)
}
