package services

import (
	"context"
	"fmt"
	"log/slog"

	"ctcconv/internal/amqp"
	"ctcconv/internal/core"
	"ctcconv/internal/export"
	"ctcconv/internal/storage"
)

// ExtractionService runs the whole pipeline for one document: extract,
// export, record history and request the Sheets sync.
type ExtractionService struct {
	exporter   export.RecordExporter
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

// Result is what one processed document produces.
type Result struct {
	ExtractionID int64 // 0 when history is disabled
	Records      []core.Record
	Artifact     export.Artifact
}

// NewExtractionService creates the service. storage and amqpClient may be
// nil; history and sync are then skipped.
func NewExtractionService(exporter export.RecordExporter, storage *storage.SQLiteRepository, amqpClient *amqp.Client) *ExtractionService {
	return &ExtractionService{
		exporter:   exporter,
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// ProcessDocument extracts all records from the document text and renders
// the export artifact. A document with zero matches still produces an
// artifact with just the header row. A *core.ValueConversionError aborts
// the whole document.
func (s *ExtractionService) ProcessDocument(ctx context.Context, text string) (Result, error) {
	records, err := core.ExtractRecords(text)
	if err != nil {
		return Result{}, fmt.Errorf("extract records: %w", err)
	}

	artifact, err := s.exporter.Export(ctx, records)
	if err != nil {
		return Result{}, fmt.Errorf("export records: %w", err)
	}

	result := Result{Records: records, Artifact: artifact}

	// History is advisory; its failure must not lose the user's download.
	if s.storage != nil {
		id, err := s.storage.CreateExtraction(ctx, len(text), artifact.Name, records)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to record extraction history", "error", err)
			return result, nil
		}
		result.ExtractionID = id

		if err := s.publishSyncMessage(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to publish sync message",
				"id", id, "error", err)
			// the periodic worker sweep picks it up later
		}
	}

	return result, nil
}

func (s *ExtractionService) publishSyncMessage(ctx context.Context, id int64) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message")
		return nil
	}
	return s.amqpClient.PublishExtractionSync(ctx, id, 1)
}

// Close closes storage and AMQP connections.
func (s *ExtractionService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close extraction service: %v", errs)
	}
	return nil
}
