package services

import (
	"context"
	"errors"
	"testing"

	"ctcconv/internal/core"
	"ctcconv/internal/export/memory"
)

func TestProcessDocument(t *testing.T) {
	exporter := memory.New()
	svc := NewExtractionService(exporter, nil, nil)

	res, err := svc.ProcessDocument(context.Background(), "01/2020 732,47\n02/2020 2.258,31")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(res.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(res.Records))
	}
	if res.Records[0].Amount.Cents != 73247 || res.Records[1].Amount.Cents != 225831 {
		t.Fatalf("unexpected amounts: %+v", res.Records)
	}
	if len(res.Artifact.Data) == 0 {
		t.Fatalf("expected a non-empty artifact")
	}
	if res.ExtractionID != 0 {
		t.Fatalf("expected no history id without storage, got %d", res.ExtractionID)
	}
	if got := exporter.Exports(); len(got) != 1 {
		t.Fatalf("expected one export, got %d", len(got))
	}
}

func TestProcessDocumentNoMatches(t *testing.T) {
	svc := NewExtractionService(memory.New(), nil, nil)

	res, err := svc.ProcessDocument(context.Background(), "plain prose, nothing to extract")
	if err != nil {
		t.Fatalf("zero matches must not be an error: %v", err)
	}
	if len(res.Records) != 0 {
		t.Fatalf("expected no records, got %+v", res.Records)
	}
	if len(res.Artifact.Data) == 0 {
		t.Fatalf("expected an artifact with just the header")
	}
}

func TestProcessDocumentConversionErrorAborts(t *testing.T) {
	svc := NewExtractionService(memory.New(), nil, nil)

	_, err := svc.ProcessDocument(context.Background(), "01/2020 1,234,56")
	var convErr *core.ValueConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("expected *core.ValueConversionError, got %v", err)
	}
	if convErr.Raw != "1,234,56" {
		t.Fatalf("expected offending raw amount, got %q", convErr.Raw)
	}
}
