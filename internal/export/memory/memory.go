// Package memory provides an in-memory exporter used in tests and as a
// fallback when no spreadsheet backend is wanted.
package memory

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"sync"

	"ctcconv/internal/core"
	"ctcconv/internal/export"
)

type Exporter struct {
	mu      sync.Mutex
	exports [][]core.Record
}

var _ export.RecordExporter = (*Exporter)(nil)

func New() *Exporter {
	return &Exporter{}
}

// Export keeps a copy of the records and returns a CSV rendition of the
// table. The artifact keeps the same column labels as the real exporter.
func (e *Exporter) Export(_ context.Context, records []core.Record) (export.Artifact, error) {
	e.mu.Lock()
	e.exports = append(e.exports, append([]core.Record(nil), records...))
	e.mu.Unlock()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{export.ColumnPeriod, export.ColumnAmount}); err != nil {
		return export.Artifact{}, fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		row := []string{r.Period, strconv.FormatFloat(r.Amount.Value(), 'f', 2, 64)}
		if err := w.Write(row); err != nil {
			return export.Artifact{}, fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return export.Artifact{}, fmt.Errorf("flush csv: %w", err)
	}
	return export.Artifact{Name: "dados_ctc.csv", Data: buf.Bytes()}, nil
}

// Exports returns a snapshot of every export seen so far.
func (e *Exporter) Exports() [][]core.Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([][]core.Record, len(e.exports))
	copy(out, e.exports)
	return out
}
