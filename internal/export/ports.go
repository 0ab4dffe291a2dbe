package export

import (
	"context"

	"ctcconv/internal/core"
)

// Column labels of the exported table, as printed on the certificate.
const (
	ColumnPeriod = "Competência"
	ColumnAmount = "Valor"
)

// Artifact is a named binary table produced by an exporter.
type Artifact struct {
	Name string
	Data []byte
}

// RecordExporter renders an ordered record list into a downloadable artifact.
// Implementations must preserve record order.
type RecordExporter interface {
	Export(ctx context.Context, records []core.Record) (Artifact, error)
}
