// Package xlsx renders extracted records as an Excel workbook.
package xlsx

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"ctcconv/internal/core"
	"ctcconv/internal/export"
)

const (
	sheetName    = "Dados"
	artifactName = "dados_ctc.xlsx"
)

type Exporter struct{}

var _ export.RecordExporter = (*Exporter)(nil)

func New() *Exporter {
	return &Exporter{}
}

// Export writes one header row plus one row per record, amounts as numeric
// cells so the spreadsheet can sum them directly.
func (e *Exporter) Export(_ context.Context, records []core.Record) (export.Artifact, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return export.Artifact{}, fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", &[]any{export.ColumnPeriod, export.ColumnAmount}); err != nil {
		return export.Artifact{}, fmt.Errorf("write header: %w", err)
	}
	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return export.Artifact{}, fmt.Errorf("cell for row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(sheetName, cell, &[]any{r.Period, r.Amount.Value()}); err != nil {
			return export.Artifact{}, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return export.Artifact{}, fmt.Errorf("serialize workbook: %w", err)
	}
	return export.Artifact{Name: artifactName, Data: buf.Bytes()}, nil
}
