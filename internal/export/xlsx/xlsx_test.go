package xlsx

import (
	"bytes"
	"context"
	"math"
	"strconv"
	"testing"

	"github.com/xuri/excelize/v2"

	"ctcconv/internal/core"
)

func TestExportRoundTrip(t *testing.T) {
	recs := []core.Record{
		{Period: "01/2020", Amount: core.Money{Cents: 73247}},
		{Period: "02/2020", Amount: core.Money{Cents: 225831}},
	}

	art, err := New().Export(context.Background(), recs)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if art.Name != "dados_ctc.xlsx" {
		t.Fatalf("unexpected artifact name %q", art.Name)
	}
	if len(art.Data) == 0 {
		t.Fatalf("empty artifact")
	}

	f, err := excelize.OpenReader(bytes.NewReader(art.Data))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Competência" || rows[0][1] != "Valor" {
		t.Fatalf("unexpected header: %v", rows[0])
	}
	for i, rec := range recs {
		row := rows[i+1]
		if row[0] != rec.Period {
			t.Fatalf("row %d: expected period %s, got %s", i, rec.Period, row[0])
		}
		got, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			t.Fatalf("row %d: amount cell %q: %v", i, row[1], err)
		}
		if math.Abs(got-rec.Amount.Value()) > 1e-9 {
			t.Fatalf("row %d: expected %v, got %v", i, rec.Amount.Value(), got)
		}
	}
}

func TestExportEmpty(t *testing.T) {
	// Zero records still produce a workbook with the header row, matching
	// the behavior of exporting an empty table.
	art, err := New().Export(context.Background(), nil)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(art.Data))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected only the header row, got %d rows", len(rows))
	}
}
