package memory

import (
	"context"
	"strings"
	"testing"

	"ctcconv/internal/core"
)

func TestExportRecordsAndArtifact(t *testing.T) {
	e := New()
	recs := []core.Record{
		{Period: "01/2020", Amount: core.Money{Cents: 73247}},
		{Period: "02/2020", Amount: core.Money{Cents: 225831}},
	}

	art, err := e.Export(context.Background(), recs)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	body := string(art.Data)
	for _, want := range []string{"Competência,Valor", "01/2020,732.47", "02/2020,2258.31"} {
		if !strings.Contains(body, want) {
			t.Fatalf("artifact missing %q:\n%s", want, body)
		}
	}

	seen := e.Exports()
	if len(seen) != 1 || len(seen[0]) != 2 {
		t.Fatalf("unexpected recorded exports: %+v", seen)
	}
}
