package core

import (
	"errors"
	"testing"
)

func TestExtractRecordsOldFormat(t *testing.T) {
	recs, err := ExtractRecords("01/2020 732,47\n02/2020 2.258,31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Record{
		{Period: "01/2020", Amount: Money{Cents: 73247}},
		{Period: "02/2020", Amount: Money{Cents: 225831}},
	}
	if len(recs) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(recs))
	}
	for i, r := range recs {
		if r != want[i] {
			t.Fatalf("record %d: expected %+v, got %+v", i, want[i], r)
		}
	}
}

func TestExtractRecordsNewFormat(t *testing.T) {
	recs, err := ExtractRecords("03/2021 1,031.87")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 || recs[0].Period != "03/2021" || recs[0].Amount.Cents != 103187 {
		t.Fatalf("unexpected records: %+v", recs)
	}
}

func TestExtractRecordsNoMatches(t *testing.T) {
	for _, text := range []string{
		"",
		"plain prose with no records at all",
		"05/2020",          // period without amount
		"05/2020 no-value", // period followed by something that is not an amount
		"732,47",           // amount without period
	} {
		recs, err := ExtractRecords(text)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", text, err)
		}
		if len(recs) != 0 {
			t.Fatalf("%q: expected no records, got %+v", text, recs)
		}
	}
}

func TestExtractRecordsPreservesOrder(t *testing.T) {
	text := "intro text\n03/2019 10,00 noise 01/2020 20,00\n\n12/2018 30,00 trailing"
	recs, err := ExtractRecords(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	periods := []string{"03/2019", "01/2020", "12/2018"}
	if len(recs) != len(periods) {
		t.Fatalf("expected %d records, got %d", len(periods), len(recs))
	}
	for i, p := range periods {
		if recs[i].Period != p {
			t.Fatalf("record %d: expected period %s, got %s", i, p, recs[i].Period)
		}
	}
}

func TestExtractRecordsPeriodIsOpaque(t *testing.T) {
	// Month digits are not range-checked: 13/2020 is a valid period token.
	recs, err := ExtractRecords("13/2020 10,00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 || recs[0].Period != "13/2020" {
		t.Fatalf("unexpected records: %+v", recs)
	}
}

func TestExtractRecordsAbortsOnBadAmount(t *testing.T) {
	// The permissive pattern accepts a comma in both grouping and decimal
	// position; normalization then fails and aborts the whole document.
	recs, err := ExtractRecords("01/2020 10,00\n02/2020 1,234,56")
	var convErr *ValueConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("expected *ValueConversionError, got %v", err)
	}
	if convErr.Raw != "1,234,56" {
		t.Fatalf("expected offending amount in error, got %q", convErr.Raw)
	}
	if recs != nil {
		t.Fatalf("expected no partial records, got %+v", recs)
	}
}

func TestMatchesIsLazy(t *testing.T) {
	text := "01/2020 10,00 02/2020 20,00 03/2020 30,00"
	var got []Match
	for m := range Matches(text) {
		got = append(got, m)
		if len(got) == 2 {
			break
		}
	}
	if len(got) != 2 || got[0].Period != "01/2020" || got[1].Period != "02/2020" {
		t.Fatalf("unexpected matches: %+v", got)
	}
}
