package core

import (
	"iter"
	"regexp"
)

// recordPattern matches one "MM/YYYY<whitespace>amount" occurrence. The
// amount accepts '.' or ',' independently in every separator position;
// deciding which one is the decimal separator is the normalizer's job.
// The month digits are deliberately not range-checked.
var recordPattern = regexp.MustCompile(`(\d{2}/\d{4})\s+(\d+(?:[.,]\d{3})*[.,]\d{2})`)

// Match is one raw extractor hit, before amount normalization.
type Match struct {
	Period    string
	RawAmount string
}

// Matches scans text left to right and lazily yields each non-overlapping
// period/amount pair. Matches are independent of each other; a period with
// no trailing amount (or an amount with no leading period) yields nothing.
func Matches(text string) iter.Seq[Match] {
	return func(yield func(Match) bool) {
		rest := text
		for {
			loc := recordPattern.FindStringSubmatchIndex(rest)
			if loc == nil {
				return
			}
			m := Match{
				Period:    rest[loc[2]:loc[3]],
				RawAmount: rest[loc[4]:loc[5]],
			}
			if !yield(m) {
				return
			}
			rest = rest[loc[1]:]
		}
	}
}

// ExtractRecords returns every record of the document in order of first
// appearance. A document with zero matches yields an empty slice and no
// error. An amount that cannot be normalized aborts the whole document with
// *ValueConversionError; the caller decides how to surface it.
func ExtractRecords(text string) ([]Record, error) {
	var records []Record
	for m := range Matches(text) {
		cents, err := ParseAmountToCents(m.RawAmount)
		if err != nil {
			return nil, err
		}
		records = append(records, Record{Period: m.Period, Amount: Money{Cents: cents}})
	}
	return records, nil
}
