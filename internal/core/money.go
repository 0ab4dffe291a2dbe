// Package core extracts (competência, valor) records from the text of a
// contribution-time certificate (CTC).
//
// This file contains the amount normalizer: it decides, per value, which of
// '.' and ',' is the decimal separator and converts the string to cents.
package core

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
)

// ParseAmountToCents converts a raw amount string to cents.
//
// CTC certificates mix two number layouts: the old one uses '.' for grouping
// and ',' for decimals (2.258,31) while the new one is the reverse (1,031.87).
// No locale hint is available, so when both characters are present the one
// that occurs last in the string is taken as the decimal separator. This is a
// heuristic: a value genuinely mixing both conventions cannot be resolved
// with certainty.
//
// Examples:
//
//	ParseAmountToCents("732,47")   -> 73247, nil
//	ParseAmountToCents("2.258,31") -> 225831, nil
//	ParseAmountToCents("1,031.87") -> 103187, nil
//	ParseAmountToCents("100.50")   -> 10050, nil
//
// Inputs that do not normalize to a numeric literal fail with
// *ValueConversionError carrying the original string.
func ParseAmountToCents(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, &ValueConversionError{Raw: raw}
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			// Comma is decimal, dots are grouping: 2.258,31 -> 2258.31
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			// Dot is decimal, commas are grouping: 1,031.87 -> 1031.87
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		// Only commas: no grouping character present, pure decimal
		// substitution (732,47 -> 732.47).
		s = strings.ReplaceAll(s, ",", ".")
	}
	// Only dots, or digits only: already a plain decimal.

	cents, err := decimalToCents(s)
	if err != nil {
		return 0, &ValueConversionError{Raw: raw}
	}
	return cents, nil
}

var errInvalidDecimal = errors.New("invalid decimal")

// decimalToCents converts a dot-decimal string to cents with half-up
// rounding on the third fractional digit.
func decimalToCents(s string) (int64, error) {
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Certificate amounts are unsigned
		return 0, errInvalidDecimal
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, errInvalidDecimal
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" && fracPart == "" {
		// A bare separator normalizes to nothing parseable
		return 0, errInvalidDecimal
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, errInvalidDecimal
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, errInvalidDecimal
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, errInvalidDecimal
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, errInvalidDecimal
	}
	// Take the first two fractional digits; half-up rounding on the third
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	return iv*100 + fracCents, nil
}
