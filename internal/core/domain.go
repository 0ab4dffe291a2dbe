package core

import "fmt"

type (
	// Money is an amount in cents. Keeping cents avoids floating-point
	// drift between extraction and export.
	Money struct {
		Cents int64
	}

	// Record is one extracted (competência, valor) pair. Period keeps the
	// exact MM/YYYY token from the source text; it is never parsed as a date.
	Record struct {
		Period string
		Amount Money
	}
)

// ValueConversionError reports an amount string that could not be normalized
// into a numeric value. It carries the original raw token so callers can show
// it back to the user.
type ValueConversionError struct {
	Raw string
}

func (e *ValueConversionError) Error() string {
	return fmt.Sprintf("cannot convert amount %q to a number", e.Raw)
}

// Value returns the amount as a float64 for display and export purposes.
// Use cents for calculations to avoid floating-point precision issues.
func (m Money) Value() float64 {
	return float64(m.Cents) / 100.0
}
