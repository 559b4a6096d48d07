// =============================================================================
// Locus Order Manager - Field Coercion
// =============================================================================
//
// This module turns raw cell strings into typed values. It is the only place
// where input data is checked; there is no schema validation beyond the
// coercions below.
//
// COERCIONS:
//   - Dates:   DD.MM.YYYY  -> YYYY-MM-DD (FormatError on mismatch, D.M.YYYY accepted)
//   - Numbers: decimal text -> decimal.Decimal (TypeError on non-numeric text)
//
// ERROR HANDLING:
//   Both error types carry the column, the 1-indexed data line and the
//   offending value so the CLI can report a single precise message. Callers
//   abort the whole flow on the first coercion error.
//
// =============================================================================

package validation

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DATE LAYOUTS
// =============================================================================

const (
	// SourceDateLayout is the layout of dates in the input files (DD.MM.YYYY).
	// Day and month may also be written with a single digit (5.3.2024).
	SourceDateLayout = "2.1.2006"

	// TargetDateLayout is the layout the Locus API expects (YYYY-MM-DD).
	TargetDateLayout = "2006-01-02"
)

// missingMarkers are cell values treated as "no value", in lower case.
var missingMarkers = map[string]bool{
	"":     true,
	"nan":  true,
	"na":   true,
	"n/a":  true,
	"#n/a": true,
	"null": true,
	"none": true,
}

// =============================================================================
// ERROR TYPES
// =============================================================================

// FormatError reports a value that does not match an expected layout.
type FormatError struct {
	Column string
	Line   int
	Value  string
	Layout string
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	return fmt.Sprintf("line %d, column '%s': value '%s' does not match format %s",
		e.Line, e.Column, e.Value, e.Layout)
}

// TypeError reports a value that cannot be coerced to the required type.
type TypeError struct {
	Column string
	Line   int
	Value  string
	Type   string
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	if strings.TrimSpace(e.Value) == "" {
		return fmt.Sprintf("line %d, column '%s': empty value cannot be converted to %s",
			e.Line, e.Column, e.Type)
	}
	return fmt.Sprintf("line %d, column '%s': value '%s' cannot be converted to %s",
		e.Line, e.Column, e.Value, e.Type)
}

// =============================================================================
// COERCION FUNCTIONS
// =============================================================================

// ParseDate converts a DD.MM.YYYY date into YYYY-MM-DD.
//
// PARAMETERS:
//   - value: The raw cell value. Surrounding whitespace is ignored.
//
// RETURNS:
//   - The normalized date string.
//   - A *FormatError if the value is not a valid DD.MM.YYYY date. Values
//     that are already normalized ("2024-03-05") are rejected, not passed
//     through.
func ParseDate(value string) (string, error) {
	trimmed := strings.TrimSpace(value)

	parsed, err := time.Parse(SourceDateLayout, trimmed)
	if err != nil {
		return "", &FormatError{Value: value, Layout: "DD.MM.YYYY"}
	}

	return parsed.Format(TargetDateLayout), nil
}

// ParseNumber converts a cell value into a decimal.
//
// Empty cells, non-numeric text and values outside float64 range fail with
// a *TypeError; use IsMissing first where a fallback column applies.
func ParseNumber(value string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return decimal.Zero, &TypeError{Value: value, Type: "float"}
	}

	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, &TypeError{Value: value, Type: "float"}
	}

	// Values beyond float64 range cannot be encoded as JSON numbers.
	if f := d.InexactFloat64(); math.IsInf(f, 0) {
		return decimal.Zero, &TypeError{Value: value, Type: "float"}
	}

	return d, nil
}

// IsMissing reports whether a cell holds no value (empty or a NaN marker).
func IsMissing(value string) bool {
	return missingMarkers[strings.ToLower(strings.TrimSpace(value))]
}

// =============================================================================
// ROW HELPERS
// =============================================================================

// DateField parses a date column and attaches column/line context to errors.
func DateField(row map[string]string, column string, line int) (string, error) {
	normalized, err := ParseDate(row[column])
	if err != nil {
		fe := err.(*FormatError)
		fe.Column = column
		fe.Line = line
		return "", fe
	}
	return normalized, nil
}

// NumberField parses a numeric column and attaches column/line context to errors.
func NumberField(row map[string]string, column string, line int) (decimal.Decimal, error) {
	d, err := ParseNumber(row[column])
	if err != nil {
		te := err.(*TypeError)
		te.Column = column
		te.Line = line
		return decimal.Zero, te
	}
	return d, nil
}
