// =============================================================================
// Locus Order Manager - CSV Parser Module
// =============================================================================
//
// This module reads order exports into rows keyed by column header.
//
// FEATURES:
//   - Configurable delimiter (comma by default)
//   - UTF-8 byte-order mark tolerated (exports from Excel carry one)
//   - Header names trimmed before use as keys
//   - Empty lines skipped, short lines padded with empty cells
//   - Every row remembers its line number for error reporting
//
// All cells are kept as strings. Typed coercion happens later, in the
// validation package, so that each flow can decide which columns to coerce.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/locus-order-manager/internal/config"
	"github.com/ginjaninja78/locus-order-manager/internal/types"
)

// ErrEmptyFile is returned when the input has no header row.
var ErrEmptyFile = errors.New("file is empty")

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// =============================================================================
// CSV DATA STRUCTURE
// =============================================================================

// CSVData represents a parsed table.
type CSVData struct {
	// Headers contains the trimmed column headers.
	Headers []string

	// Rows contains the data rows as header -> value maps.
	Rows []types.Row

	// LineNumbers holds the 1-indexed source record of each row in Rows.
	// The header is record 1. Blank lines skipped by the reader are not counted.
	LineNumbers []int

	// SourceFile is the name of the file the data came from, if known.
	SourceFile string
}

// HasColumn reports whether the table has a column with the given header.
func (d *CSVData) HasColumn(header string) bool {
	for _, h := range d.Headers {
		if h == header {
			return true
		}
	}
	return false
}

// RequireColumns returns an error naming every missing column.
func (d *CSVData) RequireColumns(headers ...string) error {
	var missing []string
	for _, h := range headers {
		if !d.HasColumn(h) {
			missing = append(missing, h)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required column(s): %s", strings.Join(missing, ", "))
	}
	return nil
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads CSV content and returns the parsed table.
//
// PARAMETERS:
//   - r: The CSV content. A leading UTF-8 byte-order mark is discarded.
//   - settings: The CSV parsing settings from the configuration.
//
// RETURNS:
//   - A pointer to the CSVData struct containing the parsed data.
//   - An error if the content cannot be read or has no header row.
func Parse(r io.Reader, settings config.CSVSettings) (*CSVData, error) {
	reader := bufio.NewReader(r)
	if prefix, err := reader.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = reader.Discard(len(byteOrderMark))
	}

	csvReader := csv.NewReader(reader)
	configureReader(csvReader, settings)

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	return FromRecords(records)
}

// FromRecords builds a CSVData from raw records whose first non-empty record
// is the header. It is shared with the XLSX reader.
func FromRecords(records [][]string) (*CSVData, error) {
	headerIndex := -1
	for i, record := range records {
		if !isRowEmpty(record) {
			headerIndex = i
			break
		}
	}
	if headerIndex < 0 {
		return nil, ErrEmptyFile
	}

	headers := cleanHeaders(records[headerIndex])
	data := &CSVData{
		Headers:     headers,
		Rows:        make([]types.Row, 0, len(records)-headerIndex-1),
		LineNumbers: make([]int, 0, len(records)-headerIndex-1),
	}

	for i := headerIndex + 1; i < len(records); i++ {
		record := records[i]
		if isRowEmpty(record) {
			continue
		}

		row := make(types.Row, len(headers))
		for col, header := range headers {
			if col < len(record) {
				row[header] = strings.TrimSpace(record[col])
			} else {
				row[header] = ""
			}
		}

		data.Rows = append(data.Rows, row)
		data.LineNumbers = append(data.LineNumbers, i+1)
	}

	return data, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	switch settings.Delimiter {
	case "\\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = rune(settings.Delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	// Exports are not always rectangular.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

// cleanHeaders trims header names and names blank headers by position.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))

	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}

	return cleaned
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
