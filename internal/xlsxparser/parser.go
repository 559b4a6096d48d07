// =============================================================================
// Locus Order Manager - XLSX Reader
// =============================================================================
//
// This module reads order exports saved as Excel workbooks. Planners often
// keep the SAP export as .xlsx instead of re-saving it as CSV; the rows are
// read from the first sheet (or a named sheet) and handed to the CSV parser's
// record builder so both formats produce identical rows.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"io"

	"github.com/ginjaninja78/locus-order-manager/internal/csvparser"
	"github.com/xuri/excelize/v2"
)

// Parse reads the first sheet of a workbook.
func Parse(r io.Reader) (*csvparser.CSVData, error) {
	return ParseSheet(r, "")
}

// ParseSheet reads a named sheet of a workbook.
//
// PARAMETERS:
//   - r: The workbook content.
//   - sheetName: The sheet to read. Empty selects the first sheet.
//
// RETURNS:
//   - The parsed table. The first non-empty row is the header.
//   - An error if the workbook cannot be opened or the sheet is missing.
func ParseSheet(r io.Reader, sheetName string) (*csvparser.CSVData, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	if sheetName == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheetName = sheets[0]
	}

	if idx, err := f.GetSheetIndex(sheetName); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q not found", sheetName)
	}

	// Cell values are read formatted, so dates typed as text stay DD.MM.YYYY.
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %q: %w", sheetName, err)
	}

	return csvparser.FromRecords(rows)
}
