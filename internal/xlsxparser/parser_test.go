package xlsxparser

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, sheet string, rows [][]any) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParseFirstSheet(t *testing.T) {
	buf := workbook(t, "Sheet1", [][]any{
		{"DO Number", "Document Date", "Qty SO in BU"},
		{"DO1", "05.03.2024", "10"},
		{"DO2", "06.03.2024", "2.5"},
	})

	data, err := Parse(buf)
	require.NoError(t, err)

	assert.Equal(t, []string{"DO Number", "Document Date", "Qty SO in BU"}, data.Headers)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, "05.03.2024", data.Rows[0]["Document Date"])
	assert.Equal(t, "2.5", data.Rows[1]["Qty SO in BU"])
}

func TestParseSheetByName(t *testing.T) {
	buf := workbook(t, "Updates", [][]any{
		{"DO NO", "KG KEMASAN"},
		{"8001", "25"},
	})

	data, err := ParseSheet(buf, "Updates")
	require.NoError(t, err)
	require.Len(t, data.Rows, 1)
	assert.Equal(t, "8001", data.Rows[0]["DO NO"])
}

func TestParseSheetMissing(t *testing.T) {
	buf := workbook(t, "Sheet1", [][]any{{"a"}, {"1"}})

	_, err := ParseSheet(buf, "Nope")
	assert.ErrorContains(t, err, `sheet "Nope" not found`)
}

func TestParseNotAWorkbook(t *testing.T) {
	_, err := Parse(bytes.NewBufferString("DO NO,MATERIAL\n"))
	assert.ErrorContains(t, err, "failed to open xlsx")
}
