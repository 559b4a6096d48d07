package converter

import (
	"github.com/ginjaninja78/locus-order-manager/internal/csvparser"
	"github.com/ginjaninja78/locus-order-manager/internal/types"
)

// GroupRows partitions the rows of a table by the value of column.
//
// Groups come back in the order their key was first seen, and rows keep
// their relative order inside each group. A missing or empty key is a key
// like any other (""): no row is ever dropped.
func GroupRows(data *csvparser.CSVData, column string) []types.OrderGroup {
	index := make(map[string]int)
	var groups []types.OrderGroup

	for i, row := range data.Rows {
		key := row[column]

		pos, exists := index[key]
		if !exists {
			pos = len(groups)
			index[key] = pos
			groups = append(groups, types.OrderGroup{Key: key})
		}

		groups[pos].Rows = append(groups[pos].Rows, row)
		groups[pos].Lines = append(groups[pos].Lines, lineOf(data, i))
	}

	return groups
}

// lineOf returns the source record of row i, falling back to its position
// when the table was built without line numbers.
func lineOf(data *csvparser.CSVData, i int) int {
	if i < len(data.LineNumbers) {
		return data.LineNumbers[i]
	}
	return i + 2
}
