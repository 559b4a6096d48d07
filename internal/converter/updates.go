package converter

import (
	"fmt"
	"strconv"

	"github.com/ginjaninja78/locus-order-manager/internal/csvparser"
	"github.com/ginjaninja78/locus-order-manager/internal/types"
	"github.com/ginjaninja78/locus-order-manager/internal/validation"
	"github.com/shopspring/decimal"
)

// groupingPrefix is prepended verbatim to the DO item number, both in the
// grouping property and in the composite SKU.
const groupingPrefix = "0000"

// CompositeSKU builds the update-flow SKU: material + "-0000" + DO item.
// The DO item is concatenated as-is, never padded or truncated.
func CompositeSKU(material, doItem string) string {
	return material + "-" + groupingPrefix + doItem
}

// GroupingCode builds the grouping custom property: "0000" + DO item.
func GroupingCode(doItem string) string {
	return groupingPrefix + doItem
}

// CoerceUpdateTable checks that every row's packaging quantity and weight
// are numeric, in table order, before anything is grouped or sent.
func CoerceUpdateTable(data *csvparser.CSVData) error {
	for i, row := range data.Rows {
		line := lineOf(data, i)
		if _, err := validation.NumberField(row, ColUpdateQtyKemasan, line); err != nil {
			return err
		}
		if _, err := validation.NumberField(row, ColUpdateKgKemasan, line); err != nil {
			return err
		}
	}
	return nil
}

// BuildUpdates builds one line-item-update payload per group.
//
// Line item ids are the 1-based position of the row inside its order, not
// its position in the file. Volume is always zero: the update endpoint does
// not track it.
func BuildUpdates(groups []types.OrderGroup) ([]types.OrderUpdate, error) {
	updates := make([]types.OrderUpdate, 0, len(groups))

	for _, group := range groups {
		payload, err := buildUpdate(group)
		if err != nil {
			return nil, fmt.Errorf("order %q: %w", group.Key, err)
		}
		updates = append(updates, types.OrderUpdate{OrderID: group.Key, Payload: payload})
	}

	return updates, nil
}

func buildUpdate(group types.OrderGroup) (types.UpdatePayload, error) {
	lineItems := make([]types.LineItem, 0, len(group.Rows))
	looseItems := make([]types.LooseItem, 0, len(group.Rows))

	for i, row := range group.Rows {
		line := group.Lines[i]

		quantity, err := validation.NumberField(row, ColUpdateQtyKemasan, line)
		if err != nil {
			return types.UpdatePayload{}, err
		}
		weight, err := validation.NumberField(row, ColUpdateKgKemasan, line)
		if err != nil {
			return types.UpdatePayload{}, err
		}

		attrs := types.Attributes{
			Quantity: quantity,
			Weight:   weight,
			Volume:   decimal.Zero,
		}

		material := row[ColUpdateMaterial]
		doItem := row[ColUpdateDOItem]
		description := row[ColUpdateMaterialDescription]
		lineItemID := strconv.Itoa(i + 1)

		lineItems = append(lineItems, newLineItem(lineItemID, CompositeSKU(material, doItem), description, attrs, types.CustomProperties{
			KodeKarung:   row[ColUpdateKodeKarung],
			KodeMaterial: material,
			Grouping:     GroupingCode(doItem),
		}))
		looseItems = append(looseItems, types.LooseItem{
			LineItemID:       lineItemID,
			ActualAttributes: attrs,
		})
	}

	return types.UpdatePayload{
		LineItems:     lineItems,
		OrderedDetail: types.OrderedDetail{Loose: looseItems},
	}, nil
}
