package converter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ginjaninja78/locus-order-manager/internal/types"
	"github.com/ginjaninja78/locus-order-manager/internal/validation"
	"github.com/shopspring/decimal"
)

// orderHeader holds the order-level fields of a new-order group.
type orderHeader struct {
	DocumentDate string
	Plant        string
	ShipTo       string
}

// extractHeader reads the order-level fields from the first row of a group.
//
// The export repeats these fields on every line of a delivery order. Only
// the first row is read; rows that disagree with it are not detected.
func extractHeader(group types.OrderGroup) (orderHeader, error) {
	first := group.Rows[0]

	date, err := validation.DateField(first, ColDocumentDate, group.Lines[0])
	if err != nil {
		return orderHeader{}, err
	}

	return orderHeader{
		DocumentDate: date,
		Plant:        first[ColPlant],
		ShipTo:       first[ColShipTo],
	}, nil
}

// BuildOrders builds one new-order payload per group.
//
// Line item ids run 1..N inside each order. Volume and weight totals are the
// float64 sums of the line item values in input order, so they match the
// sum of the numbers sent. The first coercion error aborts the build.
func BuildOrders(groups []types.OrderGroup) ([]types.OrderPayload, error) {
	payloads := make([]types.OrderPayload, 0, len(groups))

	for _, group := range groups {
		payload, err := buildOrder(group)
		if err != nil {
			return nil, fmt.Errorf("order %q: %w", group.Key, err)
		}
		payloads = append(payloads, payload)
	}

	return payloads, nil
}

func buildOrder(group types.OrderGroup) (types.OrderPayload, error) {
	if len(group.Rows) == 0 {
		return types.OrderPayload{}, fmt.Errorf("group has no rows")
	}

	header, err := extractHeader(group)
	if err != nil {
		return types.OrderPayload{}, err
	}

	var totalWeight, totalVolume float64
	lineItems := make([]types.LineItem, 0, len(group.Rows))
	looseItems := make([]types.LooseItem, 0, len(group.Rows))

	for i, row := range group.Rows {
		line := group.Lines[i]

		quantity, err := orderQuantity(row, line)
		if err != nil {
			return types.OrderPayload{}, err
		}

		baseQty, err := validation.NumberField(row, ColQtySOInBU, line)
		if err != nil {
			return types.OrderPayload{}, err
		}

		// Weight and volume are both the base-unit quantity in this export.
		attrs := types.Attributes{
			Quantity: quantity,
			Weight:   baseQty,
			Volume:   baseQty,
		}

		material := strings.TrimSpace(row[ColMaterial])
		description := strings.TrimSpace(row[ColMaterialDescription])
		lineItemID := strconv.Itoa(i + 1)

		lineItems = append(lineItems, newLineItem(lineItemID, material, description, attrs, types.CustomProperties{
			KodeKarung:   "",
			KodeMaterial: material,
			Grouping:     "",
		}))
		looseItems = append(looseItems, types.LooseItem{
			LineItemID:       lineItemID,
			ActualAttributes: attrs,
		})

		// Totals add the values as they are encoded, not the exact decimals.
		totalWeight += attrs.Weight.InexactFloat64()
		totalVolume += attrs.Volume.InexactFloat64()
	}

	return types.OrderPayload{
		ID:         group.Key,
		Type:       types.OrderTypeDrop,
		TeamID:     header.Plant,
		HomebaseID: header.Plant,
		Date:       header.DocumentDate,
		LocationID: header.ShipTo,
		OrderDate:  header.DocumentDate,
		Volume:     types.Measure{Value: totalVolume, Unit: types.VolumeUnitCM},
		Weight:     types.Measure{Value: totalWeight, Unit: types.WeightUnitKG},
		LineItemDetails: types.LineItemDetails{
			LineItems:     lineItems,
			OrderedDetail: types.OrderedDetail{Loose: looseItems},
		},
	}, nil
}

// orderQuantity prefers the packaging quantity and falls back to the sales
// unit quantity when the packaging column is absent or empty.
func orderQuantity(row types.Row, line int) (decimal.Decimal, error) {
	if row.Has(ColQtyKemasan) && !validation.IsMissing(row[ColQtyKemasan]) {
		return validation.NumberField(row, ColQtyKemasan, line)
	}
	return validation.NumberField(row, ColQtySOInSU, line)
}

// newLineItem fills the fixed parts of a line item.
func newLineItem(id, sku, description string, attrs types.Attributes, props types.CustomProperties) types.LineItem {
	return types.LineItem{
		CustomProperties: props,
		LineItemID:       id,
		SKUID:            sku,
		Name:             description,
		Description:      description,
		UnitsOfTransactions: []types.UnitOfTransaction{
			{UnitType: types.UnitTypeQuantity},
			{UnitType: types.UnitTypeWeight},
		},
		Parts:      []string{},
		Attributes: attrs,
		AttributesUnit: types.AttributesUnit{
			QuantityUnit: types.QuantityUnitPiece,
			WeightUnit:   types.WeightUnitKG,
			VolumeUnit:   types.VolumeUnitCM,
		},
	}
}
