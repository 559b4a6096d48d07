// =============================================================================
// Locus Order Manager - Shared Types
// =============================================================================
//
// This package contains the data model shared by the converter, the
// dispatcher and the CLI. Keeping it separate avoids import cycles between
// the packages that build payloads and the packages that send them.
//
// WIRE SCHEMA:
//   The payload types mirror the Locus order-management JSON schema. Line item
//   attributes are held as decimal.Decimal while payloads are being built and
//   are normalized to plain JSON numbers by the jsonwriter package. Order
//   totals are float64 so they equal the sum of the encoded item values.
//
// =============================================================================

package types

import "github.com/shopspring/decimal"

// =============================================================================
// TABULAR INPUT
// =============================================================================

// Row is one data line of the input file, keyed by trimmed column header.
// Rows are never modified after parsing.
type Row map[string]string

// Has reports whether the column exists in the row.
func (r Row) Has(column string) bool {
	_, ok := r[column]
	return ok
}

// OrderGroup is a group key plus the rows sharing it, in input order.
type OrderGroup struct {
	// Key is the order identifier (DO number). It may be empty.
	Key string

	// Rows contains every row carrying Key, in original relative order.
	Rows []Row

	// Lines holds the source record number of each row, parallel to Rows.
	// Used for error reporting.
	Lines []int
}

// =============================================================================
// LOCUS PAYLOAD TYPES
// =============================================================================

// Unit and type constants used by the Locus schema.
const (
	OrderTypeDrop = "DROP"

	UnitTypeQuantity = "QUANTITY"
	UnitTypeWeight   = "WEIGHT"

	QuantityUnitPiece = "PC"
	WeightUnitKG      = "KG"
	VolumeUnitCM      = "CM"
)

// CustomProperties carries the vendor-specific attributes of a line item.
type CustomProperties struct {
	KodeKarung   string `json:"kode-karung"`
	KodeMaterial string `json:"kode-material"`
	Grouping     string `json:"grouping"`
}

// UnitOfTransaction names one unit a line item is transacted in.
type UnitOfTransaction struct {
	UnitType string `json:"unitType"`
}

// Attributes holds the measurable quantities of a line item.
type Attributes struct {
	Quantity decimal.Decimal `json:"quantity"`
	Weight   decimal.Decimal `json:"weight"`
	Volume   decimal.Decimal `json:"volume"`
}

// AttributesUnit holds the units Attributes are expressed in.
type AttributesUnit struct {
	QuantityUnit string `json:"quantityUnit"`
	WeightUnit   string `json:"weightUnit"`
	VolumeUnit   string `json:"volumeUnit"`
}

// LineItem is one ordered item. LineItemID is the 1-based position of the
// item within its order, independent of the source row index.
type LineItem struct {
	CustomProperties    CustomProperties    `json:"customProperties"`
	LineItemID          string              `json:"lineItemId"`
	SKUID               string              `json:"skuId"`
	Name                string              `json:"name"`
	Description         string              `json:"description"`
	UnitsOfTransactions []UnitOfTransaction `json:"unitsOfTransactions"`
	Parts               []string            `json:"parts"`
	Attributes          Attributes          `json:"attributes"`
	AttributesUnit      AttributesUnit      `json:"attributesUnit"`
}

// LooseItem is the actual-quantity record of a line item. It shares the
// LineItemID of the LineItem it mirrors.
type LooseItem struct {
	LineItemID       string     `json:"lineItemId"`
	ActualAttributes Attributes `json:"actualAttributes"`
}

// OrderedDetail wraps the loose item list.
type OrderedDetail struct {
	Loose []LooseItem `json:"loose"`
}

// LineItemDetails holds the parallel line item and loose item lists.
type LineItemDetails struct {
	LineItems     []LineItem    `json:"lineItems"`
	OrderedDetail OrderedDetail `json:"orderedDetail"`
}

// Measure is an aggregate value with its unit. Value is the float64 sum of
// the line item values as they are encoded, added in input order.
type Measure struct {
	Value float64 `json:"value"`
	Unit  string          `json:"unit"`
}

// OrderPayload is one order of the new-order flow.
//
// Volume and Weight are always the sums of the line item attributes; they
// have no independent source.
type OrderPayload struct {
	ID              string          `json:"id"`
	Type            string          `json:"type"`
	TeamID          string          `json:"teamId"`
	HomebaseID      string          `json:"homebaseId"`
	Date            string          `json:"date"`
	LocationID      string          `json:"locationId"`
	OrderDate       string          `json:"orderDate"`
	Volume          Measure         `json:"volume"`
	Weight          Measure         `json:"weight"`
	LineItemDetails LineItemDetails `json:"lineItemDetails"`
}

// UploadEnvelope is the body of the batched new-order request.
type UploadEnvelope struct {
	Requests []OrderPayload `json:"requests"`
}

// UpdatePayload is the line-item-update body for one existing order.
type UpdatePayload struct {
	LineItems     []LineItem    `json:"lineItems"`
	OrderedDetail OrderedDetail `json:"orderedDetail"`
}

// OrderUpdate pairs an update payload with the order it targets.
type OrderUpdate struct {
	OrderID string
	Payload UpdatePayload
}

// =============================================================================
// SUBMISSION RESULTS
// =============================================================================

// SubmissionResult is the outcome of one update request.
type SubmissionResult struct {
	// OrderID is the order the request targeted.
	OrderID string

	// Success is true only for an HTTP 200 response.
	Success bool

	// StatusCode is the HTTP status, or 0 if the server was never reached.
	StatusCode int

	// Message is the human-readable outcome line.
	Message string

	// Body is the raw response body, if any.
	Body string

	// Err is the transport error, if any.
	Err error
}

// UploadResult is the outcome of the batched new-order request.
type UploadResult struct {
	// StatusCode is the HTTP status returned by the upload endpoint.
	StatusCode int

	// Body is the response body. When IsJSON is true it is indented JSON.
	Body string

	// IsJSON reports whether the body parsed as JSON.
	IsJSON bool

	// Orders is the number of orders in the envelope.
	Orders int

	// LineItems is the number of line items across all orders.
	LineItems int
}

// Success reports whether the upload endpoint answered with a 2xx status.
func (r UploadResult) Success() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
