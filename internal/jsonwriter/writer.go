// =============================================================================
// Locus Order Manager - JSON Writer Module
// =============================================================================
//
// This module turns built payloads into the JSON documents sent to the Locus
// API.
//
// NORMALIZATION:
//   Payloads are built with decimal.Decimal attributes so that totals add up
//   exactly. encoding/json would serialize a decimal as a quoted string
//   ("12.5"), which the API rejects. Before encoding, Normalize walks the
//   whole payload tree and rewrites it into plain JSON values:
//
//     decimal.Decimal, json.Number, float32  -> float64
//     signed / unsigned integers            -> int64 / uint64
//     structs                               -> map[string]any (json tags honored)
//     slices, arrays                        -> []any (nil becomes [])
//     maps                                  -> map[string]any
//
//   Object keys are emitted in sorted order, as encoding/json does for maps.
//
// =============================================================================

package jsonwriter

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	decimalType    = reflect.TypeOf(decimal.Decimal{})
	jsonNumberType = reflect.TypeOf(json.Number(""))
)

// =============================================================================
// GENERATION OPTIONS
// =============================================================================

// GenerateOptions contains options for JSON generation.
type GenerateOptions struct {
	// Indent is the per-level indentation. Empty produces compact output.
	Indent string
}

// DefaultGenerateOptions returns compact output, the form sent on the wire.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{}
}

// =============================================================================
// GENERATION FUNCTIONS
// =============================================================================

// Generate normalizes a payload and encodes it as compact JSON.
func Generate(payload any) ([]byte, error) {
	return GenerateWithOptions(payload, DefaultGenerateOptions())
}

// GenerateWithOptions normalizes a payload and encodes it with custom options.
//
// RETURNS:
//   - The JSON document.
//   - An error if a value cannot be represented in JSON (NaN, Inf, channels).
func GenerateWithOptions(payload any, options GenerateOptions) ([]byte, error) {
	tree := Normalize(payload)

	var (
		out []byte
		err error
	)
	if options.Indent != "" {
		out, err = json.MarshalIndent(tree, "", options.Indent)
	} else {
		out, err = json.Marshal(tree)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}

	return out, nil
}

// =============================================================================
// NORMALIZATION
// =============================================================================

// Normalize converts a payload into a tree of plain JSON values: maps,
// slices, strings, bools, nil and native numbers. See the package header
// for the conversion table.
func Normalize(v any) any {
	return normalizeValue(reflect.ValueOf(v))
}

func normalizeValue(rv reflect.Value) any {
	if !rv.IsValid() {
		return nil
	}

	switch rv.Type() {
	case decimalType:
		return rv.Interface().(decimal.Decimal).InexactFloat64()
	case jsonNumberType:
		n := rv.Interface().(json.Number)
		if i, err := n.Int64(); err == nil {
			return i
		}
		if f, err := n.Float64(); err == nil {
			return f
		}
		return n.String()
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return normalizeValue(rv.Elem())

	case reflect.Struct:
		return normalizeStruct(rv)

	case reflect.Map:
		if rv.IsNil() {
			return nil
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[mapKey(iter.Key())] = normalizeValue(iter.Value())
		}
		return out

	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = normalizeValue(rv.Index(i))
		}
		return out

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint()

	case reflect.Float32, reflect.Float64:
		return rv.Float()

	case reflect.Bool:
		return rv.Bool()

	case reflect.String:
		return rv.String()

	default:
		return rv.Interface()
	}
}

// normalizeStruct maps exported fields to their JSON names.
func normalizeStruct(rv reflect.Value) map[string]any {
	rt := rv.Type()
	out := make(map[string]any, rt.NumField())

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		name, omitEmpty, skip := parseTag(field)
		if skip {
			continue
		}

		value := rv.Field(i)
		if omitEmpty && value.IsZero() {
			continue
		}

		out[name] = normalizeValue(value)
	}

	return out
}

func parseTag(field reflect.StructField) (name string, omitEmpty bool, skip bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}

	name = field.Name
	parts := strings.Split(tag, ",")
	if parts[0] != "" {
		name = parts[0]
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}

func mapKey(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	return fmt.Sprint(k.Interface())
}
