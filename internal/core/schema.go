package core

import (
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/shopspring/decimal"
)

var (
	decimalType      = reflect.TypeOf(decimal.Decimal{})
	discountModeType = reflect.TypeOf(DiscountMode(""))
)

// OrderWriteSchema returns the JSON Schema of the submit payload, for the order store
// to validate incoming orders against.
func OrderWriteSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		Mapper:                    mapOrderTypes,
	}
	var v OrderWrite
	return reflector.Reflect(v)
}

func mapOrderTypes(t reflect.Type) *jsonschema.Schema {
	switch t {
	case decimalType:
		// decimal.Decimal marshals as a quoted string.
		return &jsonschema.Schema{
			Type:    "string",
			Pattern: `^-?[0-9]+(\.[0-9]+)?$`,
		}
	case discountModeType:
		return &jsonschema.Schema{
			Type: "string",
			Enum: []any{string(DiscountPercent), string(DiscountAmount)},
		}
	}
	return nil
}
