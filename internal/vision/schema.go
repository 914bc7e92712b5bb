package vision

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// extractionSchema constrains the shape of the model's "data" object before
// any field coercion runs. Amounts are allowed as number or string because
// vision models return both; coercion sorts it out downstream.
const extractionSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "MerchantName":    {"type": ["string", "null"]},
    "MerchantAddress": {"type": ["string", "null"]},
    "TransactionDate": {"type": ["string", "null"]},
    "StoreID":         {"type": ["string", "number", "null"]},
    "InvoiceId":       {"type": ["string", "number", "null"]},
    "CR":              {"type": ["string", "number", "null"]},
    "TaxID":           {"type": ["string", "number", "null"]},
    "Subtotal":        {"type": ["string", "number", "null"]},
    "Tax":             {"type": ["string", "number", "null"]},
    "Total":           {"type": ["string", "number", "null"]}
  }
}`

var compiledExtractionSchema = jsonschema.MustCompileString("extraction.json", extractionSchema)

// ValidateExtraction checks a raw extraction payload against the expected
// receipt field shape. A failure means the model went off script (wrong
// types, nested junk), not that the receipt is bad.
func ValidateExtraction(raw map[string]any) error {
	if err := compiledExtractionSchema.Validate(map[string]any(raw)); err != nil {
		if ve, ok := err.(*jsonschema.ValidationError); ok {
			return fmt.Errorf("extraction payload rejected: %s", flattenValidationError(ve))
		}
		return fmt.Errorf("extraction payload rejected: %w", err)
	}
	return nil
}

func flattenValidationError(ve *jsonschema.ValidationError) string {
	leaves := ve.BasicOutput().Errors
	var parts []string
	for _, l := range leaves {
		if l.Error == "" {
			continue
		}
		loc := l.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		parts = append(parts, loc+": "+l.Error)
	}
	if len(parts) == 0 {
		return ve.Error()
	}
	return strings.Join(parts, "; ")
}
