package vision

import (
	"encoding/json"
	"strings"

	"github.com/khatib49/Scan-ocr/internal/domain/matcher"
)

// FallbackSystemPrompt is used when no prompt is configured.
const FallbackSystemPrompt = `You are a Professional Receipt & Invoice Analyzer. Return STRICT JSON only, under a single top-level "data" object with the keys: MerchantName, MerchantAddress, TransactionDate, StoreID, InvoiceId, CR, TaxID, Subtotal, Tax, Total. Use null for anything not visible on the receipt.`

// hintKeys are the ExtractionHints forwarded to the model. Anything else
// a catalog author put in the hints map stays server-side.
var hintKeys = map[string]struct{}{
	"Language":        {},
	"Total_Label":     {},
	"Subtotal_Label":  {},
	"Tax_Label":       {},
	"CR_Label":        {},
	"TaxID_Label":     {},
	"Date_Label":      {},
	"Time_Label":      {},
	"Date_Format":     {},
	"Time_Format":     {},
	"InvoiceId_Label": {},
	"StoreID_Label":   {},
}

// BuildSystemPrompt appends the matched venue profile's extraction hints
// to the base prompt. The hints are context only; the model must not use
// them to overwrite what it sees on the image.
func BuildSystemPrompt(base string, profile *matcher.Profile) string {
	base = strings.TrimSpace(base)
	if profile == nil {
		return base
	}

	hints := map[string]string{}
	for k, v := range profile.Hints() {
		if _, keep := hintKeys[k]; keep && v != "" {
			hints[k] = v
		}
	}

	slim := map[string]any{
		"ExtractionHints":         hints,
		"MerchantName_Keyword":    profile.MerchantNameKeyword,
		"MerchantAddress_Keyword": profile.MerchantAddressKeyword,
	}
	if profile.SpendingRangeSAR != "" {
		slim["SpendingRange"] = profile.SpendingRangeSAR
	}

	blob, err := json.Marshal(slim)
	if err != nil {
		return base
	}
	return base + "\n\n---\nCONTEXT VENUE PROFILE (for hints only; do not overwrite image values):\n" + string(blob)
}
