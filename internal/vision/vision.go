// Package vision calls the external vision model that reads receipt
// images. The engine treats it as an untrusted collaborator: whatever
// comes back is schema-checked and defensively coerced downstream.
package vision

import (
	"context"
)

// ProbeGuess is the cheap first-pass read of a receipt: just enough to
// look up a venue profile before the main extraction call.
type ProbeGuess struct {
	Merchant string `json:"m"`
	Address  string `json:"a"`
}

// Extractor is the vision-model capability the analysis pipeline needs.
type Extractor interface {
	// Probe extracts only the merchant name and address from the image.
	Probe(ctx context.Context, imageB64 string) (ProbeGuess, error)

	// Extract runs the main extraction with the given system prompt and
	// returns the raw "data" object of the model's JSON response.
	Extract(ctx context.Context, imageB64, systemPrompt string) (map[string]any, error)
}
