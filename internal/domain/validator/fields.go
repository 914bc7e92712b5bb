package validator

import (
	"github.com/khatib49/Scan-ocr/internal/domain/coerce"
)

// ExtractedFields is the record under validation: what the vision model
// read off the receipt, defensively coerced. String fields are nil when
// the model returned a nullish sentinel; numbers are nil when they did
// not parse. FraudScore, ConfidentScore and Reason are filled in by the
// scoring engine.
type ExtractedFields struct {
	MerchantName    *string  `json:"MerchantName"`
	MerchantAddress *string  `json:"MerchantAddress"`
	TransactionDate *string  `json:"TransactionDate"`
	StoreID         *string  `json:"StoreID"`
	InvoiceID       *string  `json:"InvoiceId"`
	CR              *string  `json:"CR"`
	TaxID           *string  `json:"TaxID"`
	Subtotal        *float64 `json:"Subtotal"`
	Tax             *float64 `json:"Tax"`
	Total           *float64 `json:"Total"`

	FraudScore     int    `json:"fraudScore"`
	ConfidentScore int    `json:"confidentScore"`
	Reason         string `json:"reason"`
}

// FromRaw coerces a loosely-typed extraction payload (the "data" object
// of the vision response) into typed fields. Every value is treated as
// untrusted: nullish sentinels become nil, Arabic-Indic numerals parse,
// and the transaction date is normalized to "YYYY-MM-DD HH:MM" where
// possible. Never fails; garbage coerces to nil.
func FromRaw(raw map[string]any) *ExtractedFields {
	f := &ExtractedFields{
		MerchantName:    coerce.Nullish(raw["MerchantName"]),
		MerchantAddress: coerce.Nullish(raw["MerchantAddress"]),
		TransactionDate: coerce.Nullish(raw["TransactionDate"]),
		StoreID:         coerce.Nullish(raw["StoreID"]),
		InvoiceID:       coerce.Nullish(raw["InvoiceId"]),
		CR:              coerce.Nullish(raw["CR"]),
		TaxID:           coerce.Nullish(raw["TaxID"]),
		Subtotal:        coerce.Number(raw["Subtotal"]),
		Tax:             coerce.Number(raw["Tax"]),
		Total:           coerce.Number(raw["Total"]),
	}
	if f.TransactionDate != nil {
		d := coerce.Date(*f.TransactionDate)
		f.TransactionDate = &d
	}
	return f
}

// str dereferences a nullable string field.
func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
