package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khatib49/Scan-ocr/internal/domain/matcher"
	"github.com/khatib49/Scan-ocr/internal/domain/qr"
)

func fptr(v float64) *float64 { return &v }
func sptr(v string) *string   { return &v }

func TestValidateAndScore_AllChecksPass(t *testing.T) {
	engine := New(DefaultConfig())
	fields := &ExtractedFields{
		Subtotal: fptr(100),
		Tax:      fptr(15),
		Total:    fptr(115),
	}

	res := engine.ValidateAndScore(fields, nil, nil)

	assert.True(t, res.Checks[CheckArithmetic])
	assert.True(t, res.Checks[CheckVATRate])
	assert.Equal(t, 0, res.FraudScore)
	assert.GreaterOrEqual(t, res.ConfidenceScore, 60)
	assert.Empty(t, res.Issues)

	Annotate(fields, res)
	assert.Equal(t, ReasonAllPassed, fields.Reason)
	assert.Equal(t, 0, fields.FraudScore)
}

func TestValidateAndScore_VATMismatch(t *testing.T) {
	engine := New(DefaultConfig())
	fields := &ExtractedFields{
		Subtotal: fptr(100),
		Tax:      fptr(5),
		Total:    fptr(105),
	}

	res := engine.ValidateAndScore(fields, nil, nil)

	// arithmetic still adds up, only the rate is off
	assert.True(t, res.Checks[CheckArithmetic])
	assert.False(t, res.Checks[CheckVATRate])
	assert.GreaterOrEqual(t, res.FraudScore, 15)
	require.Len(t, res.Issues, 1)
	assert.Contains(t, res.Issues[0], "VAT")
}

func TestValidateAndScore_ArithmeticMismatch(t *testing.T) {
	engine := New(DefaultConfig())
	fields := &ExtractedFields{
		Subtotal: fptr(100),
		Tax:      fptr(15),
		Total:    fptr(150),
	}

	res := engine.ValidateAndScore(fields, nil, nil)

	assert.False(t, res.Checks[CheckArithmetic])
	assert.GreaterOrEqual(t, res.FraudScore, 20)
	assert.Contains(t, res.Issues[0], "Subtotal + Tax != Total")
}

func TestValidateAndScore_ToleranceIsOneUnit(t *testing.T) {
	engine := New(DefaultConfig())
	fields := &ExtractedFields{
		Subtotal: fptr(100),
		Tax:      fptr(15),
		Total:    fptr(115.99),
	}

	res := engine.ValidateAndScore(fields, nil, nil)

	assert.True(t, res.Checks[CheckArithmetic])
}

func TestValidateAndScore_MissingNumbersSkipChecks(t *testing.T) {
	engine := New(DefaultConfig())
	fields := &ExtractedFields{Total: fptr(115)}

	res := engine.ValidateAndScore(fields, nil, nil)

	_, arithmeticRan := res.Checks[CheckArithmetic]
	_, vatRan := res.Checks[CheckVATRate]
	assert.False(t, arithmeticRan)
	assert.False(t, vatRan)
	assert.Equal(t, 0, res.FraudScore)
	assert.Equal(t, DefaultConfig().ConfidenceBase, res.ConfidenceScore)
}

func TestValidateAndScore_UnmatchedMerchantIsSuspicious(t *testing.T) {
	engine := New(DefaultConfig())
	fields := &ExtractedFields{MerchantName: sptr("Totally Real Shop")}

	res := engine.ValidateAndScore(fields, nil, nil)

	assert.False(t, res.Checks[CheckProfileFound])
	assert.Equal(t, DefaultConfig().NoProfileFraud, res.FraudScore)
	assert.Contains(t, res.Issues[0], "venue catalog")
}

func TestValidateAndScore_NoMerchantNoPenalty(t *testing.T) {
	engine := New(DefaultConfig())

	res := engine.ValidateAndScore(&ExtractedFields{}, nil, nil)

	assert.Equal(t, 0, res.FraudScore)
	assert.Empty(t, res.Issues)
}

func TestValidateAndScore_ProfileConsistency(t *testing.T) {
	engine := New(DefaultConfig())
	profile := &matcher.Profile{
		MerchantNameKeyword:    matcher.Keywords{"Roberto Coin"},
		MerchantAddressKeyword: matcher.Keywords{"Olaya"},
		SpendingRangeSAR:       "1000-50000",
		ExtractionHints:        map[string]string{"InvoiceId_Label": "Invoice No"},
	}
	fields := &ExtractedFields{
		MerchantName:    sptr("ROBERTO COIN JEWELRY LLC"),
		MerchantAddress: sptr("Olaya Street, Riyadh"),
		InvoiceID:       sptr("INV-100"),
		Total:           fptr(2500),
	}

	res := engine.ValidateAndScore(fields, profile, nil)

	assert.True(t, res.Checks[CheckProfileFound])
	assert.True(t, res.Checks[CheckMerchantName])
	assert.True(t, res.Checks[CheckAddress])
	assert.True(t, res.Checks[CheckSpendingRange])
	assert.True(t, res.Checks[CheckHintedFields])
	assert.Equal(t, 0, res.FraudScore)
	// base 30 + name 20 + address 10 + hint 5
	assert.Equal(t, 65, res.ConfidenceScore)
}

func TestValidateAndScore_ProfileNameMismatch(t *testing.T) {
	engine := New(DefaultConfig())
	profile := &matcher.Profile{MerchantNameKeyword: matcher.Keywords{"Roberto Coin"}}
	fields := &ExtractedFields{MerchantName: sptr("Some Other Store")}

	res := engine.ValidateAndScore(fields, profile, nil)

	assert.False(t, res.Checks[CheckMerchantName])
	assert.Equal(t, DefaultConfig().NameMatchFail, res.FraudScore)
	assert.Contains(t, res.Issues[0], "keyword")
}

func TestValidateAndScore_ArabicNameMatchesAcrossVariants(t *testing.T) {
	engine := New(DefaultConfig())
	// keyword spelled with ta marbuta, extraction came back with ha
	profile := &matcher.Profile{MerchantNameKeyword: matcher.Keywords{"مكتبة جرير"}}
	fields := &ExtractedFields{MerchantName: sptr("مكتبه جرير الرياض")}

	res := engine.ValidateAndScore(fields, profile, nil)

	assert.True(t, res.Checks[CheckMerchantName])
}

func TestValidateAndScore_SpendingRangeViolation(t *testing.T) {
	engine := New(DefaultConfig())
	profile := &matcher.Profile{
		MerchantNameKeyword: matcher.Keywords{"Roberto Coin"},
		SpendingRangeSAR:    "1000-50000",
	}
	fields := &ExtractedFields{
		MerchantName: sptr("Roberto Coin"),
		Total:        fptr(12),
	}

	res := engine.ValidateAndScore(fields, profile, nil)

	assert.False(t, res.Checks[CheckSpendingRange])
	assert.Contains(t, res.Issues[0], "spending range")
}

func TestValidateAndScore_QRAgreement(t *testing.T) {
	engine := New(DefaultConfig())
	fields := &ExtractedFields{
		Total: fptr(115),
		TaxID: sptr("310122393500003"),
	}
	vat := "310122393500003"
	qrFields := &qr.Fields{Total: fptr(115.05), VAT: &vat}

	res := engine.ValidateAndScore(fields, nil, qrFields)

	assert.True(t, res.Checks[CheckQRTotal])
	assert.True(t, res.Checks[CheckQRVat])
	assert.Equal(t, 0, res.FraudScore)
}

func TestValidateAndScore_QRMismatch(t *testing.T) {
	engine := New(DefaultConfig())
	fields := &ExtractedFields{Total: fptr(115), TaxID: sptr("111")}
	vat := "222"
	qrFields := &qr.Fields{Total: fptr(500), VAT: &vat}

	res := engine.ValidateAndScore(fields, nil, qrFields)

	assert.False(t, res.Checks[CheckQRTotal])
	assert.False(t, res.Checks[CheckQRVat])
	assert.Equal(t, 2*DefaultConfig().QRFail, res.FraudScore)
	assert.Len(t, res.Issues, 2)
}

func TestValidateAndScore_ScoresClamped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ArithmeticFail = 90
	cfg.VATFail = 90
	engine := New(cfg)
	fields := &ExtractedFields{
		Subtotal: fptr(100),
		Tax:      fptr(90),
		Total:    fptr(400),
	}

	res := engine.ValidateAndScore(fields, nil, nil)

	assert.Equal(t, 100, res.FraudScore)
	assert.LessOrEqual(t, res.ConfidenceScore, 100)
	assert.GreaterOrEqual(t, res.ConfidenceScore, 0)
}

func TestAnnotate_KeepsCallerReason(t *testing.T) {
	fields := &ExtractedFields{Reason: "model supplied reason"}

	Annotate(fields, Result{FraudScore: 10, ConfidenceScore: 40, Issues: []string{"x"}})

	assert.Equal(t, "model supplied reason", fields.Reason)
	assert.Equal(t, 10, fields.FraudScore)
	assert.Equal(t, 40, fields.ConfidentScore)
}

func TestAnnotate_JoinsIssues(t *testing.T) {
	fields := &ExtractedFields{}

	Annotate(fields, Result{Issues: []string{"first", "second"}})

	assert.Equal(t, "first; second", fields.Reason)
}

func TestFromRaw_Coercion(t *testing.T) {
	raw := map[string]any{
		"MerchantName":    "Panda",
		"MerchantAddress": "N/A",
		"TransactionDate": "01/03/2024 14:30",
		"InvoiceId":       "INV-9",
		"Subtotal":        "1,000.00 SAR",
		"Tax":             150.0,
		"Total":           "١١٥٠",
	}

	f := FromRaw(raw)

	require.NotNil(t, f.MerchantName)
	assert.Equal(t, "Panda", *f.MerchantName)
	assert.Nil(t, f.MerchantAddress)
	assert.Equal(t, "2024-03-01 14:30", *f.TransactionDate)
	assert.Equal(t, "INV-9", *f.InvoiceID)
	assert.Equal(t, 1000.0, *f.Subtotal)
	assert.Equal(t, 150.0, *f.Tax)
	assert.Equal(t, 1150.0, *f.Total)
	assert.Nil(t, f.CR)
	assert.Nil(t, f.TaxID)
}
