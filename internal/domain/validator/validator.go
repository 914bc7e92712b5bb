// Package validator applies the deterministic fraud/confidence checks to
// an extracted receipt.
//
// The engine is side-effect-free given its inputs and never returns an
// error: unparseable numbers and dates arrive as nil and simply skip the
// checks that depend on them, lowering confidence implicitly instead of
// failing the request. Scoring weights and tolerances are configuration,
// not hard facts.
package validator

import (
	"math"
	"strings"

	"github.com/khatib49/Scan-ocr/internal/domain/matcher"
	"github.com/khatib49/Scan-ocr/internal/domain/qr"
	"github.com/khatib49/Scan-ocr/internal/domain/textnorm"
)

// Check names as they appear in the result's checks map.
const (
	CheckArithmetic    = "subtotal_plus_tax_equals_total"
	CheckVATRate       = "vat_rate_ok"
	CheckProfileFound  = "profile_matched"
	CheckMerchantName  = "merchant_name_consistent"
	CheckAddress       = "address_consistent"
	CheckSpendingRange = "total_within_spending_range"
	CheckHintedFields  = "hinted_fields_present"
	CheckQRTotal       = "qr_total_consistent"
	CheckQRVat         = "qr_vat_consistent"
)

// ReasonAllPassed is the reason synthesized when no issue was recorded.
const ReasonAllPassed = "Checks passed."

// Config holds the tolerances and score weights. The defaults follow the
// product's reference weight set; treat them as tunable.
type Config struct {
	SumTolerance     float64 // absolute tolerance for Subtotal+Tax vs Total
	VATRate          float64 // regional VAT rate
	VATToleranceMin  float64 // floor of the VAT tolerance
	VATToleranceFrac float64 // fraction of Subtotal added to the VAT tolerance
	QRTolerance      float64 // tolerance for totals read from the compliance QR

	ConfidenceBase int
	ArithmeticPass int
	ArithmeticFail int
	VATPass        int
	VATFail        int
	NoProfileFraud int
	NameMatchPass  int
	NameMatchFail  int
	AddressPass    int
	RangeFail      int
	HintBonus      int
	QRPass         int
	QRFail         int
}

// DefaultConfig returns the reference weight set.
func DefaultConfig() Config {
	return Config{
		SumTolerance:     1.0, // one unit of currency, robust to receipt-scale rounding
		VATRate:          0.15,
		VATToleranceMin:  1.0,
		VATToleranceFrac: 0.015,
		QRTolerance:      0.1,

		ConfidenceBase: 30,
		ArithmeticPass: 15,
		ArithmeticFail: 20,
		VATPass:        15,
		VATFail:        15,
		NoProfileFraud: 25,
		NameMatchPass:  20,
		NameMatchFail:  15,
		AddressPass:    10,
		RangeFail:      10,
		HintBonus:      5,
		QRPass:         10,
		QRFail:         20,
	}
}

// Result is the itemized outcome of one validation run.
type Result struct {
	FraudScore      int             `json:"fraudScore"`
	ConfidenceScore int             `json:"confidenceScore"`
	Checks          map[string]bool `json:"checks"`
	Issues          []string        `json:"issues"`
}

// Engine runs the validation checks. Safe for concurrent use; it holds
// only immutable config.
type Engine struct {
	cfg Config
}

// New creates an engine with the given config.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// ValidateAndScore runs every check the available data allows, in a fixed
// order, and accumulates fraud and confidence scores from the configured
// baselines. profile and qrFields may be nil. The returned scores are
// clamped to [0,100].
func (e *Engine) ValidateAndScore(f *ExtractedFields, profile *matcher.Profile, qrFields *qr.Fields) Result {
	cfg := e.cfg
	res := Result{
		Checks: make(map[string]bool),
		Issues: []string{},
	}
	fraud := 0
	conf := cfg.ConfidenceBase

	// Arithmetic: Subtotal + Tax must equal Total within tolerance.
	if f.Subtotal != nil && f.Tax != nil && f.Total != nil {
		ok := math.Abs((*f.Subtotal+*f.Tax)-*f.Total) <= cfg.SumTolerance
		res.Checks[CheckArithmetic] = ok
		if ok {
			conf += cfg.ArithmeticPass
		} else {
			fraud += cfg.ArithmeticFail
			res.Issues = append(res.Issues, "Subtotal + Tax != Total beyond tolerance.")
		}
	}

	// Tax rate: Tax should be ~VATRate of Subtotal.
	if f.Subtotal != nil && f.Tax != nil {
		expected := *f.Subtotal * cfg.VATRate
		tolerance := math.Max(cfg.VATToleranceMin, cfg.VATToleranceFrac**f.Subtotal)
		ok := math.Abs(expected-*f.Tax) <= tolerance
		res.Checks[CheckVATRate] = ok
		if ok {
			conf += cfg.VATPass
		} else {
			fraud += cfg.VATFail
			res.Issues = append(res.Issues, "VAT not ~15% of Subtotal.")
		}
	}

	// An identifiable merchant with no catalog match is inherently suspicious.
	if profile == nil {
		if str(f.MerchantName) != "" {
			res.Checks[CheckProfileFound] = false
			fraud += cfg.NoProfileFraud
			res.Issues = append(res.Issues, "Merchant not found in venue catalog.")
		}
	} else {
		res.Checks[CheckProfileFound] = true
		fraud, conf = e.checkProfile(f, profile, &res, fraud, conf)
	}

	if qrFields != nil {
		fraud, conf = e.checkQR(f, qrFields, &res, fraud, conf)
	}

	res.FraudScore = clamp(fraud)
	res.ConfidenceScore = clamp(conf)
	return res
}

// checkProfile runs the profile-consistency checks against a matched venue.
func (e *Engine) checkProfile(f *ExtractedFields, p *matcher.Profile, res *Result, fraud, conf int) (int, int) {
	cfg := e.cfg

	name := textnorm.Normalize(str(f.MerchantName))
	if name != "" && len(p.MerchantNameKeyword) > 0 {
		ok := containsAny(name, p.MerchantNameKeyword)
		res.Checks[CheckMerchantName] = ok
		if ok {
			conf += cfg.NameMatchPass
		} else {
			fraud += cfg.NameMatchFail
			res.Issues = append(res.Issues, "Merchant name does not contain the expected keyword.")
		}
	}

	addr := textnorm.Normalize(str(f.MerchantAddress))
	if addr != "" && len(p.MerchantAddressKeyword) > 0 {
		if containsAny(addr, p.MerchantAddressKeyword) {
			res.Checks[CheckAddress] = true
			conf += cfg.AddressPass
		} else {
			res.Checks[CheckAddress] = false
		}
	}

	if r := p.Range(); r != nil && f.Total != nil {
		ok := *f.Total >= r.Low && *f.Total <= r.High
		res.Checks[CheckSpendingRange] = ok
		if !ok {
			fraud += cfg.RangeFail
			res.Issues = append(res.Issues, "Total outside the venue's usual spending range.")
		}
	}

	hints := p.Hints()
	if hints["InvoiceId_Label"] != "" || hints["StoreID_Label"] != "" {
		ok := (hints["InvoiceId_Label"] == "" || str(f.InvoiceID) != "") &&
			(hints["StoreID_Label"] == "" || str(f.StoreID) != "")
		res.Checks[CheckHintedFields] = ok
		if ok {
			conf += cfg.HintBonus
		}
	}

	return fraud, conf
}

// checkQR cross-checks extracted values against the compliance QR. The QR
// is machine-written by the seller's invoicing system, so a disagreement
// weighs more than an OCR wobble.
func (e *Engine) checkQR(f *ExtractedFields, q *qr.Fields, res *Result, fraud, conf int) (int, int) {
	cfg := e.cfg

	if q.Total != nil && f.Total != nil {
		ok := math.Abs(*q.Total-*f.Total) <= cfg.QRTolerance
		res.Checks[CheckQRTotal] = ok
		if ok {
			conf += cfg.QRPass
		} else {
			fraud += cfg.QRFail
			res.Issues = append(res.Issues, "Total does not match the compliance QR.")
		}
	}

	if q.VAT != nil && str(f.TaxID) != "" {
		ok := digitsOf(*q.VAT) == digitsOf(str(f.TaxID))
		res.Checks[CheckQRVat] = ok
		if ok {
			conf += cfg.QRPass
		} else {
			fraud += cfg.QRFail
			res.Issues = append(res.Issues, "Tax ID does not match the compliance QR.")
		}
	}

	return fraud, conf
}

// Annotate writes the scores back onto the extracted fields. A reason the
// caller already supplied is kept; otherwise the recorded issues are
// joined, falling back to the fixed all-passed message.
func Annotate(f *ExtractedFields, res Result) {
	f.FraudScore = res.FraudScore
	f.ConfidentScore = res.ConfidenceScore
	if f.Reason == "" {
		if len(res.Issues) > 0 {
			f.Reason = strings.Join(res.Issues, "; ")
		} else {
			f.Reason = ReasonAllPassed
		}
	}
}

// containsAny reports whether the normalized haystack contains the
// normalization of any keyword. Substring containment keeps the check
// tolerant of extra legal-entity suffixes around the keyword.
func containsAny(haystack string, keywords []string) bool {
	for _, k := range keywords {
		nk := textnorm.Normalize(k)
		if nk != "" && strings.Contains(haystack, nk) {
			return true
		}
	}
	return false
}

// digitsOf strips everything but ASCII digits, so "3101-2239" and
// "31012239" compare equal.
func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
