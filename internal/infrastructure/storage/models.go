package storage

import "time"

// AnalysisRecord is one persisted receipt analysis: what the caller sent,
// what the vision model extracted, and how the engine scored it. Stored
// for audit and review; the scoring engine itself never reads these back.
type AnalysisRecord struct {
	ID             string    `json:"id"`
	Reference      string    `json:"reference,omitempty"`
	Filename       string    `json:"filename,omitempty"`
	MerchantGuess  string    `json:"merchant_guess,omitempty"`
	AddressGuess   string    `json:"address_guess,omitempty"`
	ProfileMatched bool      `json:"profile_matched"`
	MerchantName   string    `json:"merchant_name,omitempty"`
	Total          *float64  `json:"total,omitempty"`
	FraudScore     int       `json:"fraud_score"`
	ConfidentScore int       `json:"confident_score"`
	Reason         string    `json:"reason,omitempty"`
	QRDecoded      bool      `json:"qr_decoded"`
	ExtractedJSON  string    `json:"extracted_json,omitempty"`
	ValidationJSON string    `json:"validation_json,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// AnalysisFilters defines filters for listing analyses
type AnalysisFilters struct {
	Reference string // filter by caller reference (empty = all)
	Matched   *bool  // filter by profile-matched flag (nil = all)
	Limit     int    // max results (0 = default 50)
	Offset    int    // pagination offset
}

// AnalysisListResult contains paginated analysis results
type AnalysisListResult struct {
	Analyses   []*AnalysisRecord `json:"analyses"`
	TotalCount int               `json:"total_count"`
	Limit      int               `json:"limit"`
	Offset     int               `json:"offset"`
}

// Stats holds aggregate statistics over stored analyses
type Stats struct {
	TotalAnalyses  int     `json:"total_analyses"`
	MatchedCount   int     `json:"matched_count"`
	UnmatchedCount int     `json:"unmatched_count"`
	AvgFraudScore  float64 `json:"avg_fraud_score"`
	AvgConfidence  float64 `json:"avg_confidence"`
}
