package dto

import "time"

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status       string `json:"status"`
	Model        string `json:"model"`
	PromptSource string `json:"prompt_source"`
	CatalogSize  int    `json:"catalog_size"`
	Timestamp    string `json:"timestamp"`
}

// MatchResponse describes the venue lookup outcome of an analysis.
type MatchResponse struct {
	Matched       bool   `json:"matched"`
	Strategy      string `json:"strategy"`
	MerchantGuess string `json:"merchant_guess,omitempty"`
	AddressGuess  string `json:"address_guess,omitempty"`
}

// ValidationResponse carries the scoring breakdown of an analysis.
type ValidationResponse struct {
	FraudScore      int             `json:"fraudScore"`
	ConfidenceScore int             `json:"confidenceScore"`
	Checks          map[string]bool `json:"checks"`
	Issues          []string        `json:"issues,omitempty"`
	Reason          string          `json:"reason"`
}

// AnalyzeResponse is the full result of one receipt analysis.
// Data holds the extracted receipt fields with scores annotated, keyed
// exactly as the vision model names them.
type AnalyzeResponse struct {
	ID         string             `json:"id"`
	Reference  string             `json:"reference,omitempty"`
	Data       any                `json:"data"`
	Match      MatchResponse      `json:"match"`
	Validation ValidationResponse `json:"validation"`
	QRDecoded  bool               `json:"qr_decoded"`
}

// AnalysisResponse represents a stored analysis in list/get responses.
type AnalysisResponse struct {
	ID             string   `json:"id"`
	Reference      string   `json:"reference,omitempty"`
	Filename       string   `json:"filename,omitempty"`
	MerchantGuess  string   `json:"merchant_guess,omitempty"`
	ProfileMatched bool     `json:"profile_matched"`
	MerchantName   string   `json:"merchant_name,omitempty"`
	Total          *float64 `json:"total,omitempty"`
	FraudScore     int      `json:"fraud_score"`
	ConfidentScore int      `json:"confident_score"`
	Reason         string   `json:"reason,omitempty"`
	QRDecoded      bool     `json:"qr_decoded"`
	CreatedAt      string   `json:"created_at"`
}

// AnalysisListResponse is returned when listing analyses.
type AnalysisListResponse struct {
	Analyses   []AnalysisResponse `json:"analyses"`
	TotalCount int                `json:"total_count"`
	Limit      int                `json:"limit"`
	Offset     int                `json:"offset"`
}

// StatsResponse is returned by the stats endpoint.
type StatsResponse struct {
	TotalAnalyses  int     `json:"total_analyses"`
	MatchedCount   int     `json:"matched_count"`
	UnmatchedCount int     `json:"unmatched_count"`
	AvgFraudScore  float64 `json:"avg_fraud_score"`
	AvgConfidence  float64 `json:"avg_confidence"`
}

// ReloadResponse is returned after a catalog reload.
type ReloadResponse struct {
	Profiles int    `json:"profiles"`
	Path     string `json:"path"`
}

// NewHealthResponse creates a health response with current timestamp.
func NewHealthResponse(model, promptSource string, catalogSize int) HealthResponse {
	return HealthResponse{
		Status:       "ok",
		Model:        model,
		PromptSource: promptSource,
		CatalogSize:  catalogSize,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	}
}
