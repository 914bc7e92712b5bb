package handlers

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/khatib49/Scan-ocr/internal/api/dto"
	"github.com/khatib49/Scan-ocr/internal/domain/matcher"
	"github.com/khatib49/Scan-ocr/internal/domain/qr"
	"github.com/khatib49/Scan-ocr/internal/domain/validator"
	"github.com/khatib49/Scan-ocr/internal/infrastructure/storage"
	"github.com/khatib49/Scan-ocr/internal/vision"
)

// maxUploadBytes caps the receipt image size. Phone photos sit well
// under this even uncompressed.
const maxUploadBytes = 15 << 20

// AnalyzeHandler runs the full receipt pipeline: probe, venue match,
// extraction, QR decode, validation and scoring, then persists the result.
type AnalyzeHandler struct {
	*Base
	extractor    vision.Extractor
	strategy     matcher.Strategy
	strategyName string
	engine       *validator.Engine
	systemPrompt string
	probeEnabled bool
	logger       *slog.Logger
}

// NewAnalyzeHandler creates the analyze handler.
func NewAnalyzeHandler(
	repo storage.Repository,
	extractor vision.Extractor,
	strategy matcher.Strategy,
	strategyName string,
	engine *validator.Engine,
	systemPrompt string,
	probeEnabled bool,
	logger *slog.Logger,
) *AnalyzeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyzeHandler{
		Base:         NewBase(repo),
		extractor:    extractor,
		strategy:     strategy,
		strategyName: strategyName,
		engine:       engine,
		systemPrompt: systemPrompt,
		probeEnabled: probeEnabled,
		logger:       logger,
	}
}

// Analyze handles POST /api/analyze. Expects a multipart form with a
// "file" image part and an optional "reference" text field.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("expected multipart form with a file"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("file part is required"))
		return
	}
	defer func() { _ = file.Close() }()

	imageBytes, err := io.ReadAll(file)
	if err != nil || len(imageBytes) == 0 {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("could not read uploaded file"))
		return
	}

	reference := r.FormValue("reference")
	analysisID := uuid.New().String()
	imageB64 := base64.StdEncoding.EncodeToString(imageBytes)
	ctx := r.Context()

	// First pass: cheap merchant/address read so the right venue profile
	// can shape the main extraction prompt. A probe failure is not fatal;
	// matching just runs on empty guesses with the caller's hints.
	var guess vision.ProbeGuess
	if h.probeEnabled {
		guess, err = h.extractor.Probe(ctx, imageB64)
		if err != nil {
			h.logger.Warn("probe failed, continuing unmatched", "analysis_id", analysisID, "error", err)
			guess = vision.ProbeGuess{}
		}
	}
	if guess.Merchant == "" {
		guess.Merchant = r.FormValue("merchant")
	}
	if guess.Address == "" {
		guess.Address = r.FormValue("address")
	}

	match := h.strategy.Match(guess.Merchant, guess.Address)
	prompt := vision.BuildSystemPrompt(h.systemPrompt, match.Profile)

	raw, err := h.extractor.Extract(ctx, imageB64, prompt)
	if err != nil {
		h.logger.Error("extraction failed", "analysis_id", analysisID, "error", err)
		h.WriteError(w, http.StatusBadGateway, dto.UpstreamError("vision model call failed"))
		return
	}
	if err := vision.ValidateExtraction(raw); err != nil {
		h.logger.Error("extraction off schema", "analysis_id", analysisID, "error", err)
		h.WriteError(w, http.StatusBadGateway, dto.UpstreamError("vision model returned malformed fields"))
		return
	}

	fields := validator.FromRaw(raw)
	qrFields := qr.Decode(imageBytes)

	result := h.engine.ValidateAndScore(fields, match.Profile, qrFields)
	validator.Annotate(fields, result)

	h.persist(analysisID, reference, header.Filename, guess, match, fields, result, qrFields != nil)

	h.logger.Info("analysis complete",
		"analysis_id", analysisID,
		"matched", match.Matched,
		"fraud", result.FraudScore,
		"confidence", result.ConfidenceScore,
		"qr", qrFields != nil,
	)

	response := dto.AnalyzeResponse{
		ID:        analysisID,
		Reference: reference,
		Data:      fields,
		Match: dto.MatchResponse{
			Matched:       match.Matched,
			Strategy:      h.strategyName,
			MerchantGuess: guess.Merchant,
			AddressGuess:  guess.Address,
		},
		Validation: dto.ValidationResponse{
			FraudScore:      result.FraudScore,
			ConfidenceScore: result.ConfidenceScore,
			Checks:          result.Checks,
			Issues:          result.Issues,
			Reason:          fields.Reason,
		},
		QRDecoded: qrFields != nil,
	}
	h.WriteJSON(w, http.StatusOK, response)
}

// persist writes the analysis record. Storage trouble is logged, not
// surfaced; the caller already has their result.
func (h *AnalyzeHandler) persist(
	id, reference, filename string,
	guess vision.ProbeGuess,
	match matcher.MatchResult,
	fields *validator.ExtractedFields,
	result validator.Result,
	qrDecoded bool,
) {
	extractedJSON, _ := json.Marshal(fields)
	validationJSON, _ := json.Marshal(result)

	record := &storage.AnalysisRecord{
		ID:             id,
		Reference:      reference,
		Filename:       filename,
		MerchantGuess:  guess.Merchant,
		AddressGuess:   guess.Address,
		ProfileMatched: match.Matched,
		FraudScore:     result.FraudScore,
		ConfidentScore: result.ConfidenceScore,
		Reason:         fields.Reason,
		QRDecoded:      qrDecoded,
		ExtractedJSON:  string(extractedJSON),
		ValidationJSON: string(validationJSON),
		Total:          fields.Total,
		CreatedAt:      time.Now().UTC(),
	}
	if fields.MerchantName != nil {
		record.MerchantName = *fields.MerchantName
	}

	if err := h.repo.SaveAnalysis(record); err != nil {
		h.logger.Error("failed to persist analysis", "analysis_id", id, "error", err)
	}
}
