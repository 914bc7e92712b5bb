package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/khatib49/Scan-ocr/internal/api/dto"
	"github.com/khatib49/Scan-ocr/internal/infrastructure/storage"
)

// AnalysesHandler serves the stored analysis log.
type AnalysesHandler struct {
	*Base
}

// NewAnalysesHandler creates a new analyses handler.
func NewAnalysesHandler(repo storage.Repository) *AnalysesHandler {
	return &AnalysesHandler{
		Base: NewBase(repo),
	}
}

// List handles GET /api/analyses - returns stored analyses, newest first.
func (h *AnalysesHandler) List(w http.ResponseWriter, r *http.Request) {
	filters := storage.AnalysisFilters{
		Reference: r.URL.Query().Get("reference"),
		Matched:   ParseBoolFilter(r, "matched"),
		Limit:     ParseIntParam(r, "limit", 50),
		Offset:    ParseIntParam(r, "offset", 0),
	}

	result, err := h.repo.ListAnalyses(filters)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.AnalysisListResponse{
		Analyses:   make([]dto.AnalysisResponse, 0, len(result.Analyses)),
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	}
	for _, record := range result.Analyses {
		response.Analyses = append(response.Analyses, toAnalysisResponse(record))
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// Get handles GET /api/analyses/{id} - returns a single analysis by ID.
func (h *AnalysesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("analysis ID is required"))
		return
	}

	record, err := h.repo.GetAnalysis(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.WriteError(w, http.StatusNotFound, dto.NotFoundError("analysis"))
			return
		}
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	h.WriteJSON(w, http.StatusOK, toAnalysisResponse(record))
}

// toAnalysisResponse converts a storage record to an API response.
func toAnalysisResponse(record *storage.AnalysisRecord) dto.AnalysisResponse {
	return dto.AnalysisResponse{
		ID:             record.ID,
		Reference:      record.Reference,
		Filename:       record.Filename,
		MerchantGuess:  record.MerchantGuess,
		ProfileMatched: record.ProfileMatched,
		MerchantName:   record.MerchantName,
		Total:          record.Total,
		FraudScore:     record.FraudScore,
		ConfidentScore: record.ConfidentScore,
		Reason:         record.Reason,
		QRDecoded:      record.QRDecoded,
		CreatedAt:      record.CreatedAt.UTC().Format(time.RFC3339),
	}
}
