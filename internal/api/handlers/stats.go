package handlers

import (
	"net/http"

	"github.com/khatib49/Scan-ocr/internal/api/dto"
	"github.com/khatib49/Scan-ocr/internal/infrastructure/storage"
)

// StatsHandler handles stats-related HTTP requests.
type StatsHandler struct {
	*Base
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(repo storage.Repository) *StatsHandler {
	return &StatsHandler{
		Base: NewBase(repo),
	}
}

// Get handles GET /api/stats - returns aggregate statistics.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := h.repo.GetStats()
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.StatsResponse{
		TotalAnalyses:  stats.TotalAnalyses,
		MatchedCount:   stats.MatchedCount,
		UnmatchedCount: stats.UnmatchedCount,
		AvgFraudScore:  stats.AvgFraudScore,
		AvgConfidence:  stats.AvgConfidence,
	}

	h.WriteJSON(w, http.StatusOK, response)
}
