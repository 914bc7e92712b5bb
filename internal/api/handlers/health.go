package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/khatib49/Scan-ocr/internal/api/dto"
	"github.com/khatib49/Scan-ocr/internal/domain/matcher"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	model        string
	promptSource string
	store        *matcher.Store
}

// NewHealthHandler creates a new health handler. promptSource names where
// the active system prompt came from ("file", "config" or "default").
func NewHealthHandler(model, promptSource string, store *matcher.Store) *HealthHandler {
	return &HealthHandler{model: model, promptSource: promptSource, store: store}
}

// ServeHTTP handles the health check request.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	size := 0
	if h.store != nil {
		size = len(h.store.Snapshot().Profiles)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	response := dto.NewHealthResponse(h.model, h.promptSource, size)
	_ = json.NewEncoder(w).Encode(response)
}
