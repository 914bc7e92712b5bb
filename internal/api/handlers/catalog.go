package handlers

import (
	"log/slog"
	"net/http"

	"github.com/khatib49/Scan-ocr/internal/api/dto"
	"github.com/khatib49/Scan-ocr/internal/domain/matcher"
)

// CatalogHandler manages the in-memory venue catalog.
type CatalogHandler struct {
	*Base
	store  *matcher.Store
	path   string
	logger *slog.Logger
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(store *matcher.Store, path string, logger *slog.Logger) *CatalogHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogHandler{
		Base:   NewBase(nil),
		store:  store,
		path:   path,
		logger: logger,
	}
}

// Reload handles POST /api/catalog/reload - re-reads the catalog file and
// swaps it in atomically. In-flight requests keep the snapshot they
// started with.
func (h *CatalogHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Reload(h.path); err != nil {
		h.logger.Error("catalog reload failed", "path", h.path, "error", err)
		h.WriteError(w, http.StatusInternalServerError, dto.NewAPIError(dto.ErrCodeInternalError, "catalog reload failed"))
		return
	}

	size := len(h.store.Snapshot().Profiles)
	h.logger.Info("catalog reloaded", "path", h.path, "profiles", size)

	h.WriteJSON(w, http.StatusOK, dto.ReloadResponse{
		Profiles: size,
		Path:     h.path,
	})
}
