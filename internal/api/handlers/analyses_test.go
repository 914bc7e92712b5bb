package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khatib49/Scan-ocr/internal/api/dto"
	"github.com/khatib49/Scan-ocr/internal/api/handlers"
	"github.com/khatib49/Scan-ocr/internal/infrastructure/storage"
)

// setChiURLParam injects a chi route parameter for direct handler tests.
func setChiURLParam(ctx context.Context, key, value string) context.Context {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return context.WithValue(ctx, chi.RouteCtxKey, rctx)
}

func seedAnalysis(t *testing.T, repo storage.Repository, id, reference string, matched bool, fraud int) {
	t.Helper()
	err := repo.SaveAnalysis(&storage.AnalysisRecord{
		ID:             id,
		Reference:      reference,
		MerchantGuess:  "Jarir Bookstore",
		ProfileMatched: matched,
		MerchantName:   "Jarir",
		FraudScore:     fraud,
		ConfidentScore: 70,
		Reason:         "Checks passed.",
		CreatedAt:      time.Now().UTC(),
	})
	require.NoError(t, err)
}

func TestAnalysesHandler_List(t *testing.T) {
	t.Run("returns empty list when nothing stored", func(t *testing.T) {
		repo := storage.NewMemoryRepository()
		handler := handlers.NewAnalysesHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/analyses", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.AnalysisListResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Empty(t, response.Analyses)
		assert.Equal(t, 0, response.TotalCount)
	})

	t.Run("filters by matched flag", func(t *testing.T) {
		repo := storage.NewMemoryRepository()
		seedAnalysis(t, repo, "a1", "ref-1", true, 0)
		seedAnalysis(t, repo, "a2", "ref-2", false, 25)

		handler := handlers.NewAnalysesHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/analyses?matched=false", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		var response dto.AnalysisListResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		require.Len(t, response.Analyses, 1)
		assert.Equal(t, "a2", response.Analyses[0].ID)
		assert.False(t, response.Analyses[0].ProfileMatched)
	})

	t.Run("filters by reference", func(t *testing.T) {
		repo := storage.NewMemoryRepository()
		seedAnalysis(t, repo, "a1", "batch-7", true, 0)
		seedAnalysis(t, repo, "a2", "batch-8", true, 0)

		handler := handlers.NewAnalysesHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/analyses?reference=batch-7", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		var response dto.AnalysisListResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		require.Len(t, response.Analyses, 1)
		assert.Equal(t, "batch-7", response.Analyses[0].Reference)
	})

	t.Run("respects limit parameter", func(t *testing.T) {
		repo := storage.NewMemoryRepository()
		for _, id := range []string{"a1", "a2", "a3", "a4", "a5"} {
			seedAnalysis(t, repo, id, "", true, 0)
		}

		handler := handlers.NewAnalysesHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/analyses?limit=3", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		var response dto.AnalysisListResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Len(t, response.Analyses, 3)
		assert.Equal(t, 5, response.TotalCount)
	})
}

func TestAnalysesHandler_Get(t *testing.T) {
	t.Run("returns analysis by ID", func(t *testing.T) {
		repo := storage.NewMemoryRepository()
		seedAnalysis(t, repo, "a1", "ref-1", true, 10)

		handler := handlers.NewAnalysesHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/analyses/a1", nil)
		req = req.WithContext(setChiURLParam(req.Context(), "id", "a1"))
		rec := httptest.NewRecorder()

		handler.Get(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.AnalysisResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, "a1", response.ID)
		assert.Equal(t, "Jarir", response.MerchantName)
		assert.Equal(t, 10, response.FraudScore)
	})

	t.Run("returns 404 for unknown ID", func(t *testing.T) {
		repo := storage.NewMemoryRepository()
		handler := handlers.NewAnalysesHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/analyses/missing", nil)
		req = req.WithContext(setChiURLParam(req.Context(), "id", "missing"))
		rec := httptest.NewRecorder()

		handler.Get(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)

		var response dto.APIError
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, dto.ErrCodeNotFound, response.Code)
	})
}

func TestStatsHandler_Get(t *testing.T) {
	repo := storage.NewMemoryRepository()
	seedAnalysis(t, repo, "a1", "", true, 0)
	seedAnalysis(t, repo, "a2", "", false, 40)

	handler := handlers.NewStatsHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.StatsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, 2, response.TotalAnalyses)
	assert.Equal(t, 1, response.MatchedCount)
	assert.Equal(t, 1, response.UnmatchedCount)
	assert.InDelta(t, 20.0, response.AvgFraudScore, 0.001)
}
