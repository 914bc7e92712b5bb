package vision

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khatib49/Scan-ocr/internal/domain/matcher"
	"github.com/khatib49/Scan-ocr/internal/infrastructure/config"
)

func TestBuildSystemPrompt_NilProfile(t *testing.T) {
	out := BuildSystemPrompt("  base prompt  ", nil)
	assert.Equal(t, "base prompt", out)
}

func TestBuildSystemPrompt_AppendsHints(t *testing.T) {
	profile := &matcher.Profile{
		MerchantNameKeyword: matcher.Keywords{"Roberto Coin"},
		SpendingRangeSAR:    "500-20000",
		ExtractionHints: map[string]string{
			"Language":        "ar",
			"Total_Label":     "الاجمالي",
			"InternalNotes":   "do not forward",
			"InvoiceId_Label": "رقم الفاتورة",
		},
	}

	out := BuildSystemPrompt("base", profile)
	assert.True(t, strings.HasPrefix(out, "base"))
	assert.Contains(t, out, "Roberto Coin")
	assert.Contains(t, out, "الاجمالي")
	assert.Contains(t, out, "500-20000")
	assert.NotContains(t, out, "do not forward")
}

func TestValidateExtraction(t *testing.T) {
	ok := map[string]any{
		"MerchantName": "Jarir",
		"Total":        "1,150.00",
		"Subtotal":     1000.0,
		"Tax":          nil,
	}
	assert.NoError(t, ValidateExtraction(ok))

	bad := map[string]any{
		"MerchantName": map[string]any{"nested": true},
	}
	err := ValidateExtraction(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MerchantName")
}

func chatResponse(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return string(b)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOpenAIClient(config.OpenAIConfig{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		Model:      "main-model",
		ProbeModel: "probe-model",
	}, nil)
}

func TestOpenAIClient_Probe(t *testing.T) {
	var gotModel string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		var req map[string]any
		require.NoError(t, json.Unmarshal(body, &req))
		gotModel = req["model"].(string)

		_, _ = io.WriteString(w, chatResponse(`{"m": "Panda Retail", "a": "Olaya St"}`))
	})

	guess, err := client.Probe(context.Background(), "aW1n")
	require.NoError(t, err)
	assert.Equal(t, "probe-model", gotModel)
	assert.Equal(t, "Panda Retail", guess.Merchant)
	assert.Equal(t, "Olaya St", guess.Address)
}

func TestOpenAIClient_ExtractUnwrapsData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, chatResponse(`{"data": {"MerchantName": "Jarir", "Total": 115}}`))
	})

	data, err := client.Extract(context.Background(), "aW1n", "system prompt")
	require.NoError(t, err)
	assert.Equal(t, "Jarir", data["MerchantName"])
	assert.Equal(t, 115.0, data["Total"])
}

func TestOpenAIClient_ExtractBarePayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, chatResponse(`{"MerchantName": "Jarir"}`))
	})

	data, err := client.Extract(context.Background(), "aW1n", "system prompt")
	require.NoError(t, err)
	assert.Equal(t, "Jarir", data["MerchantName"])
}

func TestOpenAIClient_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error": {"message": "rate limited", "type": "rate_limit"}}`)
	})

	_, err := client.Extract(context.Background(), "aW1n", "system prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestOpenAIClient_NonJSONContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, chatResponse("I cannot read this image."))
	})

	_, err := client.Extract(context.Background(), "aW1n", "system prompt")
	assert.Error(t, err)
}
