package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/khatib49/Scan-ocr/internal/infrastructure/config"
)

// OpenAIClient implements Extractor against an OpenAI-compatible
// chat-completions endpoint.
type OpenAIClient struct {
	cfg        config.OpenAIConfig
	httpClient *http.Client
	logger     *slog.Logger
}

var _ Extractor = (*OpenAIClient)(nil)

// NewOpenAIClient creates a vision client from config.
func NewOpenAIClient(cfg config.OpenAIConfig, logger *slog.Logger) *OpenAIClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenAIClient{
		cfg:    cfg,
		logger: logger,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

const probeSystemPrompt = "Read the receipt image and extract ONLY merchant and address as JSON. No prose."

const probeUserPrompt = `Return ONLY this JSON with two keys and nothing else:
{"m": "merchant name or null", "a": "merchant address or null"}`

// Probe asks the cheaper probe model for just the merchant and address.
func (c *OpenAIClient) Probe(ctx context.Context, imageB64 string) (ProbeGuess, error) {
	content, err := c.complete(ctx, c.cfg.ProbeModel, probeSystemPrompt, probeUserPrompt, imageB64)
	if err != nil {
		return ProbeGuess{}, err
	}

	var guess ProbeGuess
	if err := json.Unmarshal([]byte(content), &guess); err != nil {
		return ProbeGuess{}, fmt.Errorf("decode probe response: %w", err)
	}
	// cap runaway model output
	guess.Merchant = truncate(guess.Merchant, 200)
	guess.Address = truncate(guess.Address, 200)
	return guess, nil
}

const extractUserPrompt = "Extract the required fields. Return ONLY valid JSON under a single top-level object."

// Extract runs the main extraction call and returns the "data" object of
// the model's JSON response. A response without a "data" root is treated
// as the data object itself.
func (c *OpenAIClient) Extract(ctx context.Context, imageB64, systemPrompt string) (map[string]any, error) {
	content, err := c.complete(ctx, c.cfg.Model, systemPrompt, extractUserPrompt, imageB64)
	if err != nil {
		return nil, err
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("model returned non-JSON: %w", err)
	}
	if data, ok := payload["data"].(map[string]any); ok {
		return data, nil
	}
	return payload, nil
}

// complete performs one chat-completions request with an inline image and
// returns the first choice's message content.
func (c *OpenAIClient) complete(ctx context.Context, model, system, user, imageB64 string) (string, error) {
	reqID := uuid.New().String()
	start := time.Now()

	body := map[string]any{
		"model":           model,
		"temperature":     0,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": system},
			{
				"role": "user",
				"content": []map[string]any{
					{"type": "text", "text": user},
					{"type": "image_url", "image_url": map[string]any{
						"url": "data:image/jpeg;base64," + imageB64,
					}},
				},
			},
		},
	}

	requestBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(requestBody))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	c.logger.Info("vision.request", "req_id", reqID, "model", model, "bytes", len(requestBody))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("vision.send_error", "req_id", reqID, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	c.logger.Info("vision.response", "req_id", reqID, "status", resp.StatusCode,
		"bytes", len(raw), "elapsed_ms", time.Since(start).Milliseconds())

	if resp.StatusCode != http.StatusOK {
		var errorResp struct {
			Error struct {
				Message string `json:"message"`
				Type    string `json:"type"`
			} `json:"error"`
		}
		if json.Unmarshal(raw, &errorResp) == nil && errorResp.Error.Message != "" {
			return "", fmt.Errorf("vision API error (%d): %s", resp.StatusCode, errorResp.Error.Message)
		}
		return "", fmt.Errorf("vision API error: status %d", resp.StatusCode)
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return strings.TrimSpace(cc.Choices[0].Message.Content), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
