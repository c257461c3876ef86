package extraction

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// defaultVisionModels is the fallback list, ordered most to least
// preferred. Each invocation walks the list until one model succeeds.
var defaultVisionModels = []string{
	"gemini-2.0-flash-exp",
	"gemini-1.5-flash-latest",
	"gemini-1.5-pro-latest",
	"gemini-pro-vision",
}

// GeminiClient calls the Gemini generateContent REST API for vision
// extraction, falling back through an ordered model list.
type GeminiClient struct {
	apiKey     string
	baseURL    string
	models     []string
	httpClient *http.Client
	logger     zerolog.Logger
}

// VisionResult is the raw output of a successful model invocation.
type VisionResult struct {
	Text      string
	ModelUsed string
}

// NewGeminiClient creates a client with the default model fallback list.
func NewGeminiClient(apiKey string, logger zerolog.Logger) *GeminiClient {
	return &GeminiClient{
		apiKey:  apiKey,
		baseURL: defaultGeminiBaseURL,
		models:  defaultVisionModels,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}
}

// ExtractDocument sends the document to each model in order and returns
// the first successful raw text response. Each model gets exactly one
// attempt; when every model fails the returned error is an
// AllModelsFailedError wrapping the last failure.
func (c *GeminiClient) ExtractDocument(ctx context.Context, data []byte, mimeType, prompt string) (*VisionResult, error) {
	encoded := base64.StdEncoding.EncodeToString(data)

	var lastErr error
	for _, model := range c.models {
		text, err := c.generate(ctx, model, prompt, mimeType, encoded)
		if err != nil {
			c.logger.Warn().Str("model", model).Err(err).Msg("vision model attempt failed")
			lastErr = err
			continue
		}
		c.logger.Debug().Str("model", model).Msg("vision model succeeded")
		return &VisionResult{Text: text, ModelUsed: model}, nil
	}

	return nil, &AllModelsFailedError{Attempts: len(c.models), LastErr: lastErr}
}

// generate performs a single generateContent call against one model.
func (c *GeminiClient) generate(ctx context.Context, model, prompt, mimeType, base64Data string) (string, error) {
	requestBody := map[string]any{
		"contents": []map[string]any{
			{
				"parts": []map[string]any{
					{"text": prompt},
					{
						"inline_data": map[string]string{
							"mime_type": mimeType,
							"data":      base64Data,
						},
					},
				},
			},
		},
		"generationConfig": map[string]any{
			"temperature":     0.1,
			"maxOutputTokens": 8192,
		},
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("model %s: HTTP %d: %s", model, resp.StatusCode, string(body))
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("model %s returned no candidates", model)
	}

	return geminiResp.Candidates[0].Content.Parts[0].Text, nil
}
