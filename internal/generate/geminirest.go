package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// geminiRESTBase is the plain REST endpoint for the primary provider,
// used as a third tier when the SDK paths have failed.
const geminiRESTBase = "https://generativelanguage.googleapis.com/v1beta/models"

// GeminiRESTProvider calls the primary API over plain REST. Same
// credential as GeminiProvider; this tier exists because SDK transport
// failures (gRPC issues, proxy interference) sometimes pass over raw HTTP.
type GeminiRESTProvider struct {
	APIKey    string
	ModelName string
	BaseURL   string // test override; defaults to geminiRESTBase
	Client    *http.Client
}

// Name implements Provider.
func (p *GeminiRESTProvider) Name() string { return "gemini-rest" }

// Model implements Provider.
func (p *GeminiRESTProvider) Model() string { return p.ModelName }

// Available implements Provider.
func (p *GeminiRESTProvider) Available() bool { return p.APIKey != "" }

type restPart struct {
	Text string `json:"text"`
}

type restContent struct {
	Parts []restPart `json:"parts"`
}

type restGenerationConfig struct {
	ResponseMIMEType string  `json:"responseMimeType"`
	Temperature      float64 `json:"temperature"`
}

type restRequest struct {
	Contents         []restContent        `json:"contents"`
	GenerationConfig restGenerationConfig `json:"generationConfig"`
}

type restResponse struct {
	Candidates []struct {
		Content restContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate implements Provider.
func (p *GeminiRESTProvider) Generate(ctx context.Context, prompt string) (string, error) {
	base := p.BaseURL
	if base == "" {
		base = geminiRESTBase
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	reqBody := restRequest{
		Contents: []restContent{{Parts: []restPart{{Text: prompt}}}},
		GenerationConfig: restGenerationConfig{
			ResponseMIMEType: "application/json",
			Temperature:      0.4,
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", base, p.ModelName, p.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("REST request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var parsed restResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("API error: %s", parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP status %d", resp.StatusCode)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	var out string
	for _, part := range parsed.Candidates[0].Content.Parts {
		out += part.Text
	}
	return out, nil
}
