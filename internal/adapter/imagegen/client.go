// Package imagegen provides an abstraction for text-to-image API clients.
// The default implementation targets the Stability AI text-to-image API.
package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Generator defines the interface for image generation.
type Generator interface {
	// Generate produces images for a prompt.
	Generate(ctx context.Context, req *GenerateRequest) ([]Artifact, error)
}

// GenerateRequest describes one text-to-image request.
type GenerateRequest struct {
	Prompt         string
	NegativePrompt string
	Width          int
	Height         int
	Samples        int
}

// Artifact is one generated image.
type Artifact struct {
	Base64       string `json:"base64"`
	FinishReason string `json:"finishReason"`
	Seed         int64  `json:"seed"`
}

// Defaults matching the upstream API recommendations.
const (
	defaultWidth    = 1024
	defaultHeight   = 1024
	defaultCfgScale = 7
	defaultSteps    = 30
)

// Client talks to the Stability text-to-image API.
type Client struct {
	baseURL    string
	apiKey     string
	engine     string
	httpClient *http.Client
}

// Ensure Client implements Generator interface.
var _ Generator = (*Client)(nil)

// NewClient creates a new image generation client.
func NewClient(baseURL, apiKey, engine string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		engine:  engine,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type textPrompt struct {
	Text   string  `json:"text"`
	Weight float64 `json:"weight"`
}

type generationRequest struct {
	TextPrompts []textPrompt `json:"text_prompts"`
	CfgScale    int          `json:"cfg_scale"`
	Width       int          `json:"width"`
	Height      int          `json:"height"`
	Samples     int          `json:"samples"`
	Steps       int          `json:"steps"`
}

type generationResponse struct {
	Artifacts []Artifact `json:"artifacts"`
}

type errorResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Generate produces images for a prompt.
func (c *Client) Generate(ctx context.Context, req *GenerateRequest) ([]Artifact, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, fmt.Errorf("prompt is required")
	}

	width, height := req.Width, req.Height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	samples := req.Samples
	if samples <= 0 {
		samples = 1
	}

	prompts := []textPrompt{{Text: req.Prompt, Weight: 1}}
	if req.NegativePrompt != "" {
		prompts = append(prompts, textPrompt{Text: req.NegativePrompt, Weight: -1})
	}

	body, err := json.Marshal(&generationRequest{
		TextPrompts: prompts,
		CfgScale:    defaultCfgScale,
		Width:       width,
		Height:      height,
		Samples:     samples,
		Steps:       defaultSteps,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/generation/%s/text-to-image", c.baseURL, c.engine)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Message != "" {
			return nil, fmt.Errorf("image API error [%d]: %s", resp.StatusCode, errResp.Message)
		}
		return nil, fmt.Errorf("image API error [%d]: %s", resp.StatusCode, string(respBody))
	}

	var result generationResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(result.Artifacts) == 0 {
		return nil, fmt.Errorf("image API returned no artifacts")
	}

	return result.Artifacts, nil
}
