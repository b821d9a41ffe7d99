// Package gemini generates tips with the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"financie/internal/advisor"
)

const DefaultModel = "gemini-2.5-flash"

type Client struct {
	models *genai.Models
	model  string
}

// New creates a client authenticated with an API key. An empty baseURL uses
// the public Gemini endpoint.
func New(ctx context.Context, apiKey, model, baseURL string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini: api key is required")
	}
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions.BaseURL = baseURL
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{models: client.Models, model: modelName(model)}, nil
}

// Generate implements advisor.Generator.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	return responseText(resp)
}

// modelName accepts both "gemini-2.5-flash" and "models/gemini-2.5-flash".
func modelName(model string) string {
	model = strings.TrimSpace(model)
	if model == "" {
		return DefaultModel
	}
	return strings.TrimPrefix(model, "models/")
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("gemini blocked prompt: %s", resp.PromptFeedback.BlockReason)
		}
		return "", advisor.ErrEmptyResponse
	}
	if resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return "", advisor.ErrEmptyResponse
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", advisor.ErrEmptyResponse
	}
	return text, nil
}

// Model reports the model tips are requested from.
func (c *Client) Model() string {
	return c.model
}
