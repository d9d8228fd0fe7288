// Package anthropic: messages API cho text; không hỗ trợ sinh ảnh
package anthropic

import (
	"context"
	"net/http"
	"strings"

	"kinex-backend/internal/genai"
)

const (
	defaultBaseURL   = "https://api.anthropic.com/v1"
	defaultTextModel = "claude-3-5-sonnet-latest"
	apiVersion       = "2023-06-01"
	maxTokens        = 2048
)

func init() {
	genai.Register(genai.Anthropic, New)
}

type Provider struct {
	cfg genai.Config
}

func New(cfg genai.Config) (genai.Provider, error) {
	if cfg.APIKey == "" {
		return nil, genai.ErrMissingAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.TextModel == "" {
		cfg.TextModel = defaultTextModel
	}
	cfg.HTTPClient = cfg.Client()
	return &Provider{cfg: cfg}, nil
}

func (p *Provider) Name() string { return genai.Anthropic }

func (p *Provider) GenerateText(ctx context.Context, prompt string) (string, error) {
	body := map[string]interface{}{
		"model":      p.cfg.TextModel,
		"max_tokens": maxTokens,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}
	headers := map[string]string{
		"x-api-key":         p.cfg.APIKey,
		"anthropic-version": apiVersion,
	}

	var resp struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := genai.PostJSON(ctx, p.cfg.HTTPClient, p.Name(), p.cfg.BaseURL+"/messages", headers, body, &resp); err != nil {
		return "", err
	}

	for _, c := range resp.Content {
		if c.Type == "text" && strings.TrimSpace(c.Text) != "" {
			return strings.TrimSpace(c.Text), nil
		}
	}
	return "", genai.ErrEmptyResponse
}

func (p *Provider) GenerateImage(context.Context, string) (string, error) {
	return "", &genai.UpstreamError{
		Provider: p.Name(),
		Status:   http.StatusNotImplemented,
		Message:  "image generation is not supported by Anthropic; choose OpenAI or Gemini",
	}
}
