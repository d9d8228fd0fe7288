// Package openai: chat completions cho text, images/generations cho ảnh
package openai

import (
	"context"
	"strings"

	"kinex-backend/internal/genai"
)

const (
	defaultBaseURL    = "https://api.openai.com/v1"
	defaultTextModel  = "gpt-4o-mini"
	defaultImageModel = "dall-e-3"
	imageSize         = "1024x1024"
)

func init() {
	genai.Register(genai.OpenAI, New)
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
	if cfg.ImageModel == "" {
		cfg.ImageModel = defaultImageModel
	}
	cfg.HTTPClient = cfg.Client()
	return &Provider{cfg: cfg}, nil
}

func (p *Provider) Name() string { return genai.OpenAI }

func (p *Provider) headers() map[string]string {
	return map[string]string{"Authorization": "Bearer " + p.cfg.APIKey}
}

func (p *Provider) GenerateText(ctx context.Context, prompt string) (string, error) {
	body := map[string]interface{}{
		"model": p.cfg.TextModel,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}

	var resp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := genai.PostJSON(ctx, p.cfg.HTTPClient, p.Name(), p.cfg.BaseURL+"/chat/completions", p.headers(), body, &resp); err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", genai.ErrEmptyResponse
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (p *Provider) GenerateImage(ctx context.Context, prompt string) (string, error) {
	body := map[string]interface{}{
		"model":  p.cfg.ImageModel,
		"prompt": prompt,
		"n":      1,
		"size":   imageSize,
	}

	var resp struct {
		Data []struct {
			URL     string `json:"url"`
			B64JSON string `json:"b64_json"`
		} `json:"data"`
	}
	if err := genai.PostJSON(ctx, p.cfg.HTTPClient, p.Name(), p.cfg.BaseURL+"/images/generations", p.headers(), body, &resp); err != nil {
		return "", err
	}

	if len(resp.Data) == 0 {
		return "", genai.ErrEmptyResponse
	}
	switch {
	case resp.Data[0].URL != "":
		return resp.Data[0].URL, nil
	case resp.Data[0].B64JSON != "":
		return "data:image/png;base64," + resp.Data[0].B64JSON, nil
	}
	return "", genai.ErrEmptyResponse
}
