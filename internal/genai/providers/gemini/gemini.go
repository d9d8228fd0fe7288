// Package gemini: generateContent cho text, Imagen predict cho ảnh (data: URL)
package gemini

import (
	"context"
	"fmt"
	"strings"

	"kinex-backend/internal/genai"
)

const (
	defaultBaseURL    = "https://generativelanguage.googleapis.com/v1beta"
	defaultTextModel  = "gemini-1.5-flash"
	defaultImageModel = "imagen-3.0-generate-002"
)

func init() {
	genai.Register(genai.Gemini, New)
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

func (p *Provider) Name() string { return genai.Gemini }

func (p *Provider) endpoint(model, method string) string {
	return fmt.Sprintf("%s/models/%s:%s", p.cfg.BaseURL, model, method)
}

// headers: key đi trong header, không nằm trong URL
func (p *Provider) headers() map[string]string {
	return map[string]string{"x-goog-api-key": p.cfg.APIKey}
}

func (p *Provider) GenerateText(ctx context.Context, prompt string) (string, error) {
	body := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"role": "user", "parts": []map[string]string{{"text": prompt}}},
		},
	}

	var resp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := genai.PostJSON(ctx, p.cfg.HTTPClient, p.Name(), p.endpoint(p.cfg.TextModel, "generateContent"), p.headers(), body, &resp); err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 {
		return "", genai.ErrEmptyResponse
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", genai.ErrEmptyResponse
	}
	return text, nil
}

func (p *Provider) GenerateImage(ctx context.Context, prompt string) (string, error) {
	body := map[string]interface{}{
		"instances":  []map[string]string{{"prompt": prompt}},
		"parameters": map[string]int{"sampleCount": 1},
	}

	var resp struct {
		Predictions []struct {
			BytesBase64Encoded string `json:"bytesBase64Encoded"`
			MimeType           string `json:"mimeType"`
		} `json:"predictions"`
	}
	if err := genai.PostJSON(ctx, p.cfg.HTTPClient, p.Name(), p.endpoint(p.cfg.ImageModel, "predict"), p.headers(), body, &resp); err != nil {
		return "", err
	}

	if len(resp.Predictions) == 0 || resp.Predictions[0].BytesBase64Encoded == "" {
		return "", genai.ErrEmptyResponse
	}
	mime := resp.Predictions[0].MimeType
	if mime == "" {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + resp.Predictions[0].BytesBase64Encoded, nil
}
