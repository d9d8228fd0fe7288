package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kinex-backend/internal/genai"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) genai.Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := New(genai.Config{APIKey: "sk-test", BaseURL: srv.URL})
	require.NoError(t, err)
	return p
}

func TestGenerateText(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, defaultTextModel, body.Model)
		require.Len(t, body.Messages, 1)
		assert.Equal(t, "write a scene", body.Messages[0].Content)

		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  INT. HOUSE - DAY  "}}]}`))
	})

	text, err := p.GenerateText(context.Background(), "write a scene")
	require.NoError(t, err)
	assert.Equal(t, "INT. HOUSE - DAY", text)
}

func TestGenerateImage(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/images/generations", r.URL.Path)
		w.Write([]byte(`{"data":[{"url":"https://img.example/1.png"}]}`))
	})

	u, err := p.GenerateImage(context.Background(), "a lighthouse")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/1.png", u)
}

func TestUpstreamError(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	})

	_, err := p.GenerateText(context.Background(), "x")
	var upstream *genai.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, genai.OpenAI, upstream.Provider)
	assert.Equal(t, http.StatusUnauthorized, upstream.Status)
	assert.Equal(t, "Incorrect API key provided", upstream.Message)
}

func TestEmptyResponse(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	})

	_, err := p.GenerateText(context.Background(), "x")
	assert.ErrorIs(t, err, genai.ErrEmptyResponse)
}

func TestNewRequiresKey(t *testing.T) {
	_, err := New(genai.Config{})
	assert.ErrorIs(t, err, genai.ErrMissingAPIKey)
}
