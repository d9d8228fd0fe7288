package gemini

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kinex-backend/internal/genai"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) genai.Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := New(genai.Config{APIKey: "g-key", BaseURL: srv.URL})
	require.NoError(t, err)
	return p
}

func TestGenerateText(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/"+defaultTextModel+":generateContent", r.URL.Path)
		assert.Equal(t, "g-key", r.Header.Get("x-goog-api-key"))
		assert.Empty(t, r.URL.RawQuery)
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Hello "},{"text":"world"}]}}]}`))
	})

	text, err := p.GenerateText(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "Hello world", text)
}

func TestGenerateImage(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/"+defaultImageModel+":predict", r.URL.Path)
		w.Write([]byte(`{"predictions":[{"bytesBase64Encoded":"aGVsbG8=","mimeType":"image/jpeg"}]}`))
	})

	u, err := p.GenerateImage(context.Background(), "a castle")
	require.NoError(t, err)
	assert.Equal(t, "data:image/jpeg;base64,aGVsbG8=", u)
}

func TestUpstreamError(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`))
	})

	_, err := p.GenerateImage(context.Background(), "x")
	var upstream *genai.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusBadRequest, upstream.Status)
	assert.Equal(t, "API key not valid", upstream.Message)
}

func TestTransportErrorHidesAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close() // connection refused

	p, err := New(genai.Config{APIKey: "SECRET-KEY-123", BaseURL: baseURL})
	require.NoError(t, err)

	for _, call := range []func() (string, error){
		func() (string, error) { return p.GenerateText(context.Background(), "hi") },
		func() (string, error) { return p.GenerateImage(context.Background(), "hi") },
	} {
		_, err := call()
		require.Error(t, err)
		assert.False(t, strings.Contains(err.Error(), "SECRET-KEY-123"), err.Error())

		var upstream *genai.UpstreamError
		require.True(t, errors.As(err, &upstream))
		assert.Equal(t, 0, upstream.Status)
		assert.NotNil(t, upstream.Err)
	}
}
