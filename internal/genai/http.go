package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// maxErrorBody: chỉ đọc chừng này byte của body lỗi
const maxErrorBody = 64 << 10

// PostJSON gửi body dạng JSON và decode response 2xx vào out.
// Lỗi transport và non-2xx đều trở thành *UpstreamError.
// URL không bao giờ xuất hiện trong error (có thể chứa credential).
func PostJSON(ctx context.Context, client *http.Client, provider, url string, headers map[string]string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", provider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build %s request: %w", provider, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		// *url.Error in cả URL; chỉ giữ lỗi bên trong
		cause := err
		var urlErr *neturl.Error
		if errors.As(err, &urlErr) {
			cause = urlErr.Err
		}
		return &UpstreamError{Provider: provider, Message: cause.Error(), Err: cause}
	}
	defer resp.Body.Close()

	log.Debug().
		Str("provider", provider).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("provider call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &UpstreamError{
			Provider: provider,
			Status:   resp.StatusCode,
			Message:  errorMessage(raw, resp.Status),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", provider, err)
	}
	return nil
}

// errorMessage lấy error.message (OpenAI, Gemini, Anthropic đều dùng dạng này)
func errorMessage(raw []byte, fallback string) string {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	if text := strings.TrimSpace(string(raw)); text != "" {
		return text
	}
	return fallback
}
