// Package genai là adapter mỏng tới các provider sinh text/ảnh.
// Provider được chọn theo Session (tên provider + API key của user).
// Không retry, không fallback sang provider khác.
package genai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
)

// Tên provider (giá trị lưu trong session file)
const (
	OpenAI    = "OpenAI"
	Gemini    = "Gemini"
	Anthropic = "Anthropic"
)

var (
	ErrUnknownProvider = errors.New("unknown provider")
	ErrMissingAPIKey   = errors.New("api key is required")
	ErrEmptyResponse   = errors.New("provider returned no content")
)

// Provider sinh text và ảnh từ một prompt
type Provider interface {
	Name() string
	GenerateText(ctx context.Context, prompt string) (string, error)
	// GenerateImage trả về URL ảnh (http(s) hoặc data: URL)
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// UpstreamError: gọi provider thất bại. Status = 0 khi request không tới được provider,
// khi đó Err là lỗi transport gốc.
type UpstreamError struct {
	Provider string
	Status   int
	Message  string
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Provider, e.Message)
	}
	return fmt.Sprintf("%s (%d): %s", e.Provider, e.Status, e.Message)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Config dùng để khởi tạo một provider
type Config struct {
	APIKey     string
	BaseURL    string // rỗng = endpoint mặc định của provider
	TextModel  string
	ImageModel string
	HTTPClient *http.Client
}

// Client trả HTTPClient hoặc client mặc định (không timeout, chỉ theo ctx)
func (c Config) Client() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{}
}

// Factory tạo provider từ config
type Factory func(cfg Config) (Provider, error)

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
)

// Register đăng ký factory; gọi từ init() của package provider
func Register(name string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[name] = factory
}

// Providers trả về tên các provider đã đăng ký, đã sort
func Providers() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewProvider khởi tạo provider theo tên
func NewProvider(name string, cfg Config) (Provider, error) {
	mu.RLock()
	factory, ok := factories[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	return factory(cfg)
}

// New khởi tạo provider mà session đang chọn
func New(s *Session) (Provider, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return NewProvider(s.Provider, Config{APIKey: s.APIKey})
}
