package genai

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Session là lựa chọn provider + API key của user.
// Được load một lần khi khởi động và Save khi thay đổi; key không bao giờ gửi lên API.
type Session struct {
	Provider string `json:"provider"`
	APIKey   string `json:"apiKey,omitempty"`

	// Token của kinex API, giữ cùng file để CLI không phải login lại
	Token string `json:"token,omitempty"`

	path string
}

// LoadSession đọc session file; file chưa tồn tại -> session mặc định (OpenAI, không key)
func LoadSession(path string) (*Session, error) {
	s := &Session{Provider: OpenAI, path: path}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	if err := json.Unmarshal(raw, s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", path, err)
	}
	if s.Provider == "" {
		s.Provider = OpenAI
	}
	return s, nil
}

// Path của file session
func (s *Session) Path() string { return s.path }

// SetProvider đổi provider + key (chưa ghi file)
func (s *Session) SetProvider(provider, apiKey string) error {
	next := Session{Provider: provider, APIKey: apiKey}
	if err := next.Validate(); err != nil {
		return err
	}
	s.Provider, s.APIKey = provider, apiKey
	return nil
}

// Validate: provider phải thuộc danh sách hỗ trợ và có key
func (s Session) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Provider,
			validation.Required.Error("provider is required"),
			validation.In(OpenAI, Gemini, Anthropic).Error("provider must be one of OpenAI, Gemini, Anthropic"),
		),
		validation.Field(&s.APIKey, validation.Required.Error("api key is required")),
	)
}

// Save ghi session ra file với quyền 0600
func (s *Session) Save() error {
	if s.path == "" {
		return errors.New("session has no path")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	// ghi file tạm rồi rename để không để lại file hỏng
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}
