// Package client là typed client cho REST API của kinex.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"kinex-backend/internal/domains/project"
	"kinex-backend/internal/domains/upload"
	"kinex-backend/internal/domains/user"
)

// APIError là error envelope {"success": false, "error": {...}} đã decode
type APIError struct {
	Status  int
	Code    string
	Message string
	Details map[string]string
}

func (e *APIError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Details))
	for field, msg := range e.Details {
		parts = append(parts, field+": "+msg)
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

// IsStatus: err là *APIError với status tương ứng
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New: baseURL vd "http://localhost:5000"
func New(baseURL string, httpClient *http.Client) *Client {
	// không đặt timeout: generation dài chỉ bị giới hạn bởi provider
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// SetToken gắn bearer token cho các request sau
func (c *Client) SetToken(token string) { c.token = token }

func (c *Client) Token() string { return c.token }

// ========================================
// AUTH
// ========================================

func (c *Client) Register(ctx context.Context, req user.RegisterRequest) (*user.AuthResponse, error) {
	var resp user.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", req, &resp); err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp, nil
}

func (c *Client) Login(ctx context.Context, req user.LoginRequest) (*user.AuthResponse, error) {
	var resp user.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", req, &resp); err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp, nil
}

func (c *Client) Me(ctx context.Context) (*user.UserDTO, error) {
	var resp user.MeResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// ========================================
// PROJECTS
// ========================================

func (c *Client) CreateProject(ctx context.Context, req project.CreateProjectRequest) (*project.Project, error) {
	var resp project.ProjectResponse
	if err := c.do(ctx, http.MethodPost, "/api/projects", req, &resp); err != nil {
		return nil, err
	}
	return resp.Project, nil
}

func (c *Client) ListProjects(ctx context.Context) ([]project.Project, error) {
	var resp project.ProjectsResponse
	if err := c.do(ctx, http.MethodGet, "/api/projects", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Projects, nil
}

func (c *Client) GetProject(ctx context.Context, id string) (*project.Project, error) {
	var resp project.ProjectResponse
	if err := c.do(ctx, http.MethodGet, "/api/projects/"+id, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Project, nil
}

// UpdateProject gửi partial update; chỉ field khác nil được thay thế
func (c *Client) UpdateProject(ctx context.Context, id string, req project.UpdateProjectRequest) (*project.Project, error) {
	var resp project.ProjectResponse
	if err := c.do(ctx, http.MethodPut, "/api/projects/"+id, req, &resp); err != nil {
		return nil, err
	}
	return resp.Project, nil
}

// ========================================
// UPLOADS
// ========================================

func (c *Client) GetSignedURL(ctx context.Context, req upload.SignedURLRequest) (*upload.SignedURLResponse, error) {
	var resp upload.SignedURLResponse
	if err := c.do(ctx, http.MethodPost, "/api/upload/get-signed-url", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PutObject upload bytes thẳng lên storage bằng presigned URL (không qua API server)
func (c *Client) PutObject(ctx context.Context, uploadURL, contentType string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = int64(len(data))

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upload object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return &APIError{Status: resp.StatusCode, Code: "UPLOAD_FAILED", Message: strings.TrimSpace("upload failed: " + resp.Status + " " + string(raw))}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: resp.Status}

	var envelope struct {
		Error struct {
			Code    string            `json:"code"`
			Message string            `json:"message"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Message != "" {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
		apiErr.Details = envelope.Error.Details
	}
	return apiErr
}
