package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kinex-backend/internal/config"
)

func testConfig() config.S3Config {
	return config.S3Config{
		Endpoint:  "localhost:9000",
		Region:    "us-east-1",
		Bucket:    "kinex",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		ObjectACL: "public-read",
	}
}

func TestNewS3Storage_NotConfigured(t *testing.T) {
	cfg := testConfig()
	cfg.Bucket = ""

	_, err := NewS3Storage(cfg)
	assert.Error(t, err)
}

func TestPresignPut(t *testing.T) {
	s, err := NewS3Storage(testConfig())
	require.NoError(t, err)

	raw, err := s.PresignPut(context.Background(), "headshots/1700000000000-a1b2c3d4e5f6.png", "image/png", 60*time.Second)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/kinex/headshots/1700000000000-a1b2c3d4e5f6.png", u.Path)

	q := u.Query()
	assert.Equal(t, "60", q.Get("X-Amz-Expires"))
	assert.Equal(t, "public-read", q.Get("x-amz-acl"))
	assert.NotEmpty(t, q.Get("X-Amz-Signature"))
	assert.Contains(t, q.Get("X-Amz-SignedHeaders"), "content-type")
}

func TestPublicURL(t *testing.T) {
	t.Run("aws default", func(t *testing.T) {
		s, err := NewS3Storage(testConfig())
		require.NoError(t, err)

		u := s.PublicURL("uploads/1-abc.jpg")
		assert.Equal(t, "https://kinex.s3.us-east-1.amazonaws.com/uploads/1-abc.jpg", u)

		key, ok := s.KeyFromURL(u)
		assert.True(t, ok)
		assert.Equal(t, "uploads/1-abc.jpg", key)
	})

	t.Run("custom base", func(t *testing.T) {
		cfg := testConfig()
		cfg.PublicBaseURL = "http://localhost:9000/kinex/"
		s, err := NewS3Storage(cfg)
		require.NoError(t, err)

		assert.Equal(t, "http://localhost:9000/kinex/a.png", s.PublicURL("a.png"))

		_, ok := s.KeyFromURL("https://elsewhere.example.com/a.png")
		assert.False(t, ok)
		_, ok = s.KeyFromURL("http://localhost:9000/kinex/")
		assert.False(t, ok)
	})
}

// fakeBucketServer trả lời HEAD/PUT bucket như một endpoint S3-compatible tối giản
type fakeBucketServer struct {
	mu       sync.Mutex
	exists   bool
	requests []string
}

func (f *fakeBucketServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r.Method+" "+strings.TrimSuffix(r.URL.Path, "/"))

	switch r.Method {
	case http.MethodHead:
		if !f.exists {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case http.MethodPut:
		f.exists = true
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestEnsureBucket(t *testing.T) {
	fake := &fakeBucketServer{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	cfg := testConfig()
	cfg.Endpoint = strings.TrimPrefix(srv.URL, "http://")
	cfg.UseSSL = false
	s, err := NewS3Storage(cfg)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.EnsureBucket(ctx))
	assert.Equal(t, []string{"HEAD /kinex", "PUT /kinex"}, fake.requests)

	// lần thứ hai bucket đã có, không tạo lại
	fake.requests = nil
	require.NoError(t, s.EnsureBucket(ctx))
	assert.Equal(t, []string{"HEAD /kinex"}, fake.requests)
}
