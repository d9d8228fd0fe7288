// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"kinex-backend/internal/infrastructure/database"
)

// NewSQLite mở một database file mới trong t.TempDir() với schema đầy đủ
func NewSQLite(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "kinex.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// InsertUser tạo một user tối thiểu bằng SQL thô (owner cho projects)
func InsertUser(t *testing.T, db *sql.DB, email string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	now := time.Now().UnixNano()
	_, err := db.Exec(
		`INSERT INTO users (id, email, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id.String(), email, "x", now, now,
	)
	require.NoError(t, err)
	return id
}

// MemoryCache là cache.Cache in-memory, ghi nhận số lần Get/Set
type MemoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
	Gets  int
	Sets  int
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: map[string][]byte{}}
}

func (m *MemoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Gets++

	raw, ok := m.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *MemoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sets++
	m.items[key] = raw
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.items, k)
	}
	return nil
}

func (m *MemoryCache) Ping(context.Context) error { return nil }
