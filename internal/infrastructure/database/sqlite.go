package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)
)

// sqliteSchema mirrors migrations/postgres with TEXT uuids and TEXT json columns.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
    id            TEXT PRIMARY KEY,
    email         TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    name          TEXT CHECK (name IS NULL OR length(name) BETWEEN 1 AND 100),
    created_at    INTEGER NOT NULL, -- unix nanoseconds
    updated_at    INTEGER NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS users_email_lower_idx ON users (lower(email));

CREATE TABLE IF NOT EXISTS projects (
    id            TEXT PRIMARY KEY,
    owner_id      TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    project_name  TEXT NOT NULL CHECK (length(project_name) > 0),
    original_text TEXT NOT NULL DEFAULT '',
    script        TEXT NOT NULL DEFAULT '',
    characters    TEXT NOT NULL DEFAULT '[]' CHECK (json_valid(characters) AND json_type(characters) = 'array'),
    scenes        TEXT NOT NULL DEFAULT '[]' CHECK (json_valid(scenes) AND json_type(scenes) = 'array'),
    created_at    INTEGER NOT NULL, -- unix nanoseconds
    updated_at    INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS projects_owner_updated_idx ON projects (owner_id, updated_at DESC);

CREATE TABLE IF NOT EXISTS uploads (
    key        TEXT PRIMARY KEY,
    owner_id   TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    file_url   TEXT NOT NULL,
    created_at INTEGER NOT NULL -- unix nanoseconds
);

CREATE INDEX IF NOT EXISTS uploads_owner_url_idx ON uploads (owner_id, file_url);
`

// OpenSQLite mở (hoặc tạo) database file, bật foreign keys và chạy schema.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite chỉ cho một writer; giữ một connection để PRAGMA áp dụng cho mọi query
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}
