package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"kinex-backend/internal/domains/upload"
)

type sqliteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) upload.Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) Record(ctx context.Context, u *upload.Upload) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO uploads (key, owner_id, file_url, created_at) VALUES (?, ?, ?, ?)`,
		u.Key, u.OwnerID.String(), u.FileURL, u.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert upload: %w", err)
	}
	return nil
}

func (r *sqliteRepository) OwnedURLs(ctx context.Context, ownerID uuid.UUID, urls []string) ([]string, error) {
	if len(urls) == 0 {
		return []string{}, nil
	}

	args := make([]interface{}, 0, len(urls)+1)
	args = append(args, ownerID.String())
	for _, u := range urls {
		args = append(args, u)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(urls)), ", ")

	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT file_url FROM uploads WHERE owner_id = ? AND file_url IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("query owned uploads: %w", err)
	}
	defer rows.Close()

	owned := []string{}
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("scan upload: %w", err)
		}
		owned = append(owned, url)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate uploads: %w", err)
	}
	return owned, nil
}
