package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"kinex-backend/internal/domains/upload"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) upload.Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Record(ctx context.Context, u *upload.Upload) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO uploads (key, owner_id, file_url, created_at) VALUES ($1, $2, $3, $4)`,
		u.Key, u.OwnerID, u.FileURL, u.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert upload: %w", err)
	}
	return nil
}

func (r *postgresRepository) OwnedURLs(ctx context.Context, ownerID uuid.UUID, urls []string) ([]string, error) {
	if len(urls) == 0 {
		return []string{}, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT file_url FROM uploads WHERE owner_id = $1 AND file_url = ANY($2)`,
		ownerID, urls,
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
