package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"kinex-backend/internal/domains/project"
	"kinex-backend/pkg/database"
)

const projectColumns = `id, owner_id, project_name, original_text, script, characters, scenes, created_at, updated_at`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) project.Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, p *project.Project) error {
	p.Normalize()
	characters, scenes, err := marshalLists(p.Characters, p.Scenes)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = r.pool.Exec(ctx, query,
		p.ID, p.OwnerID, p.ProjectName, p.OriginalText, p.Script,
		characters, scenes, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (r *postgresRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]project.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE owner_id = $1
		ORDER BY updated_at DESC, created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := []project.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return projects, nil
}

func (r *postgresRepository) FindOwned(ctx context.Context, ownerID, projectID uuid.UUID) (*project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1 AND owner_id = $2`
	return scanProject(r.pool.QueryRow(ctx, query, projectID, ownerID))
}

// UpdateOwned: SET chỉ gồm các field được gửi.
// Khi characters được gửi, row bị lock để đọc characters cũ trong cùng transaction.
func (r *postgresRepository) UpdateOwned(ctx context.Context, ownerID, projectID uuid.UUID, req project.UpdateProjectRequest) (*project.UpdateResult, error) {
	query, args, err := postgresUpdateQuery(req, time.Now().UTC(), ownerID, projectID)
	if err != nil {
		return nil, err
	}

	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*project.UpdateResult, error) {
		result := &project.UpdateResult{}

		if req.Characters != nil {
			var raw []byte
			err := tx.QueryRow(ctx,
				`SELECT characters FROM projects WHERE id = $1 AND owner_id = $2 FOR UPDATE`,
				projectID, ownerID,
			).Scan(&raw)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return nil, project.ErrProjectNotFound
				}
				return nil, fmt.Errorf("lock project: %w", err)
			}
			if err := json.Unmarshal(raw, &result.PreviousCharacters); err != nil {
				return nil, fmt.Errorf("decode characters: %w", err)
			}
		}

		p, err := scanProject(tx.QueryRow(ctx, query, args...))
		if err != nil {
			return nil, err
		}
		result.Project = p
		return result, nil
	})
}

// postgresUpdateQuery: $1..$n cho các field SET, hai placeholder cuối là id và owner_id
func postgresUpdateQuery(req project.UpdateProjectRequest, updatedAt time.Time, ownerID, projectID uuid.UUID) (string, []interface{}, error) {
	sets, args, err := buildUpdate(req, updatedAt, func(i int) string { return fmt.Sprintf("$%d", i) })
	if err != nil {
		return "", nil, err
	}
	args = append(args, projectID, ownerID)
	query := fmt.Sprintf(
		`UPDATE projects SET %s WHERE id = $%d AND owner_id = $%d RETURNING `+projectColumns,
		strings.Join(sets, ", "), len(args)-1, len(args),
	)
	return query, args, nil
}

func (r *postgresRepository) ImageURLReferenced(ctx context.Context, url string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM projects p, jsonb_array_elements(p.characters) c
			WHERE c->>'headshotUrl' = $1 OR c->>'fullbodyUrl' = $1
		)
	`
	var referenced bool
	if err := r.pool.QueryRow(ctx, query, url).Scan(&referenced); err != nil {
		return false, fmt.Errorf("check image references: %w", err)
	}
	return referenced, nil
}

func scanProject(row pgx.Row) (*project.Project, error) {
	var (
		p                  project.Project
		characters, scenes []byte
	)
	err := row.Scan(
		&p.ID, &p.OwnerID, &p.ProjectName, &p.OriginalText, &p.Script,
		&characters, &scenes, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, project.ErrProjectNotFound
		}
		return nil, fmt.Errorf("scan project: %w", err)
	}
	if err := unmarshalLists(characters, scenes, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
