package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"kinex-backend/internal/domains/project"
)

type sqliteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) project.Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) Create(ctx context.Context, p *project.Project) error {
	p.Normalize()
	characters, scenes, err := marshalLists(p.Characters, p.Scenes)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO projects (`+projectColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID.String(), p.OwnerID.String(), p.ProjectName, p.OriginalText, p.Script,
		characters, scenes, p.CreatedAt.UnixNano(), p.UpdatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (r *sqliteRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]project.Project, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE owner_id = ? ORDER BY updated_at DESC, created_at DESC`,
		ownerID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := []project.Project{}
	for rows.Next() {
		p, err := scanSQLiteProject(rows)
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

func (r *sqliteRepository) FindOwned(ctx context.Context, ownerID, projectID uuid.UUID) (*project.Project, error) {
	return scanSQLiteProject(r.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ? AND owner_id = ?`,
		projectID.String(), ownerID.String(),
	))
}

func (r *sqliteRepository) UpdateOwned(ctx context.Context, ownerID, projectID uuid.UUID, req project.UpdateProjectRequest) (*project.UpdateResult, error) {
	sets, args, err := buildUpdate(req, time.Now().UTC().UnixNano(), func(int) string { return "?" })
	if err != nil {
		return nil, err
	}
	// updated_at luôn tăng thật sự, kể cả khi hai update rơi vào cùng một tick
	sets[len(sets)-1] = "updated_at = max(updated_at + 1, ?)"
	args = append(args, projectID.String(), ownerID.String())

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result := &project.UpdateResult{}
	if req.Characters != nil {
		var raw string
		err := tx.QueryRowContext(ctx,
			`SELECT characters FROM projects WHERE id = ? AND owner_id = ?`,
			projectID.String(), ownerID.String(),
		).Scan(&raw)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, project.ErrProjectNotFound
			}
			return nil, fmt.Errorf("read characters: %w", err)
		}
		if err := json.Unmarshal([]byte(raw), &result.PreviousCharacters); err != nil {
			return nil, fmt.Errorf("decode characters: %w", err)
		}
	}

	p, err := scanSQLiteProject(tx.QueryRowContext(ctx,
		`UPDATE projects SET `+strings.Join(sets, ", ")+` WHERE id = ? AND owner_id = ? RETURNING `+projectColumns,
		args...,
	))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	result.Project = p
	return result, nil
}

func (r *sqliteRepository) ImageURLReferenced(ctx context.Context, url string) (bool, error) {
	var referenced bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM projects p, json_each(p.characters) c
			WHERE json_extract(c.value, '$.headshotUrl') = ?1
			   OR json_extract(c.value, '$.fullbodyUrl') = ?1
		)`, url,
	).Scan(&referenced)
	if err != nil {
		return false, fmt.Errorf("check image references: %w", err)
	}
	return referenced, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSQLiteProject(row rowScanner) (*project.Project, error) {
	var (
		p                    project.Project
		id, ownerID          string
		characters, scenes   string
		createdAt, updatedAt int64
	)
	err := row.Scan(
		&id, &ownerID, &p.ProjectName, &p.OriginalText, &p.Script,
		&characters, &scenes, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, project.ErrProjectNotFound
		}
		return nil, fmt.Errorf("scan project: %w", err)
	}

	if p.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse project id: %w", err)
	}
	if p.OwnerID, err = uuid.Parse(ownerID); err != nil {
		return nil, fmt.Errorf("parse owner id: %w", err)
	}
	p.CreatedAt = time.Unix(0, createdAt).UTC()
	p.UpdatedAt = time.Unix(0, updatedAt).UTC()

	if err := unmarshalLists([]byte(characters), []byte(scenes), &p); err != nil {
		return nil, err
	}
	return &p, nil
}
