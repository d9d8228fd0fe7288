package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"kinex-backend/internal/domains/user"
)

// sqliteRepository: embedded backend cho local dev và tests.
// Timestamps lưu dạng unix nanoseconds.
type sqliteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) user.Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) Create(ctx context.Context, u *user.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID.String(),
		u.Email,
		u.PasswordHash,
		nullString(u.Name),
		u.CreatedAt.UnixNano(),
		u.UpdatedAt.UnixNano(),
	)
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return user.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *sqliteRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, name, created_at, updated_at FROM users WHERE id = ?`,
		id.String(),
	))
}

func (r *sqliteRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, name, created_at, updated_at FROM users WHERE lower(email) = lower(?)`,
		email,
	))
}

func (r *sqliteRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM users WHERE lower(email) = lower(?)`, email,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return n > 0, nil
}

func (r *sqliteRepository) scanOne(row *sql.Row) (*user.User, error) {
	var (
		u                    user.User
		id                   string
		name                 sql.NullString
		createdAt, updatedAt int64
	)
	err := row.Scan(&id, &u.Email, &u.PasswordHash, &name, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	if u.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse user id: %w", err)
	}
	if name.Valid {
		u.Name = &name.String
	}
	u.CreatedAt = time.Unix(0, createdAt).UTC()
	u.UpdatedAt = time.Unix(0, updatedAt).UTC()

	return &u, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// modernc.org/sqlite trả lỗi dạng "constraint failed: UNIQUE constraint failed: ..."
func isSQLiteUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
