package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/arenahub/arena-backend/internal/model"
)

// UserRepo persists identity records. Every read filters on
// deleted_at IS NULL; users are never hard-deleted.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id, username, email, password_hash, status, created_at, updated_at, deleted_at"

// Create inserts a user and returns its id. Unique-key violations are
// mapped to the duplicate sentinel for whichever column collided; the
// service checks uniqueness up front, so this is a backstop against races.
func (r *UserRepo) Create(ctx context.Context, username, email, passwordHash string) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, status) VALUES (?,?,?,?)",
		username, email, passwordHash, model.UserStatusActive)
	if err != nil {
		if isDuplicateKey(err) {
			if strings.Contains(err.Error(), "email") {
				return 0, model.ErrDuplicateEmail
			}
			return 0, model.ErrDuplicateUsername
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// EmailExists reports whether a non-deleted user holds the email.
func (r *UserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE email=? AND deleted_at IS NULL",
		email).Scan(&n)
	return n > 0, err
}

// UsernameExists reports whether a non-deleted user holds the username.
func (r *UserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	username = strings.TrimSpace(username)
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE username=? AND deleted_at IS NULL",
		username).Scan(&n)
	return n > 0, err
}

// GetByEmail fetches a non-deleted user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.getOne(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? AND deleted_at IS NULL LIMIT 1", email)
}

// GetByUsername fetches a non-deleted user by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return r.getOne(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? AND deleted_at IS NULL LIMIT 1",
		strings.TrimSpace(username))
}

// GetByID fetches a non-deleted user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.getOne(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? AND deleted_at IS NULL LIMIT 1", id)
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg any) (model.User, error) {
	var (
		u         model.User
		updatedAt sql.NullTime
		deletedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Status,
		&u.CreatedAt, &updatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		u.UpdatedAt = &t
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		u.DeletedAt = &t
	}
	return u, nil
}

// isDuplicateKey sniffs MySQL error 1062 (duplicate entry).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
