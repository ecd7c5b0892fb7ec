package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/arenahub/arena-backend/internal/model"
)

// TokenRepo persists refresh tokens. Rows hold only the SHA-256 hash of
// the raw token together with expiry and revocation state.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Store inserts a refresh token hash row for a user.
func (r *TokenRepo) Store(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, exp)
	return err
}

// Find returns the stored token matching the hash. Unknown hashes map to
// ErrInvalidToken; revocation and expiry are judged by the caller so it can
// report the precise token state.
func (r *TokenRepo) Find(ctx context.Context, tokenHash string) (model.RefreshToken, error) {
	var (
		t         model.RefreshToken
		revokedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, token_hash, expires_at, revoked, revoked_at, created_at FROM refresh_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.Revoked, &revokedAt, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RefreshToken{}, model.ErrInvalidToken
	}
	if err != nil {
		return model.RefreshToken{}, err
	}
	if revokedAt.Valid {
		at := revokedAt.Time
		t.RevokedAt = &at
	}
	return t, nil
}

// Consume atomically revokes an active token and reports whether this
// caller won it. The revoked=0 predicate makes the statement a
// compare-and-swap: of N concurrent refreshes presenting the same token,
// exactly one affects a row; the rest get ErrInvalidToken.
func (r *TokenRepo) Consume(ctx context.Context, tokenHash string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked=1, revoked_at=NOW() WHERE token_hash=? AND revoked=0",
		tokenHash)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrInvalidToken
	}
	return nil
}

// Revoke marks a token as revoked. Revoking an unknown or already-revoked
// token affects zero rows and is not an error (logout is idempotent).
func (r *TokenRepo) Revoke(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked=1, revoked_at=NOW() WHERE token_hash=? AND revoked=0",
		tokenHash)
	return err
}

// RevokeAllForUser revokes every active token of a user. Login calls this
// for a full session reset before issuing the new pair.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked=1, revoked_at=NOW() WHERE user_id=? AND revoked=0",
		userID)
	return err
}
