package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/arenahub/arena-backend/internal/model"
)

func newMock(t *testing.T) (sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		db.Close()
	})
	return mock, db
}

func TestTokenStore(t *testing.T) {
	mock, db := newMock(t)
	repo := NewTokenRepo(db)

	exp := time.Now().UTC().Add(24 * time.Hour)
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)")).
		WithArgs(uint64(7), "hash-1", exp).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Store(context.Background(), 7, "hash-1", exp); err != nil {
		t.Fatalf("Store error: %v", err)
	}
}

func TestTokenFind(t *testing.T) {
	mock, db := newMock(t)
	repo := NewTokenRepo(db)

	now := time.Now().UTC()
	exp := now.Add(24 * time.Hour)
	rows := sqlmock.NewRows([]string{"id", "user_id", "token_hash", "expires_at", "revoked", "revoked_at", "created_at"}).
		AddRow(3, 7, "hash-1", exp, false, nil, now)
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, user_id, token_hash, expires_at, revoked, revoked_at, created_at FROM refresh_tokens WHERE token_hash=? LIMIT 1")).
		WithArgs("hash-1").
		WillReturnRows(rows)

	tok, err := repo.Find(context.Background(), "hash-1")
	if err != nil {
		t.Fatalf("Find error: %v", err)
	}
	if tok.ID != 3 || tok.UserID != 7 || tok.Revoked || tok.RevokedAt != nil {
		t.Fatalf("unexpected token: %+v", tok)
	}
}

func TestTokenFindUnknown(t *testing.T) {
	mock, db := newMock(t)
	repo := NewTokenRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM refresh_tokens WHERE token_hash=?")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Find(context.Background(), "missing")
	if !errors.Is(err, model.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken, got %v", err)
	}
}

func TestTokenFindRevoked(t *testing.T) {
	mock, db := newMock(t)
	repo := NewTokenRepo(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "user_id", "token_hash", "expires_at", "revoked", "revoked_at", "created_at"}).
		AddRow(3, 7, "hash-1", now.Add(time.Hour), true, now, now.Add(-time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta("FROM refresh_tokens WHERE token_hash=?")).
		WithArgs("hash-1").
		WillReturnRows(rows)

	tok, err := repo.Find(context.Background(), "hash-1")
	if err != nil {
		t.Fatalf("Find error: %v", err)
	}
	if !tok.Revoked || tok.RevokedAt == nil {
		t.Fatalf("revocation state lost: %+v", tok)
	}
}

func TestTokenConsume(t *testing.T) {
	mock, db := newMock(t)
	repo := NewTokenRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE refresh_tokens SET revoked=1, revoked_at=NOW() WHERE token_hash=? AND revoked=0")).
		WithArgs("hash-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Consume(context.Background(), "hash-1"); err != nil {
		t.Fatalf("Consume error: %v", err)
	}
}

func TestTokenConsumeAlreadyRevoked(t *testing.T) {
	mock, db := newMock(t)
	repo := NewTokenRepo(db)

	// Another caller got there first: zero rows, the token is spent.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE refresh_tokens SET revoked=1")).
		WithArgs("hash-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Consume(context.Background(), "hash-1"); !errors.Is(err, model.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken, got %v", err)
	}
}

func TestTokenRevoke(t *testing.T) {
	mock, db := newMock(t)
	repo := NewTokenRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE refresh_tokens SET revoked=1, revoked_at=NOW() WHERE token_hash=? AND revoked=0")).
		WithArgs("hash-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Revoke(context.Background(), "hash-1"); err != nil {
		t.Fatalf("Revoke error: %v", err)
	}
}

func TestTokenRevokeIdempotent(t *testing.T) {
	mock, db := newMock(t)
	repo := NewTokenRepo(db)

	// Already revoked: zero rows affected, still no error.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE refresh_tokens SET revoked=1")).
		WithArgs("hash-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Revoke(context.Background(), "hash-1"); err != nil {
		t.Fatalf("Revoke error: %v", err)
	}
}

func TestTokenRevokeAllForUser(t *testing.T) {
	mock, db := newMock(t)
	repo := NewTokenRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE refresh_tokens SET revoked=1, revoked_at=NOW() WHERE user_id=? AND revoked=0")).
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	if err := repo.RevokeAllForUser(context.Background(), 7); err != nil {
		t.Fatalf("RevokeAllForUser error: %v", err)
	}
}
