package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/arenahub/arena-backend/internal/config"
	"github.com/arenahub/arena-backend/internal/model"
	"github.com/arenahub/arena-backend/internal/repository"
	"github.com/arenahub/arena-backend/internal/service"
	"github.com/arenahub/arena-backend/internal/utils"
)

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	svc := service.NewAuthService(
		repository.NewUserRepo(db),
		repository.NewTokenRepo(db),
		repository.NewRoleRepo(db),
		config.Config{
			JWTSecret:      "test-secret",
			JWTIssuer:      "arena",
			JWTAudience:    "arena-clients",
			AccessTTLMin:   15,
			RefreshTTLDays: 30,
			BcryptCost:     bcrypt.MinCost,
		},
		zap.NewNop(),
	)
	return NewAuthHandler(svc), mock
}

func postJSON(t *testing.T, h echo.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, h(c))
	return rec
}

func TestLoginHandler(t *testing.T) {
	h, mock := newAuthHandler(t)

	pwHash, err := utils.HashPassword("s3cret", bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username=? AND deleted_at IS NULL")).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "status", "created_at", "updated_at", "deleted_at"}).
			AddRow(7, "alice", "alice@example.com", pwHash, model.UserStatusActive, time.Now().UTC(), nil, nil))
	mock.ExpectQuery(regexp.QuoteMeta("JOIN user_roles ur ON ur.role_id = r.id")).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE refresh_tokens SET revoked=1")).
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO refresh_tokens")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec := postJSON(t, h.Login, `{"username_or_email":"alice","password":"s3cret"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var pair service.TokenPair
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
	assert.Equal(t, uint64(7), pair.UserID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestLoginHandlerBadCredentials(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username=? AND deleted_at IS NULL")).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	rec := postJSON(t, h.Login, `{"username_or_email":"ghost","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginHandlerMissingFields(t *testing.T) {
	h, _ := newAuthHandler(t)

	rec := postJSON(t, h.Login, `{"username_or_email":"","password":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterHandlerValidation(t *testing.T) {
	h, _ := newAuthHandler(t)

	cases := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"bad email", `{"username":"bob","email":"not-an-email","password":"x"}`},
		{"missing password", `{"username":"bob","email":"bob@example.com"}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := postJSON(t, h.Register, c.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRegisterHandlerDuplicateEmail(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users WHERE email=?")).
		WithArgs("busy@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	rec := postJSON(t, h.Register, `{"username":"bob","email":"busy@example.com","password":"x"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRefreshHandlerInvalidToken(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM refresh_tokens WHERE token_hash=?")).
		WillReturnError(sql.ErrNoRows)

	rec := postJSON(t, h.Refresh, `{"refresh_token":"bogus"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshHandlerMissingToken(t *testing.T) {
	h, _ := newAuthHandler(t)

	rec := postJSON(t, h.Refresh, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogoutHandlerIdempotent(t *testing.T) {
	h, mock := newAuthHandler(t)

	// Revoking a token nobody issued still yields 204.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE refresh_tokens SET revoked=1")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rec := postJSON(t, h.Logout, `{"refresh_token":"whatever"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
