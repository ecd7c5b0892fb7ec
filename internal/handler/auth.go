package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/arenahub/arena-backend/internal/middleware"
	"github.com/arenahub/arena-backend/internal/service"
)

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

// ----- DTOs -----

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	// Identifier is an email when it contains '@', a username otherwise.
	Identifier string `json:"username_or_email"`
	Password   string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

// Register creates an account and returns tokens immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/email/password required"})
	}
	if !strings.Contains(req.Email, "@") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email"})
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	pair, err := h.Auth.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, pair)
}

// Login verifies credentials and returns a new pair, resetting every
// previous session of the user.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Identifier) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username_or_email and password required"})
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	pair, err := h.Auth.Login(ctx, req.Identifier, req.Password)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, pair)
}

// Refresh rotates a refresh token: the presented token is consumed and a
// new pair comes back. Retrying with the consumed token fails with 401.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	pair, err := h.Auth.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, pair)
}

// Logout revokes the presented refresh token. Unknown tokens still get a
// 204: logout is idempotent.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	if err := h.Auth.RevokeToken(ctx, req.RefreshToken); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Me echoes the identity claims of the access token (protected).
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"user_id":  c.Get(middleware.CtxUserID),
		"username": c.Get(middleware.CtxUsername),
		"roles":    c.Get(middleware.CtxRoleIDs),
	})
}
