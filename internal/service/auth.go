// Package service carries the business rules between the HTTP handlers and
// the repositories. Services receive a named zap logger and return the
// sentinel errors from internal/model; they never touch HTTP.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/arenahub/arena-backend/internal/config"
	"github.com/arenahub/arena-backend/internal/model"
	"github.com/arenahub/arena-backend/internal/repository"
	"github.com/arenahub/arena-backend/internal/utils"
)

// AuthService turns a proof of identity (credentials or a valid refresh
// token) into an access/refresh token pair, and invalidates pairs on
// logout. Refresh tokens rotate: each one is single-use.
type AuthService struct {
	users  *repository.UserRepo
	tokens *repository.TokenRepo
	roles  *repository.RoleRepo
	cfg    config.Config
	logger *zap.Logger
}

func NewAuthService(users *repository.UserRepo, tokens *repository.TokenRepo, roles *repository.RoleRepo, cfg config.Config, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		roles:  roles,
		cfg:    cfg,
		logger: logger.Named("auth"),
	}
}

// TokenPair is the result of every successful authentication operation.
type TokenPair struct {
	UserID         uint64    `json:"user_id"`
	Username       string    `json:"username"`
	RoleIDs        []uint64  `json:"roles"`
	AccessToken    string    `json:"access_token"`
	AccessExpires  time.Time `json:"access_expires"`
	RefreshToken   string    `json:"refresh_token"`
	RefreshExpires time.Time `json:"refresh_expires"`
}

// Register creates a user, grants the default member role and returns a
// fresh token pair. Email uniqueness is checked before username, so when
// both collide the email error wins.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (TokenPair, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	log := s.logger.With(zap.String("username", username), zap.String("email", email))

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		log.Error("email uniqueness check failed", zap.Error(err))
		return TokenPair{}, err
	}
	if exists {
		log.Warn("registration with taken email")
		return TokenPair{}, model.ErrDuplicateEmail
	}
	exists, err = s.users.UsernameExists(ctx, username)
	if err != nil {
		log.Error("username uniqueness check failed", zap.Error(err))
		return TokenPair{}, err
	}
	if exists {
		log.Warn("registration with taken username")
		return TokenPair{}, model.ErrDuplicateUsername
	}

	hash, err := utils.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		log.Error("password hashing failed", zap.Error(err))
		return TokenPair{}, err
	}
	userID, err := s.users.Create(ctx, username, email, hash)
	if err != nil {
		log.Error("user insert failed", zap.Error(err))
		return TokenPair{}, err
	}

	// New accounts get the member role. A missing role row is logged and
	// tolerated; the account still works, just without assignments.
	if role, err := s.roles.GetByName(ctx, model.RoleNameMember); err == nil {
		if err := s.roles.Assign(ctx, userID, role.ID); err != nil {
			log.Warn("default role assignment failed", zap.Error(err))
		}
	} else {
		log.Warn("default member role missing", zap.Error(err))
	}

	roleIDs, err := s.roles.IDsForUser(ctx, userID)
	if err != nil {
		return TokenPair{}, err
	}
	pair, err := s.issuePair(ctx, userID, username, email, roleIDs)
	if err != nil {
		return TokenPair{}, err
	}
	log.Info("user registered", zap.Uint64("user_id", userID))
	return pair, nil
}

// Login verifies credentials and returns a new token pair. The identifier
// is looked up as an email iff it contains '@'; there is no fallback to
// the other path. Missing users, inactive accounts and wrong passwords are
// indistinguishable to the caller. A successful login revokes every
// previously issued refresh token for the user before minting the new one.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (TokenPair, error) {
	identifier = strings.TrimSpace(identifier)
	log := s.logger.With(zap.String("identifier", identifier))

	var (
		u   model.User
		err error
	)
	if strings.Contains(identifier, "@") {
		u, err = s.users.GetByEmail(ctx, strings.ToLower(identifier))
	} else {
		u, err = s.users.GetByUsername(ctx, identifier)
	}
	if errors.Is(err, model.ErrUserNotFound) {
		log.Warn("login for unknown identifier")
		return TokenPair{}, model.ErrInvalidCredentials
	}
	if err != nil {
		log.Error("user lookup failed", zap.Error(err))
		return TokenPair{}, err
	}
	if u.Status != model.UserStatusActive {
		log.Warn("login for inactive account", zap.Uint64("user_id", u.ID))
		return TokenPair{}, model.ErrInvalidCredentials
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		log.Warn("login with wrong password", zap.Uint64("user_id", u.ID))
		return TokenPair{}, model.ErrInvalidCredentials
	}

	roleIDs, err := s.roles.IDsForUser(ctx, u.ID)
	if err != nil {
		return TokenPair{}, err
	}

	// Full session reset: every outstanding refresh token dies here, not
	// just the most recent one.
	if err := s.tokens.RevokeAllForUser(ctx, u.ID); err != nil {
		log.Error("session reset failed", zap.Uint64("user_id", u.ID), zap.Error(err))
		return TokenPair{}, err
	}

	pair, err := s.issuePair(ctx, u.ID, u.Username, u.Email, roleIDs)
	if err != nil {
		return TokenPair{}, err
	}
	log.Info("user logged in", zap.Uint64("user_id", u.ID))
	return pair, nil
}

// Refresh exchanges a valid refresh token for a new pair and consumes the
// presented token in a single guarded UPDATE. Presenting the same token
// twice — sequentially or concurrently — fails all but one caller with
// ErrInvalidToken; an expired token fails with ErrExpiredToken. Roles are
// re-read here so role changes take effect on the next rotation.
func (s *AuthService) Refresh(ctx context.Context, rawToken string) (TokenPair, error) {
	hash := utils.HashRefreshRaw(strings.TrimSpace(rawToken))

	stored, err := s.tokens.Find(ctx, hash)
	if err != nil {
		return TokenPair{}, err
	}
	if stored.Revoked {
		s.logger.Warn("refresh with revoked token", zap.Uint64("user_id", stored.UserID))
		return TokenPair{}, model.ErrInvalidToken
	}
	if !time.Now().UTC().Before(stored.ExpiresAt) {
		s.logger.Warn("refresh with expired token", zap.Uint64("user_id", stored.UserID))
		return TokenPair{}, model.ErrExpiredToken
	}

	// Consuming before minting closes the race between two concurrent
	// refreshes of the same token: only the caller whose UPDATE lands
	// gets a new pair.
	if err := s.tokens.Consume(ctx, hash); err != nil {
		if errors.Is(err, model.ErrInvalidToken) {
			s.logger.Warn("refresh lost rotation race", zap.Uint64("user_id", stored.UserID))
		}
		return TokenPair{}, err
	}

	u, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		return TokenPair{}, err
	}
	roleIDs, err := s.roles.IDsForUser(ctx, u.ID)
	if err != nil {
		return TokenPair{}, err
	}
	pair, err := s.issuePair(ctx, u.ID, u.Username, u.Email, roleIDs)
	if err != nil {
		return TokenPair{}, err
	}
	s.logger.Info("refresh token rotated", zap.Uint64("user_id", u.ID))
	return pair, nil
}

// RevokeToken invalidates a refresh token (logout). Unknown and
// already-revoked tokens are a silent no-op.
func (s *AuthService) RevokeToken(ctx context.Context, rawToken string) error {
	return s.tokens.Revoke(ctx, utils.HashRefreshRaw(strings.TrimSpace(rawToken)))
}

// issuePair mints an access token and a refresh token and persists the
// refresh token's hash.
func (s *AuthService) issuePair(ctx context.Context, userID uint64, username, email string, roleIDs []uint64) (TokenPair, error) {
	access, err := utils.NewAccessToken(s.cfg.JWTSecret, s.cfg.JWTIssuer, s.cfg.JWTAudience,
		utils.AccessClaims{UserID: userID, Username: username, Email: email, RoleIDs: roleIDs},
		s.cfg.AccessTTLMin)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := utils.NewRefreshToken(s.cfg.RefreshTTLDays)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.tokens.Store(ctx, userID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		UserID:         userID,
		Username:       username,
		RoleIDs:        roleIDs,
		AccessToken:    access.Token,
		AccessExpires:  access.Exp,
		RefreshToken:   refresh.Raw,
		RefreshExpires: refresh.Exp,
	}, nil
}
