package model

import "time"

// User statuses. Deactivated accounts keep their rows but fail login.
const (
	UserStatusInactive byte = 0
	UserStatusActive   byte = 1
)

// User mirrors the 'users' table. Users are never hard-deleted; DeletedAt
// marks the row as gone for every read path.
type User struct {
	ID           uint64
	Username     string
	Email        string
	PasswordHash string
	Status       byte
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	DeletedAt    *time.Time
}

// RefreshToken mirrors the 'refresh_tokens' table. Only the SHA-256 hash of
// the raw token is stored. A token is usable iff it is not revoked and its
// expiry is in the future.
type RefreshToken struct {
	ID        uint64
	UserID    uint64
	TokenHash string
	ExpiresAt time.Time
	Revoked   bool
	RevokedAt *time.Time
	CreatedAt time.Time
}
