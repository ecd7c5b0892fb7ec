package utils // package utils provides helpers for token creation and hashing

import (
    "crypto/rand"   // secure random number generation
    "crypto/sha256" // SHA-256 hashing for refresh tokens
    "encoding/hex"  // hex encoding for token material
    "strconv"       // role id formatting for claims
    "time"          // expiry computation

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
    "github.com/google/uuid"       // jti claim values
)

// AccessToken is a signed JWT together with its expiry. Access tokens are
// stateless: once issued they stay valid until the encoded expiry
// regardless of later role changes or account deactivation; only refresh
// tightens this by re-reading roles at rotation time.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// RefreshToken is the long-lived opaque secret exchanged for a new token
// pair. The Raw value goes back to the client; only its SHA-256 hash is
// ever stored.
type RefreshToken struct {
    Raw string    // raw token string returned to the client
    Exp time.Time // UTC expiration time
}

// AccessClaims carries the identity baked into an access token.
type AccessClaims struct {
    UserID   uint64
    Username string
    Email    string
    RoleIDs  []uint64
}

// NewAccessToken builds and signs an HS256 JWT. Claims: sub (user id),
// username, email, jti (unique per token, for replay distinction), roles
// (repeated role ids as strings), iss, aud, exp and iat.
func NewAccessToken(secret, issuer, audience string, cl AccessClaims, ttlMin int) (AccessToken, error) {
    now := time.Now().UTC()
    exp := now.Add(time.Duration(ttlMin) * time.Minute)

    roles := make([]string, 0, len(cl.RoleIDs))
    for _, id := range cl.RoleIDs {
        roles = append(roles, strconv.FormatUint(id, 10))
    }

    claims := jwt.MapClaims{
        "sub":      cl.UserID,
        "username": cl.Username,
        "email":    cl.Email,
        "jti":      uuid.NewString(),
        "roles":    roles,
        "iss":      issuer,
        "aud":      audience,
        "exp":      exp.Unix(),
        "iat":      now.Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// NewRefreshToken returns a cryptographically random token and its expiry.
// ttlDays controls how long the token may be exchanged.
func NewRefreshToken(ttlDays int) (RefreshToken, error) {
    raw, err := randomHex(48) // 48 bytes -> 96 hex chars
    if err != nil {
        return RefreshToken{}, err
    }
    return RefreshToken{
        Raw: raw,
        Exp: time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour),
    }, nil
}

// HashRefreshRaw returns the hex SHA-256 of a raw refresh token. Storing
// only the hash keeps stolen database rows from being exchanged.
func HashRefreshRaw(raw string) string {
    sum := sha256.Sum256([]byte(raw))
    return hex.EncodeToString(sum[:])
}

// randomHex returns a hex string from n bytes of secure random data.
func randomHex(n int) (string, error) {
    buf := make([]byte, n)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}
