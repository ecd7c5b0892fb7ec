package middleware // middleware contains reusable HTTP middleware functions

import (
    "net/http" // HTTP status codes for responses
    "strconv"  // claim value conversion
    "strings"  // prefix checking and trimming

    "github.com/golang-jwt/jwt/v5" // JWT parsing and validation
    "github.com/labstack/echo/v4"  // Echo framework middleware plumbing
)

// Context keys populated by JWTAuth for downstream handlers and gates.
const (
    CtxUserID   = "user_id"
    CtxUsername = "username"
    CtxRoleIDs  = "role_ids"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the subject, username and role-id claims into the request
// context. The secret must match the one used at issuance. The token is
// trusted as-is until its expiry: role changes and deactivation take
// effect at the next refresh, not mid-window.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            // Pin the signing method to HMAC; a token signed any other way
            // is rejected before the claims are looked at.
            tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
                if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
                    return nil, echo.ErrUnauthorized
                }
                return []byte(secret), nil
            })
            if err != nil || !tok.Valid {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            claims, ok := tok.Claims.(jwt.MapClaims)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
            }

            c.Set(CtxUserID, subjectID(claims))
            if name, ok := claims["username"].(string); ok {
                c.Set(CtxUsername, name)
            }
            c.Set(CtxRoleIDs, roleIDs(claims))
            return next(c)
        }
    }
}

// subjectID extracts the numeric user id from the sub claim. JSON numbers
// decode as float64; some issuers stringify them instead.
func subjectID(claims jwt.MapClaims) uint64 {
    switch v := claims["sub"].(type) {
    case float64:
        return uint64(v)
    case string:
        if n, err := strconv.ParseUint(v, 10, 64); err == nil {
            return n
        }
    }
    return 0
}

// roleIDs extracts the repeated role-id claims.
func roleIDs(claims jwt.MapClaims) []uint64 {
    raw, ok := claims["roles"].([]interface{})
    if !ok {
        return nil
    }
    ids := make([]uint64, 0, len(raw))
    for _, r := range raw {
        switch v := r.(type) {
        case string:
            if n, err := strconv.ParseUint(v, 10, 64); err == nil {
                ids = append(ids, n)
            }
        case float64:
            ids = append(ids, uint64(v))
        }
    }
    return ids
}
