package middleware // middleware provides shared request processing for handlers

import (
    "context"  // bounded lookups against the role table
    "net/http" // standard HTTP status codes
    "time"     // lookup timeout

    "github.com/labstack/echo/v4" // middleware chaining and context

    "github.com/arenahub/arena-backend/internal/model"
)

// CapabilityResolver maps the role ids carried in an access token to
// capabilities by consulting the live role table. Tokens carry ids, not
// semantics; what an id grants is decided here at request time, so
// renaming or deleting a role changes authorization without re-issuing
// tokens.
type CapabilityResolver interface {
    CapabilitiesForRoleIDs(ctx context.Context, ids []uint64) ([]model.Capability, error)
}

// RequireCapability returns a middleware that admits the request only when
// the authenticated user's roles resolve to at least one of the required
// capabilities. It assumes JWTAuth already stored the role ids in the
// context.
func RequireCapability(resolver CapabilityResolver, required ...model.Capability) echo.MiddlewareFunc {
    want := make(map[model.Capability]bool, len(required))
    for _, cap := range required {
        want[cap] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            ids, ok := c.Get(CtxRoleIDs).([]uint64)
            if !ok || len(ids) == 0 {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
            }

            ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
            defer cancel()

            caps, err := resolver.CapabilitiesForRoleIDs(ctx, ids)
            if err != nil {
                return c.JSON(http.StatusInternalServerError, echo.Map{"error": "authorization check failed"})
            }
            for _, cap := range caps {
                if want[cap] {
                    return next(c)
                }
            }
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        }
    }
}
