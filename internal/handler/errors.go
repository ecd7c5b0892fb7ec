// Package handler contains the HTTP handlers. Handlers bind and validate
// the request, call a service with a bounded context and translate
// sentinel errors into status codes; business rules live one layer down.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arenahub/arena-backend/internal/middleware"
	"github.com/arenahub/arena-backend/internal/model"
)

// dbTimeout bounds every service call made from a handler.
const dbTimeout = 5 * time.Second

func requestCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// fail maps a sentinel error to its status code and writes the standard
// error body. Unrecognized errors become an opaque 500: storage failures
// are logged by the service layer, never leaked to the client.
func fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, model.ErrInvalidCredentials),
		errors.Is(err, model.ErrInvalidToken),
		errors.Is(err, model.ErrExpiredToken):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	case errors.Is(err, model.ErrUserNotFound),
		errors.Is(err, model.ErrRoleNotFound),
		errors.Is(err, model.ErrPlayerNotFound),
		errors.Is(err, model.ErrMatchNotFound),
		errors.Is(err, model.ErrNewsNotFound),
		errors.Is(err, model.ErrEventNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, model.ErrDuplicateEmail),
		errors.Is(err, model.ErrDuplicateUsername),
		errors.Is(err, model.ErrDuplicateRoleName),
		errors.Is(err, model.ErrDuplicatePlayerName),
		errors.Is(err, model.ErrRoleAlreadyAssigned):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// getUserID reads the authenticated user id stored by the JWT middleware.
func getUserID(c echo.Context) (uint64, error) {
	id, ok := c.Get(middleware.CtxUserID).(uint64)
	if !ok || id == 0 {
		return 0, errors.New("no authenticated user")
	}
	return id, nil
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}
