package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/arenahub/arena-backend/internal/service"
)

// RoleHandler exposes role administration (admin-gated by the router).
type RoleHandler struct {
	Roles *service.RoleService
}

func NewRoleHandler(roles *service.RoleService) *RoleHandler {
	return &RoleHandler{Roles: roles}
}

type roleReq struct {
	Name string `json:"name"`
}
type assignReq struct {
	UserID uint64 `json:"user_id"`
	RoleID uint64 `json:"role_id"`
}

// Create handles POST /v1/roles.
func (h *RoleHandler) Create(c echo.Context) error {
	var req roleReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	role, err := h.Roles.CreateRole(ctx, req.Name)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": role.ID, "name": role.Name})
}

// List handles GET /v1/roles.
func (h *RoleHandler) List(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()

	roles, err := h.Roles.ListRoles(ctx)
	if err != nil {
		return fail(c, err)
	}
	out := make([]echo.Map, 0, len(roles))
	for _, r := range roles {
		out = append(out, echo.Map{"id": r.ID, "name": r.Name})
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/roles/:id.
func (h *RoleHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	role, err := h.Roles.GetRole(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": role.ID, "name": role.Name})
}

// Rename handles PATCH /v1/roles/:id.
func (h *RoleHandler) Rename(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req roleReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	role, err := h.Roles.RenameRole(ctx, id, req.Name)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": role.ID, "name": role.Name})
}

// Delete handles DELETE /v1/roles/:id (soft delete).
func (h *RoleHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	if err := h.Roles.DeleteRole(ctx, id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Assign handles POST /v1/roles/assign.
func (h *RoleHandler) Assign(c echo.Context) error {
	var req assignReq
	if err := c.Bind(&req); err != nil || req.UserID == 0 || req.RoleID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id and role_id required"})
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	if err := h.Roles.AssignRole(ctx, req.UserID, req.RoleID); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Remove handles DELETE /v1/roles/assign?user_id=&role_id=.
func (h *RoleHandler) Remove(c echo.Context) error {
	userID, err1 := strconv.ParseUint(c.QueryParam("user_id"), 10, 64)
	roleID, err2 := strconv.ParseUint(c.QueryParam("role_id"), 10, 64)
	if err1 != nil || err2 != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id and role_id required"})
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	if err := h.Roles.RemoveRole(ctx, userID, roleID); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UserRoles handles GET /v1/users/:id/roles.
func (h *RoleHandler) UserRoles(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	ids, err := h.Roles.UserRoles(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user_id": id, "role_ids": ids})
}

// RoleUsers handles GET /v1/roles/:id/users.
func (h *RoleHandler) RoleUsers(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	ids, err := h.Roles.RoleUsers(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"role_id": id, "user_ids": ids})
}
