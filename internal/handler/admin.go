package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/identity-service/internal/middleware"
	"github.com/iliyamo/identity-service/internal/repository"
	"github.com/iliyamo/identity-service/internal/service"
)

// AdminHandler exposes the admin-only endpoints.  All routes are behind
// JWTAuth plus RequireRole("admin"); the self-protection rules live in
// the admin service, not here.
type AdminHandler struct {
	Admin *service.AdminService
}

func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{Admin: admin}
}

// ListUsers returns the cached user listing.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	users, err := h.Admin.ListUsers(ctx)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "service unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

// VerifyUser marks an account verified without a code.
func (h *AdminHandler) VerifyUser(c echo.Context) error {
	var req emailReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Admin.VerifyUser(ctx, strings.TrimSpace(req.Email)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "service unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// DeleteUser removes an account and cascades its tokens and codes.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	actorID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || targetID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Admin.DeleteUser(ctx, actorID, targetID); err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		default:
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "service unavailable"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
