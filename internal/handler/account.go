package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/identity-service/internal/middleware"
	"github.com/iliyamo/identity-service/internal/service"
)

// AccountHandler exposes the endpoints a logged-in user calls about
// themselves.
type AccountHandler struct {
	Sessions *service.SessionManager
}

func NewAccountHandler(sessions *service.SessionManager) *AccountHandler {
	return &AccountHandler{Sessions: sessions}
}

type changePasswordReq struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Me: simple protected endpoint echoing the token claims.
func (h *AccountHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"user_id":  c.Get(middleware.CtxUserID),
		"username": c.Get(middleware.CtxUsername),
		"role":     c.Get(middleware.CtxRole),
	})
}

// ChangePassword replaces the caller's password after checking the
// current one.  This is also the step that retires the placeholder
// password a fresh registration is left with.
func (h *AccountHandler) ChangePassword(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req changePasswordReq
	if err := c.Bind(&req); err != nil || req.CurrentPassword == "" || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "current_password/new_password required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Sessions.ChangePassword(ctx, uid, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "service unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
