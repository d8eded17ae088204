package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/identity-service/internal/repository"
	"github.com/iliyamo/identity-service/internal/service"
)

// VerificationHandler exposes the email verification and password reset
// endpoints.
type VerificationHandler struct {
	Verification *service.VerificationService
	Reset        *service.PasswordResetService
}

func NewVerificationHandler(v *service.VerificationService, r *service.PasswordResetService) *VerificationHandler {
	return &VerificationHandler{Verification: v, Reset: r}
}

type verifyReq struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}
type emailReq struct {
	Email string `json:"email"`
}
type resetReq struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

// codeError maps the code-validation failures onto stable response kinds.
// Anything unrecognized is a store problem and reported as unavailable.
func codeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found", "message": "no pending code"})
	case errors.Is(err, service.ErrExpired):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code_expired", "message": "code has expired, request a new one"})
	case errors.Is(err, service.ErrMismatch):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code_mismatch", "message": "wrong code"})
	default:
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "unavailable", "message": "service unavailable"})
	}
}

// VerifyEmail confirms an address with a submitted code.
func (h *VerificationHandler) VerifyEmail(c echo.Context) error {
	var req verifyReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Code) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/code required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Verification.ValidateEmail(ctx, strings.TrimSpace(req.Email), strings.TrimSpace(req.Code)); err != nil {
		return codeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// ResendCode issues a fresh verification code.  The response is identical
// for unknown emails and already-verified accounts.
func (h *VerificationHandler) ResendCode(c echo.Context) error {
	var req emailReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Verification.Resend(ctx, strings.TrimSpace(req.Email)); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "service unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// RequestPasswordReset always answers ok, whether or not the email exists.
func (h *VerificationHandler) RequestPasswordReset(c echo.Context) error {
	var req emailReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Reset.Request(ctx, strings.TrimSpace(req.Email)); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "service unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// ResetPassword sets a new password after validating the reset code.
func (h *VerificationHandler) ResetPassword(c echo.Context) error {
	var req resetReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Code) == "" || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/code/new_password required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Reset.Reset(ctx, strings.TrimSpace(req.Email), strings.TrimSpace(req.Code), req.NewPassword); err != nil {
		return codeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
