package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/identity-service/internal/repository"
	"github.com/iliyamo/identity-service/internal/service"
)

// AuthHandler bundles dependencies for the session endpoints.
type AuthHandler struct {
	Sessions *service.SessionManager
}

func NewAuthHandler(sessions *service.SessionManager) *AuthHandler {
	return &AuthHandler{Sessions: sessions}
}

// ----- DTOs -----

type registerReq struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}
type loginReq struct {
	Identifier string `json:"identifier"` // username or email
	Password   string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type authResp struct {
	User    service.Identity `json:"user"`
	Access  tokenPart        `json:"access"`
	Refresh tokenPart        `json:"refresh"`
}

func pairResp(identity service.Identity, pair service.TokenPair) authResp {
	return authResp{
		User:    identity,
		Access:  tokenPart{Token: pair.Access.Token, Expires: pair.Access.Exp},
		Refresh: tokenPart{Token: pair.Refresh.Raw, Expires: pair.Refresh.Exp}, // raw back to client
	}
}

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// Register: create an unverified user, fire the verification code, and
// return an initial token pair so the client can change the placeholder
// password without logging in again.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/email/password required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.Sessions.Register(ctx, req.Username, req.Email, req.Password, req.DisplayName)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "username or email already exists"})
		}
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "service unavailable"})
	}
	return c.JSON(http.StatusCreated, pairResp(res.Identity, res.Tokens))
}

// Login: verify credentials and return a new pair, or a token-less
// verification-required response for unverified accounts.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Identifier = strings.TrimSpace(req.Identifier)
	if req.Identifier == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "identifier/password required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.Sessions.Login(ctx, req.Identifier, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "service unavailable"})
	}
	if res.VerificationRequired {
		return c.JSON(http.StatusOK, echo.Map{
			"verification_required": true,
			"user":                  res.Identity,
		})
	}
	return c.JSON(http.StatusOK, pairResp(res.Identity, *res.Tokens))
}

// Refresh: exchange a refresh secret for a new access token.  When
// rotation is enabled the response also carries the replacement refresh
// secret and the presented one stops working.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.Sessions.Refresh(ctx, strings.TrimSpace(req.RefreshToken))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
		}
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "service unavailable"})
	}
	resp := echo.Map{
		"access": tokenPart{Token: res.Access.Token, Expires: res.Access.Exp},
	}
	if res.Refresh != nil {
		resp["refresh"] = tokenPart{Token: res.Refresh.Raw, Expires: res.Refresh.Exp}
	}
	return c.JSON(http.StatusOK, resp)
}

// Logout: revoke the presented refresh token.  Unknown or already-revoked
// tokens still get an ok so a retried logout cannot fail.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Sessions.Logout(ctx, strings.TrimSpace(req.RefreshToken)); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "service unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
