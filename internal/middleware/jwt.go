package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/identity-service/internal/utils"
)

// Context keys set by JWTAuth for downstream middleware and handlers.
const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxRole     = "role"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the token's claims into the request context.  The provided
// secret must match the one used when issuing tokens.  A missing token and
// a bad or expired token are both rejected with 401; the body hints which
// it was, but nothing more.  Validation is pure and never touches the
// store, so a role change only takes effect once a new token is issued.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxUsername, claims.Username)
			c.Set(CtxRole, claims.Role)
			return next(c)
		}
	}
}

// UserID extracts the authenticated user id set by JWTAuth.  The second
// return value is false when the middleware did not run.
func UserID(c echo.Context) (uint64, bool) {
	v, ok := c.Get(CtxUserID).(uint64)
	return v, ok
}
