package middleware

import (
	"net/http"
	"strings"

	"github.com/Eursukkul/seasonal-booking/pkg/auth"
	"github.com/labstack/echo/v4"
)

const claimsKey = "auth.claims"

// JWTAuth requires a valid bearer token and stores its claims on the context.
func JWTAuth(tokens *auth.TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				return NewProblem(http.StatusUnauthorized, "unauthorized", "missing bearer token")
			}

			claims, err := tokens.ParseValidate(strings.TrimSpace(token))
			if err != nil {
				return NewProblem(http.StatusUnauthorized, "unauthorized", "invalid or expired token")
			}

			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// RequireAdmin must run after JWTAuth.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := ClaimsFrom(c)
		if !ok {
			return NewProblem(http.StatusUnauthorized, "unauthorized", "missing bearer token")
		}
		if !claims.Admin {
			return NewProblem(http.StatusForbidden, "forbidden", "admin access required")
		}
		return next(c)
	}
}

func ClaimsFrom(c echo.Context) (*auth.Claims, bool) {
	claims, ok := c.Get(claimsKey).(*auth.Claims)
	return claims, ok && claims != nil
}
