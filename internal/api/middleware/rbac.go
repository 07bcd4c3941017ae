package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/flipiri/flipiri-api/internal/api/session"
	"github.com/flipiri/flipiri-api/internal/core/domain"
)

// RequireRole must run after Authenticate. Callers whose role does not
// satisfy required get 403.
func RequireRole(required domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account := session.Account(c)
			if account == nil {
				return reject("unauthenticated", domain.ErrUnauthorized)
			}
			if !account.Role.Satisfies(required) {
				return reject("role", domain.ErrForbidden)
			}
			return next(c)
		}
	}
}
