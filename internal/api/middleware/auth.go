package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/flipiri/flipiri-api/internal/api/session"
	"github.com/flipiri/flipiri-api/internal/core/domain"
	"github.com/flipiri/flipiri-api/internal/core/ports"
	"github.com/flipiri/flipiri-api/internal/pkg/metrics"
)

// Authenticate resolves the caller from the session cookie, or from an
// Authorization: Bearer header when no cookie is present, and stores the
// account on the context. Any failure answers 401 without calling next.
func Authenticate(verifier ports.TokenVerifier, accounts ports.AccountResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := tokenFrom(c)
			if token == "" {
				return reject("missing_token", domain.ErrUnauthorized)
			}

			accountID, err := verifier.Verify(token)
			if err != nil {
				return reject("invalid_token", domain.ErrInvalidToken)
			}

			account, err := accounts.FindByID(c.Request().Context(), accountID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return reject("unknown_account", domain.ErrUnauthorized)
				}
				return err
			}

			session.SetAccount(c, account)
			return next(c)
		}
	}
}

func tokenFrom(c echo.Context) string {
	if ck, err := c.Cookie(session.CookieName); err == nil && ck.Value != "" {
		return ck.Value
	}

	parts := strings.SplitN(c.Request().Header.Get(echo.HeaderAuthorization), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func reject(reason string, err error) error {
	metrics.GuardRejectionsTotal.WithLabelValues(reason).Inc()
	return err
}
