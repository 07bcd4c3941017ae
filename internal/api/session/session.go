// Package session carries the auth token between the API and the browser and
// exposes the authenticated account to handlers.
package session

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/flipiri/flipiri-api/internal/core/domain"
)

const (
	CookieName = "token"
	accountKey = "account"
)

// Carrier writes and clears the session cookie.
type Carrier struct {
	ttl    time.Duration
	secure bool
}

// NewCarrier returns a Carrier whose cookies live for ttl. secure marks them
// HTTPS-only and should be set in production.
func NewCarrier(ttl time.Duration, secure bool) *Carrier {
	return &Carrier{ttl: ttl, secure: secure}
}

// Attach sets the token cookie on the response.
func (s *Carrier) Attach(c echo.Context, token string) {
	c.SetCookie(s.cookie(token, int(s.ttl.Seconds()), time.Now().Add(s.ttl)))
}

// Clear overwrites the token cookie with an expired empty one. The token
// itself stays valid until it expires.
func (s *Carrier) Clear(c echo.Context) {
	c.SetCookie(s.cookie("", -1, time.Unix(0, 0)))
}

func (s *Carrier) cookie(value string, maxAge int, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires.UTC(),
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// SetAccount stores the authenticated account on the request context.
func SetAccount(c echo.Context, a *domain.Account) {
	c.Set(accountKey, a)
}

// Account returns the account stored by SetAccount, or nil.
func Account(c echo.Context) *domain.Account {
	a, _ := c.Get(accountKey).(*domain.Account)
	return a
}
