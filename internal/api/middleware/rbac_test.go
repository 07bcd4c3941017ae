package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/flipiri/flipiri-api/internal/api/session"
	"github.com/flipiri/flipiri-api/internal/core/domain"
)

func runRequireRole(account *domain.Account, required domain.Role) (bool, error) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if account != nil {
		session.SetAccount(c, account)
	}

	called := false
	err := RequireRole(required)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	return called, err
}

func TestRequireRole_AdminAllowed(t *testing.T) {
	called, err := runRequireRole(&domain.Account{ID: "a", Role: domain.RoleAdmin}, domain.RoleAdmin)
	if err != nil || !called {
		t.Fatalf("expected pass-through, called=%v err=%v", called, err)
	}
}

func TestRequireRole_AdminSatisfiesUser(t *testing.T) {
	called, err := runRequireRole(&domain.Account{ID: "a", Role: domain.RoleAdmin}, domain.RoleUser)
	if err != nil || !called {
		t.Fatalf("expected pass-through, called=%v err=%v", called, err)
	}
}

func TestRequireRole_UserForbidden(t *testing.T) {
	called, err := runRequireRole(&domain.Account{ID: "u", Role: domain.RoleUser}, domain.RoleAdmin)
	if called {
		t.Fatal("next should not be called")
	}
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRequireRole_NoAccount(t *testing.T) {
	called, err := runRequireRole(nil, domain.RoleAdmin)
	if called {
		t.Fatal("next should not be called")
	}
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
