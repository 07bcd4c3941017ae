package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/flipiri/flipiri-api/internal/api/session"
	"github.com/flipiri/flipiri-api/internal/core/domain"
	"github.com/flipiri/flipiri-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn   func(ctx context.Context, in ports.RegisterInput) (*ports.Session, error)
	loginFn      func(ctx context.Context, email, password string) (*ports.Session, error)
	adminLoginFn func(ctx context.Context, email, password string) (*ports.Session, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.Session, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) AdminLogin(ctx context.Context, email, password string) (*ports.Session, error) {
	return s.adminLoginFn(ctx, email, password)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}

var adminAccount = &domain.Account{ID: "a1", Name: "Admin", Email: "admin@flipiri.com", Role: domain.RoleAdmin}

func sessionFor(a *domain.Account) *ports.Session {
	return &ports.Session{Token: "tok-" + a.ID, ExpiresAt: time.Now().Add(time.Hour), Account: a}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*ports.Session, error) {
			if in.Name != "Jane" || in.Email != "jane@example.com" || in.Password != "secret1" {
				t.Fatalf("unexpected input %+v", in)
			}
			return sessionFor(&domain.Account{ID: "u1", Name: in.Name, Email: in.Email, Role: domain.RoleUser}), nil
		},
	}
	h := NewAuthHandler(stub, session.NewCarrier(time.Hour, false))

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/register",
		`{"name":"Jane","email":"jane@example.com","password":"secret1"}`), rec)

	if err := Wrap(h.Register)(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	resp := decode(t, rec)
	if resp["success"] != true || resp["token"] != "tok-u1" {
		t.Fatalf("unexpected body %v", resp)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["role"] != "user" || user["_id"] != "u1" {
		t.Fatalf("unexpected user %v", resp["user"])
	}
	if _, leaked := user["passwordHash"]; leaked {
		t.Fatal("password hash serialized")
	}
	if len(rec.Result().Cookies()) != 1 {
		t.Fatal("session cookie not set")
	}
}

func TestAuthHandler_Register_InvalidEmail(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{}, session.NewCarrier(time.Hour, false))

	c := e.NewContext(jsonRequest(http.MethodPost, "/", `{"name":"J","email":"nope","password":"secret1"}`), httptest.NewRecorder())
	err := Wrap(h.Register)(c)

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !strings.Contains(ve.Msg, "email") {
		t.Fatalf("message should name the field: %q", ve.Msg)
	}
}

func TestAuthHandler_AdminLogin_SetsCookie(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		adminLoginFn: func(context.Context, string, string) (*ports.Session, error) {
			return sessionFor(adminAccount), nil
		},
	}
	h := NewAuthHandler(stub, session.NewCarrier(time.Hour, false))

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/", `{"email":"admin@flipiri.com","password":"password123"}`), rec)
	if err := Wrap(h.AdminLogin)(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != session.CookieName || cookies[0].Value != "tok-a1" {
		t.Fatalf("unexpected cookies %v", cookies)
	}
}

func TestAuthHandler_AdminLogin_FailuresSetNoCookie(t *testing.T) {
	for _, want := range []error{domain.ErrInvalidCredentials, domain.ErrForbidden} {
		e := newTestEcho()
		stub := &stubAuthService{
			adminLoginFn: func(context.Context, string, string) (*ports.Session, error) { return nil, want },
		}
		h := NewAuthHandler(stub, session.NewCarrier(time.Hour, false))

		rec := httptest.NewRecorder()
		c := e.NewContext(jsonRequest(http.MethodPost, "/", `{"email":"x@flipiri.com","password":"pw"}`), rec)
		err := Wrap(h.AdminLogin)(c)

		if !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
		if rec.Header().Get("Set-Cookie") != "" {
			t.Fatalf("%v: cookie set on failure", want)
		}
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{}, session.NewCarrier(time.Hour, false))

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
	if err := Wrap(h.Logout)(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != "" || cookies[0].MaxAge >= 0 {
		t.Fatalf("cookie not cleared: %v", cookies)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{}, session.NewCarrier(time.Hour, false))

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	if err := Wrap(h.Me)(c); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized without account, got %v", err)
	}

	session.SetAccount(c, adminAccount)
	if err := Wrap(h.Me)(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	user := decode(t, rec)["user"].(map[string]any)
	if user["email"] != "admin@flipiri.com" || user["role"] != "admin" {
		t.Fatalf("unexpected user %v", user)
	}
}
