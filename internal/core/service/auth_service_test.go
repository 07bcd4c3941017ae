package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/flipiri/flipiri-api/internal/core/domain"
	"github.com/flipiri/flipiri-api/internal/core/ports"
)

func newAuthFixture(t *testing.T) (*AuthService, *stubAccountRepo, *TokenManager) {
	t.Helper()
	repo := newStubAccountRepo()
	for _, a := range []struct {
		email string
		role  domain.Role
	}{{"admin@flipiri.com", domain.RoleAdmin}, {"user@flipiri.com", domain.RoleUser}} {
		hash, err := HashPassword("password123")
		if err != nil {
			t.Fatalf("hash: %v", err)
		}
		repo.add(&domain.Account{Name: "x", Email: a.email, PasswordHash: hash, Role: a.role})
	}
	tokens := NewTokenManager("secret", time.Hour)
	return NewAuthService(repo, tokens, zerolog.Nop()), repo, tokens
}

func TestAuthService_Register(t *testing.T) {
	svc, repo, tokens := newAuthFixture(t)

	sess, err := svc.Register(context.Background(), ports.RegisterInput{
		Name:     " New Person ",
		Email:    " New@Example.COM ",
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if sess.Account.Role != domain.RoleUser {
		t.Errorf("registered role = %v, want user", sess.Account.Role)
	}
	if sess.Account.Email != "new@example.com" || sess.Account.Name != "New Person" {
		t.Errorf("fields not normalized: %+v", sess.Account)
	}
	stored := repo.byEmail["new@example.com"]
	if stored == nil || stored.PasswordHash == "secret1" || !VerifyPassword("secret1", stored.PasswordHash) {
		t.Fatal("password not stored as bcrypt hash")
	}
	id, err := tokens.Verify(sess.Token)
	if err != nil || id != sess.Account.ID {
		t.Fatalf("token does not carry account id: %v %s", err, id)
	}
}

func TestAuthService_RegisterValidation(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	cases := []ports.RegisterInput{
		{Name: "", Email: "a@b.co", Password: "secret1"},
		{Name: "A", Email: "", Password: "secret1"},
		{Name: "A", Email: "a@b.co", Password: "123"},
	}
	for _, in := range cases {
		if _, err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("%+v: expected ErrValidation, got %v", in, err)
		}
	}
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Dup", Email: "user@flipiri.com", Password: "secret1",
	})
	if !errors.Is(err, domain.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	sess, err := svc.Login(context.Background(), "USER@flipiri.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.Token == "" || sess.Account.Email != "user@flipiri.com" {
		t.Fatalf("unexpected session %+v", sess)
	}
}

func TestAuthService_LoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, unknown := svc.Login(context.Background(), "nobody@flipiri.com", "password123")
	_, wrong := svc.Login(context.Background(), "user@flipiri.com", "nope")

	if !errors.Is(unknown, domain.ErrInvalidCredentials) || !errors.Is(wrong, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v / %v", unknown, wrong)
	}
	if unknown.Error() != wrong.Error() {
		t.Fatalf("messages differ: %q vs %q", unknown, wrong)
	}
}

func TestAuthService_LoginStoreError(t *testing.T) {
	svc, repo, _ := newAuthFixture(t)
	repo.findErr = errors.New("connection reset")

	_, err := svc.Login(context.Background(), "user@flipiri.com", "password123")
	if err == nil || errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected infrastructure error, got %v", err)
	}
}

func TestAuthService_AdminLogin(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	sess, err := svc.AdminLogin(context.Background(), "admin@flipiri.com", "password123")
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	if sess.Account.Role != domain.RoleAdmin {
		t.Fatalf("expected admin, got %v", sess.Account.Role)
	}
}

func TestAuthService_AdminLoginRejectsUser(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	sess, err := svc.AdminLogin(context.Background(), "user@flipiri.com", "password123")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if sess != nil {
		t.Fatal("no session may be issued for a non-admin")
	}
}

func TestAuthService_AdminLoginWrongPassword(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.AdminLogin(context.Background(), "admin@flipiri.com", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
