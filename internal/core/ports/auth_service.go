package ports

import (
	"context"
	"time"

	"github.com/flipiri/flipiri-api/internal/core/domain"
)

// RegisterInput carries self-service registration data. Role is never taken
// from the caller.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Session is the outcome of a successful register/login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Account   *domain.Account
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	// AdminLogin is Login restricted to admin accounts.
	AdminLogin(ctx context.Context, email, password string) (*Session, error)
}

// TokenVerifier is the synchronous half of the token manager used by the
// access guard.
type TokenVerifier interface {
	Verify(token string) (accountID string, err error)
}

// AccountResolver loads the account a verified token refers to.
type AccountResolver interface {
	FindByID(ctx context.Context, id string) (*domain.Account, error)
}
