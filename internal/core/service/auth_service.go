package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/flipiri/flipiri-api/internal/core/domain"
	"github.com/flipiri/flipiri-api/internal/core/ports"
	"github.com/flipiri/flipiri-api/internal/pkg/metrics"
)

const minPasswordLength = 6

// AuthService implements registration and login.
type AuthService struct {
	repo   ports.AuthRepository
	tokens *TokenManager
	logger zerolog.Logger
}

func NewAuthService(repo ports.AuthRepository, tokens *TokenManager, logger zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, logger: logger}
}

// Register creates a user-role account and opens a session for it.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.Session, error) {
	name := strings.TrimSpace(in.Name)
	email := domain.NormalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, domain.Invalid("please provide name, email and password")
	}
	if len(in.Password) < minPasswordLength {
		return nil, domain.Invalid(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.Account{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("account_id", created.ID).Msg("account registered")
	return s.openSession(created)
}

// Login verifies credentials and opens a session. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	account, err := s.authenticate(ctx, email, password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("user", loginResult(err)).Inc()
		return nil, err
	}
	metrics.LoginsTotal.WithLabelValues("user", "success").Inc()
	return s.openSession(account)
}

// AdminLogin is Login for the admin console: a valid non-admin account is
// rejected with domain.ErrForbidden and no token is issued.
func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (*ports.Session, error) {
	account, err := s.authenticate(ctx, email, password)
	if err == nil && !account.Role.Satisfies(domain.RoleAdmin) {
		s.logger.Warn().Str("account_id", account.ID).Msg("non-admin account attempted admin login")
		err = fmt.Errorf("admin login: %w", domain.ErrForbidden)
	}
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("admin", loginResult(err)).Inc()
		return nil, err
	}
	metrics.LoginsTotal.WithLabelValues("admin", "success").Inc()
	return s.openSession(account)
}

func (s *AuthService) authenticate(ctx context.Context, email, password string) (*domain.Account, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.Invalid("please provide email and password")
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if !VerifyPassword(password, account.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return account, nil
}

func (s *AuthService) openSession(account *domain.Account) (*ports.Session, error) {
	token, exp, err := s.tokens.Issue(account.ID)
	if err != nil {
		return nil, err
	}
	return &ports.Session{Token: token, ExpiresAt: exp, Account: account}, nil
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrValidation):
		return "invalid_input"
	default:
		return "error"
	}
}
