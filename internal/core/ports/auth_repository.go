package ports

import (
	"context"

	"github.com/flipiri/flipiri-api/internal/core/domain"
)

// AuthRepository defines the interface for account persistence.
type AuthRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
}
