package ports

import (
	"context"
	"time"

	"github.com/flipiri/flipiri-api/internal/core/domain"
)

// ProjectPatch lists the fields an update sets; nil means "leave unchanged".
type ProjectPatch struct {
	Name        *string
	Description *string
	Image       *string
	UpdatedAt   time.Time
}

// ProjectRepository defines persistence operations for projects.
// Find/Update/Delete return domain.ErrProjectNotFound for unknown ids.
type ProjectRepository interface {
	Create(ctx context.Context, p *domain.Project) (*domain.Project, error)
	// List returns every project, newest first.
	List(ctx context.Context) ([]*domain.Project, error)
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	Update(ctx context.Context, id string, patch ProjectPatch) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
}

// ClientPatch lists the fields an update sets; nil means "leave unchanged".
type ClientPatch struct {
	Name        *string
	Description *string
	Designation *string
	Image       *string
	UpdatedAt   time.Time
}

// ClientRepository defines persistence operations for client testimonials.
type ClientRepository interface {
	Create(ctx context.Context, c *domain.Client) (*domain.Client, error)
	List(ctx context.Context) ([]*domain.Client, error)
	FindByID(ctx context.Context, id string) (*domain.Client, error)
	Update(ctx context.Context, id string, patch ClientPatch) (*domain.Client, error)
	Delete(ctx context.Context, id string) error
}

// ContactRepository stores contact form submissions. There is no update.
type ContactRepository interface {
	Create(ctx context.Context, s *domain.ContactSubmission) (*domain.ContactSubmission, error)
	// List returns every submission, newest first by submittedAt.
	List(ctx context.Context) ([]*domain.ContactSubmission, error)
	FindByID(ctx context.Context, id string) (*domain.ContactSubmission, error)
	Delete(ctx context.Context, id string) error
}

// NewsletterRepository stores newsletter subscribers.
// Create returns domain.ErrEmailSubscribed when the unique index rejects the email.
type NewsletterRepository interface {
	Create(ctx context.Context, s *domain.Subscriber) (*domain.Subscriber, error)
	FindByEmail(ctx context.Context, email string) (*domain.Subscriber, error)
	List(ctx context.Context) ([]*domain.Subscriber, error)
	Delete(ctx context.Context, id string) error
}
