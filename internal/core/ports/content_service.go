package ports

import (
	"context"

	"github.com/flipiri/flipiri-api/internal/core/domain"
)

// ImageInput is the image part of a create/update request: either an
// uploaded file or an already hosted URL. File wins when both are set.
type ImageInput struct {
	File []byte
	URL  string
}

// HasFile reports whether a new file was uploaded.
func (i ImageInput) HasFile() bool { return len(i.File) > 0 }

// CreateProjectInput carries the fields required to create a project.
type CreateProjectInput struct {
	Name        string
	Description string
	Image       ImageInput
}

// UpdateProjectInput is a partial update: nil fields are left unchanged.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	Image       ImageInput
}

type ProjectService interface {
	Create(ctx context.Context, in CreateProjectInput) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Get(ctx context.Context, id string) (*domain.Project, error)
	Update(ctx context.Context, id string, in UpdateProjectInput) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
}

// CreateClientInput carries the fields required to create a client testimonial.
type CreateClientInput struct {
	Name        string
	Description string
	Designation string
	Image       ImageInput
}

// UpdateClientInput is a partial update: nil fields are left unchanged.
type UpdateClientInput struct {
	Name        *string
	Description *string
	Designation *string
	Image       ImageInput
}

type ClientService interface {
	Create(ctx context.Context, in CreateClientInput) (*domain.Client, error)
	List(ctx context.Context) ([]*domain.Client, error)
	Get(ctx context.Context, id string) (*domain.Client, error)
	Update(ctx context.Context, id string, in UpdateClientInput) (*domain.Client, error)
	Delete(ctx context.Context, id string) error
}

// ContactInput is a contact form submission.
type ContactInput struct {
	FullName string
	Email    string
	Mobile   string
	City     string
}

type ContactService interface {
	Submit(ctx context.Context, in ContactInput) (*domain.ContactSubmission, error)
	List(ctx context.Context) ([]*domain.ContactSubmission, error)
	Get(ctx context.Context, id string) (*domain.ContactSubmission, error)
	Delete(ctx context.Context, id string) error
}

type NewsletterService interface {
	Subscribe(ctx context.Context, email string) (*domain.Subscriber, error)
	List(ctx context.Context) ([]*domain.Subscriber, error)
	Delete(ctx context.Context, id string) error
}
