package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/flipiri/flipiri-api/internal/core/domain"
	"github.com/flipiri/flipiri-api/internal/core/ports"
	"github.com/flipiri/flipiri-api/internal/pkg/metrics"
)

type ContactService struct {
	repo   ports.ContactRepository
	logger zerolog.Logger
}

func NewContactService(repo ports.ContactRepository, logger zerolog.Logger) *ContactService {
	return &ContactService{repo: repo, logger: logger}
}

// Submit stores a contact form submission stamped with the current time.
func (s *ContactService) Submit(ctx context.Context, in ports.ContactInput) (*domain.ContactSubmission, error) {
	sub := &domain.ContactSubmission{
		FullName:    strings.TrimSpace(in.FullName),
		Email:       strings.TrimSpace(in.Email),
		Mobile:      strings.TrimSpace(in.Mobile),
		City:        strings.TrimSpace(in.City),
		SubmittedAt: time.Now().UTC(),
	}
	if sub.FullName == "" || sub.Email == "" || sub.Mobile == "" || sub.City == "" {
		return nil, domain.Invalid("please provide all required fields")
	}

	created, err := s.repo.Create(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("submit contact form: %w", err)
	}

	metrics.ResourceMutationsTotal.WithLabelValues("contact", "create").Inc()
	s.logger.Info().Str("submission_id", created.ID).Msg("contact form submitted")
	return created, nil
}

func (s *ContactService) List(ctx context.Context) ([]*domain.ContactSubmission, error) {
	return s.repo.List(ctx)
}

func (s *ContactService) Get(ctx context.Context, id string) (*domain.ContactSubmission, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ContactService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	metrics.ResourceMutationsTotal.WithLabelValues("contact", "delete").Inc()
	s.logger.Info().Str("submission_id", id).Msg("contact submission deleted")
	return nil
}
