package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/flipiri/flipiri-api/internal/core/domain"
	"github.com/flipiri/flipiri-api/internal/core/ports"
	"github.com/flipiri/flipiri-api/internal/pkg/metrics"
)

type NewsletterService struct {
	repo   ports.NewsletterRepository
	logger zerolog.Logger
}

func NewNewsletterService(repo ports.NewsletterRepository, logger zerolog.Logger) *NewsletterService {
	return &NewsletterService{repo: repo, logger: logger}
}

// Subscribe adds email to the newsletter. The existence check runs before
// the insert; the unique index on email catches concurrent subscriptions.
func (s *NewsletterService) Subscribe(ctx context.Context, email string) (*domain.Subscriber, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, domain.Invalid("please provide an email address")
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		return nil, domain.ErrEmailSubscribed
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	created, err := s.repo.Create(ctx, &domain.Subscriber{
		Email:        email,
		SubscribedAt: time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, err
		}
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	metrics.ResourceMutationsTotal.WithLabelValues("subscriber", "create").Inc()
	s.logger.Info().Str("subscriber_id", created.ID).Msg("newsletter subscription added")
	return created, nil
}

func (s *NewsletterService) List(ctx context.Context) ([]*domain.Subscriber, error) {
	return s.repo.List(ctx)
}

func (s *NewsletterService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	metrics.ResourceMutationsTotal.WithLabelValues("subscriber", "delete").Inc()
	s.logger.Info().Str("subscriber_id", id).Msg("newsletter subscriber removed")
	return nil
}
