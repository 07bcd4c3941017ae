package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/flipiri/flipiri-api/internal/core/domain"
	"github.com/flipiri/flipiri-api/internal/core/ports"
	"github.com/flipiri/flipiri-api/internal/pkg/metrics"
)

// ClientService manages client testimonials. Image handling follows the same
// ordering as ProjectService.
type ClientService struct {
	repo   ports.ClientRepository
	media  *MediaManager
	cache  ports.ListCache
	folder string
	logger zerolog.Logger
}

func NewClientService(
	repo ports.ClientRepository,
	media *MediaManager,
	cache ports.ListCache,
	baseFolder string,
	logger zerolog.Logger,
) *ClientService {
	if cache == nil {
		cache = NopListCache{}
	}
	return &ClientService{
		repo:   repo,
		media:  media,
		cache:  cache,
		folder: path.Join(baseFolder, "clients"),
		logger: logger,
	}
}

func (s *ClientService) Create(ctx context.Context, in ports.CreateClientInput) (*domain.Client, error) {
	name := strings.TrimSpace(in.Name)
	description := strings.TrimSpace(in.Description)
	designation := strings.TrimSpace(in.Designation)
	if name == "" || description == "" || designation == "" {
		return nil, domain.Invalid("please provide all required fields")
	}

	imageURL := strings.TrimSpace(in.Image.URL)
	var uploaded *domain.StoredImage
	if in.Image.HasFile() {
		img, err := s.media.Store(ctx, in.Image.File, s.folder)
		if err != nil {
			return nil, err
		}
		uploaded = img
		imageURL = img.URL
	}
	if imageURL == "" {
		return nil, domain.Invalid("please provide an image")
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.Client{
		Image:       imageURL,
		Name:        name,
		Description: description,
		Designation: designation,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		if uploaded != nil {
			s.releaseImage(ctx, uploaded.URL, "")
		}
		return nil, fmt.Errorf("create client: %w", err)
	}

	invalidate(ctx, s.cache, s.logger, clientsCacheKey)
	metrics.ResourceMutationsTotal.WithLabelValues("client", "create").Inc()
	s.logger.Info().Str("client_id", created.ID).Msg("client created")
	return created, nil
}

func (s *ClientService) List(ctx context.Context) ([]*domain.Client, error) {
	return cachedList(ctx, s.cache, s.logger, clientsCacheKey, s.repo.List)
}

func (s *ClientService) Get(ctx context.Context, id string) (*domain.Client, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ClientService) Update(ctx context.Context, id string, in ports.UpdateClientInput) (*domain.Client, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := ports.ClientPatch{UpdatedAt: time.Now().UTC()}
	patch.Name = optionalField(in.Name)
	patch.Description = optionalField(in.Description)
	patch.Designation = optionalField(in.Designation)

	var uploaded *domain.StoredImage
	if in.Image.HasFile() {
		uploaded, err = s.media.Store(ctx, in.Image.File, s.folder)
		if err != nil {
			return nil, err
		}
		patch.Image = &uploaded.URL
	} else if url := strings.TrimSpace(in.Image.URL); url != "" {
		patch.Image = &url
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if uploaded != nil {
			s.releaseImage(ctx, uploaded.URL, id)
		}
		return nil, fmt.Errorf("update client: %w", err)
	}

	if patch.Image != nil && *patch.Image != existing.Image {
		s.releaseImage(ctx, existing.Image, id)
	}

	invalidate(ctx, s.cache, s.logger, clientsCacheKey)
	metrics.ResourceMutationsTotal.WithLabelValues("client", "update").Inc()
	s.logger.Info().Str("client_id", id).Bool("image_replaced", patch.Image != nil).Msg("client updated")
	return updated, nil
}

func (s *ClientService) Delete(ctx context.Context, id string) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete client: %w", err)
	}

	s.releaseImage(ctx, existing.Image, id)

	invalidate(ctx, s.cache, s.logger, clientsCacheKey)
	metrics.ResourceMutationsTotal.WithLabelValues("client", "delete").Inc()
	s.logger.Info().Str("client_id", id).Msg("client deleted")
	return nil
}

func (s *ClientService) releaseImage(ctx context.Context, url, clientID string) {
	if err := s.media.Release(ctx, url); err != nil {
		s.logger.Warn().Err(err).Str("client_id", clientID).Str("image", url).
			Msg("image cleanup failed, object left in storage")
	}
}
