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

type ProjectService struct {
	repo   ports.ProjectRepository
	media  *MediaManager
	cache  ports.ListCache
	folder string
	logger zerolog.Logger
}

// NewProjectService stores uploaded images under <baseFolder>/projects.
// A nil cache disables list caching.
func NewProjectService(
	repo ports.ProjectRepository,
	media *MediaManager,
	cache ports.ListCache,
	baseFolder string,
	logger zerolog.Logger,
) *ProjectService {
	if cache == nil {
		cache = NopListCache{}
	}
	return &ProjectService{
		repo:   repo,
		media:  media,
		cache:  cache,
		folder: path.Join(baseFolder, "projects"),
		logger: logger,
	}
}

// Create validates the text fields, stores the uploaded image (if any) and
// persists the project. A supplied file takes precedence over an image URL.
func (s *ProjectService) Create(ctx context.Context, in ports.CreateProjectInput) (*domain.Project, error) {
	name := strings.TrimSpace(in.Name)
	description := strings.TrimSpace(in.Description)
	if name == "" || description == "" {
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
	created, err := s.repo.Create(ctx, &domain.Project{
		Image:       imageURL,
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		if uploaded != nil {
			s.releaseImage(ctx, uploaded.URL, "")
		}
		return nil, fmt.Errorf("create project: %w", err)
	}

	invalidate(ctx, s.cache, s.logger, projectsCacheKey)
	metrics.ResourceMutationsTotal.WithLabelValues("project", "create").Inc()
	s.logger.Info().Str("project_id", created.ID).Msg("project created")
	return created, nil
}

// List returns all projects, newest first.
func (s *ProjectService) List(ctx context.Context) ([]*domain.Project, error) {
	return cachedList(ctx, s.cache, s.logger, projectsCacheKey, s.repo.List)
}

func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	return s.repo.FindByID(ctx, id)
}

// Update applies the non-nil fields of in. When a new image file is given it
// is uploaded first; the record is only written after the upload succeeds,
// and the previous image is released only after the write is committed.
func (s *ProjectService) Update(ctx context.Context, id string, in ports.UpdateProjectInput) (*domain.Project, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := ports.ProjectPatch{UpdatedAt: time.Now().UTC()}
	patch.Name = optionalField(in.Name)
	patch.Description = optionalField(in.Description)

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
		return nil, fmt.Errorf("update project: %w", err)
	}

	if patch.Image != nil && *patch.Image != existing.Image {
		s.releaseImage(ctx, existing.Image, id)
	}

	invalidate(ctx, s.cache, s.logger, projectsCacheKey)
	metrics.ResourceMutationsTotal.WithLabelValues("project", "update").Inc()
	s.logger.Info().Str("project_id", id).Bool("image_replaced", patch.Image != nil).Msg("project updated")
	return updated, nil
}

// Delete removes the record, then releases its image. A failed image
// release never blocks the delete.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	s.releaseImage(ctx, existing.Image, id)

	invalidate(ctx, s.cache, s.logger, projectsCacheKey)
	metrics.ResourceMutationsTotal.WithLabelValues("project", "delete").Inc()
	s.logger.Info().Str("project_id", id).Msg("project deleted")
	return nil
}

func (s *ProjectService) releaseImage(ctx context.Context, url, projectID string) {
	if err := s.media.Release(ctx, url); err != nil {
		s.logger.Warn().Err(err).Str("project_id", projectID).Str("image", url).
			Msg("image cleanup failed, object left in storage")
	}
}

// optionalField trims a partial-update value. Absent and blank values both
// leave the stored field unchanged.
func optionalField(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
