package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/flipiri/flipiri-api/internal/core/domain"
	"github.com/flipiri/flipiri-api/internal/core/ports"
	"github.com/flipiri/flipiri-api/internal/pkg/metrics"
)

// MediaManager owns the lifecycle of entity images in external storage.
//
// Ordering rules enforced by the content services:
//   - replace: Store the new image, commit the record, then Release the old one.
//   - delete:  delete the record, then Release its image.
//
// Release failures are returned to the caller, which logs and discards them;
// they never fail the surrounding request.
type MediaManager struct {
	store  ports.MediaStore
	logger zerolog.Logger
}

func NewMediaManager(store ports.MediaStore, logger zerolog.Logger) *MediaManager {
	return &MediaManager{store: store, logger: logger}
}

// Store uploads data under folder. Every failure wraps domain.ErrUpload.
func (m *MediaManager) Store(ctx context.Context, data []byte, folder string) (*domain.StoredImage, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", domain.ErrUpload)
	}

	start := time.Now()
	img, err := m.store.Upload(ctx, bytes.NewReader(data), folder)
	metrics.MediaUploadDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MediaOperationsTotal.WithLabelValues("upload", "error").Inc()
		m.logger.Error().Err(err).Str("folder", folder).Msg("image upload failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrUpload, err)
	}
	if img == nil || img.URL == "" {
		metrics.MediaOperationsTotal.WithLabelValues("upload", "error").Inc()
		return nil, fmt.Errorf("%w: storage returned no url", domain.ErrUpload)
	}

	metrics.MediaOperationsTotal.WithLabelValues("upload", "ok").Inc()
	m.logger.Debug().Str("external_id", img.ExternalID).Str("folder", folder).Msg("image stored")
	return img, nil
}

// Remove deletes the object with externalID. Failures wrap domain.ErrDelete.
func (m *MediaManager) Remove(ctx context.Context, externalID string) error {
	if err := m.store.Destroy(ctx, externalID); err != nil {
		metrics.MediaOperationsTotal.WithLabelValues("destroy", "error").Inc()
		return fmt.Errorf("%w %s: %v", domain.ErrDelete, externalID, err)
	}
	metrics.MediaOperationsTotal.WithLabelValues("destroy", "ok").Inc()
	return nil
}

// ExternalIDFromURL derives the storage id of an image URL; false when the URL
// was not produced by the configured store.
func (m *MediaManager) ExternalIDFromURL(url string) (string, bool) {
	if url == "" {
		return "", false
	}
	return m.store.ExternalID(url)
}

// Release removes the stored object behind url, if it is one of ours. URLs
// hosted elsewhere are left alone and reported as success.
func (m *MediaManager) Release(ctx context.Context, url string) error {
	id, ok := m.ExternalIDFromURL(url)
	if !ok {
		m.logger.Debug().Str("url", url).Msg("image not managed by storage, nothing to release")
		return nil
	}
	return m.Remove(ctx, id)
}
