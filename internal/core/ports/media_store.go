package ports

import (
	"context"
	"io"

	"github.com/flipiri/flipiri-api/internal/core/domain"
)

// MediaStore is the external object storage holding entity images.
type MediaStore interface {
	// Upload stores the image under folder and returns its retrieval URL and
	// storage-side identifier.
	Upload(ctx context.Context, r io.Reader, folder string) (*domain.StoredImage, error)
	// Destroy removes the object with the given identifier.
	Destroy(ctx context.Context, externalID string) error
	// ExternalID derives the storage identifier from a retrieval URL. It
	// returns false for URLs this store did not produce.
	ExternalID(url string) (string, bool)
}
