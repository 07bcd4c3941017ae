package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/flipiri/flipiri-api/internal/core/domain"
)

// imageTransformation caps stored images at 1000x1000 and lets the CDN pick
// quality and format.
const imageTransformation = "c_limit,h_1000,w_1000/q_auto,f_auto"

// uploaderAPI is the subset of *uploader.API used by Store.
type uploaderAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

type Config struct {
	CloudName string
	APIKey    string
	APISecret string
}

// Store is a ports.MediaStore backed by Cloudinary.
type Store struct {
	api uploaderAPI
}

func New(cfg Config) (*Store, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, errors.New("cloudinary: cloud name, api key and api secret are required")
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	return &Store{api: &cld.Upload}, nil
}

func newWithAPI(api uploaderAPI) *Store {
	return &Store{api: api}
}

func (s *Store) Upload(ctx context.Context, r io.Reader, folder string) (*domain.StoredImage, error) {
	res, err := s.api.Upload(ctx, r, uploader.UploadParams{
		Folder:         folder,
		ResourceType:   "image",
		Transformation: imageTransformation,
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	if res.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}
	return &domain.StoredImage{URL: res.SecureURL, ExternalID: res.PublicID}, nil
}

func (s *Store) Destroy(ctx context.Context, externalID string) error {
	res, err := s.api.Destroy(ctx, uploader.DestroyParams{PublicID: externalID})
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy: %s", res.Error.Message)
	}
	// "not found" is treated as already released.
	if res.Result != "ok" && res.Result != "not found" {
		return fmt.Errorf("cloudinary destroy: unexpected result %q", res.Result)
	}
	return nil
}

func (s *Store) ExternalID(imageURL string) (string, bool) {
	return PublicIDFromURL(imageURL)
}

// PublicIDFromURL extracts the public id from a Cloudinary delivery URL:
//
//	https://res.cloudinary.com/<cloud>/image/upload/v123/flipiri/projects/abc.jpg
//	→ flipiri/projects/abc
//
// The segment after "upload" is the version and is skipped.
func PublicIDFromURL(imageURL string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(imageURL))
	if err != nil || !strings.Contains(u.Host, "cloudinary.com") {
		return "", false
	}

	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	idx := -1
	for i, s := range segs {
		if s == "upload" {
			idx = i
			break
		}
	}
	if idx < 0 || idx+2 >= len(segs) {
		return "", false
	}

	id := strings.Join(segs[idx+2:], "/")
	id = strings.TrimSuffix(id, path.Ext(id))
	if id == "" {
		return "", false
	}
	return id, true
}
