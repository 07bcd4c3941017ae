package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"

	"github.com/flipiri/flipiri-api/internal/core/domain"
	"github.com/flipiri/flipiri-api/internal/core/ports"
)

// DefaultMaxImageBytes applies when a handler is built with a non-positive limit.
const DefaultMaxImageBytes = 5 << 20

const imageField = "image"

// imageForm reads the text fields and the optional image of a
// multipart/form-data (or urlencoded) create/update request.
type imageForm struct {
	maxBytes int64
}

func newImageForm(maxBytes int64) imageForm {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	return imageForm{maxBytes: maxBytes}
}

// fields parses the form once and returns its values.
func (f imageForm) fields(c echo.Context) (url.Values, error) {
	params, err := c.FormParams()
	if err != nil {
		return nil, domain.Invalid("invalid form data")
	}
	return params, nil
}

// image returns the uploaded file, or the "image" text field when no file
// was sent.
func (f imageForm) image(c echo.Context, params url.Values) (ports.ImageInput, error) {
	fh, err := c.FormFile(imageField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return ports.ImageInput{URL: strings.TrimSpace(params.Get(imageField))}, nil
		}
		return ports.ImageInput{}, domain.Invalid("invalid image upload")
	}
	if fh.Size > f.maxBytes {
		return ports.ImageInput{}, domain.Invalid(fmt.Sprintf("image must be at most %d bytes", f.maxBytes))
	}

	src, err := fh.Open()
	if err != nil {
		return ports.ImageInput{}, fmt.Errorf("open uploaded image: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, f.maxBytes+1))
	if err != nil {
		return ports.ImageInput{}, fmt.Errorf("read uploaded image: %w", err)
	}
	if int64(len(data)) > f.maxBytes {
		return ports.ImageInput{}, domain.Invalid(fmt.Sprintf("image must be at most %d bytes", f.maxBytes))
	}
	if len(data) == 0 {
		return ports.ImageInput{}, domain.Invalid("image file is empty")
	}
	if mt := mimetype.Detect(data); !strings.HasPrefix(mt.String(), "image/") {
		return ports.ImageInput{}, domain.Invalid("only image files are allowed")
	}
	return ports.ImageInput{File: data}, nil
}

// optional returns a pointer to the value of key, or nil when the form did
// not carry it at all.
func optional(params url.Values, key string) *string {
	vs, ok := params[key]
	if !ok || len(vs) == 0 {
		return nil
	}
	v := vs[0]
	return &v
}
