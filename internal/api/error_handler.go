package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/flipiri/flipiri-api/internal/core/domain"
)

// errorResponse is the envelope for every failed request.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// NewHTTPErrorHandler maps domain errors to status codes and renders
// errorResponse. Outside production the underlying cause is included in the
// error field; in production it is only logged.
func NewHTTPErrorHandler(log zerolog.Logger, production bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		resp := errorResponse{Message: msg}
		if !production {
			resp.Error = err.Error()
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ve.Msg
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, "Not authorized, token failed"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "Not authorized, no token"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Not authorized as an admin"
	case errors.Is(err, domain.ErrEmailSubscribed):
		return http.StatusBadRequest, "Email already subscribed"
	case errors.Is(err, domain.ErrAccountExists):
		return http.StatusBadRequest, "User already exists"
	case errors.Is(err, domain.ErrDuplicate):
		return http.StatusBadRequest, "Duplicate value"
	case errors.Is(err, domain.ErrProjectNotFound):
		return http.StatusNotFound, "Project not found"
	case errors.Is(err, domain.ErrClientNotFound):
		return http.StatusNotFound, "Client not found"
	case errors.Is(err, domain.ErrSubmissionNotFound):
		return http.StatusNotFound, "Contact submission not found"
	case errors.Is(err, domain.ErrSubscriberNotFound):
		return http.StatusNotFound, "Subscriber not found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "Resource not found"
	case errors.Is(err, domain.ErrUpload):
		log.Error().Err(err).Str("path", c.Path()).Msg("image upload failed")
		return http.StatusInternalServerError, "Error uploading image"
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Server Error"
}
