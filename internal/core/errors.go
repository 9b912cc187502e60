package core

import (
	"context"
	"errors"
	"net/http"

	"github.com/JonMunkholm/labplot/internal/ingest"
)

var (
	// ErrUnknownWorkflow is returned for a workflow key that is not registered.
	ErrUnknownWorkflow = errors.New("unknown workflow")

	// ErrMissingFile is returned when a workflow input file was not supplied.
	ErrMissingFile = errors.New("no file provided")

	// ErrInvalidParam is returned when a numeric parameter is absent or not a number.
	ErrInvalidParam = errors.New("invalid number")

	// ErrInvalidForm is returned when the upload form cannot be parsed.
	ErrInvalidForm = errors.New("invalid upload form")
)

// StatusCode returns the HTTP status for err.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrSessionBusy):
		return http.StatusServiceUnavailable
	case errors.As(err, new(*http.MaxBytesError)):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrUnknownWorkflow):
		return http.StatusNotFound
	case errors.Is(err, ErrMissingFile),
		errors.Is(err, ErrInvalidParam),
		errors.Is(err, ErrInvalidForm),
		ingest.IsSchemaError(err),
		ingest.IsEmptyInput(err):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
