package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/sympac-api/internal/api/shared"
	"github.com/phrazzld/sympac-api/internal/domain"
)

// Client-facing error messages. These are the only error texts a client
// ever sees apart from the validation field list.
const (
	msgLoginFailed        = "login failed"
	msgInternalError      = "internal server error"
	msgNotImplemented     = "not implemented yet"
	msgInvalidRequest     = "invalid request format"
	msgValidationFallback = "missing required fields"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes.
// Anything unrecognised, including upstream failures, is a 500.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotImplemented):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns the message sent to the client for err.
// Upstream details never leave the server.
func GetSafeErrorMessage(err error) string {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		return vErr.Error()
	case errors.Is(err, domain.ErrValidation):
		return msgValidationFallback
	case errors.Is(err, domain.ErrUnauthorized):
		return msgLoginFailed
	case errors.Is(err, domain.ErrNotImplemented):
		return msgNotImplemented
	default:
		return msgInternalError
	}
}

// HandleAPIError writes the error response for err. Rejected credentials
// are logged at WARN so that repeated failures stand out.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)

	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized {
		opts = append(opts, shared.WithElevatedLogLevel())
	}

	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err, opts...)
}
