package api

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/readingclub/readingclub-server/internal/errors"
)

// APIError implements huma.StatusError and renders as {"error": message}.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status  int
	Message string `json:"error" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Per-field validation messages"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// RegisterErrorHandler configures huma to render domain errors.
// Call this after creating the huma.API but before registering routes.
func RegisterErrorHandler() {
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		for _, err := range errs {
			var domainErr *domainerrors.Error
			if errors.As(err, &domainErr) {
				return &APIError{
					status:  domainErr.HTTPStatus(),
					Message: domainErr.Message,
					Details: domainErr.Details,
				}
			}
		}

		// Schema and parse failures are plain bad requests for this API.
		if status == http.StatusUnprocessableEntity {
			status = http.StatusBadRequest
		}

		apiErr := &APIError{status: status, Message: message}
		if details := schemaDetails(errs); len(details) > 0 {
			apiErr.Details = details
		}
		if status >= http.StatusInternalServerError {
			apiErr.Message = "internal server error"
		}
		return apiErr
	}
}

// schemaDetails collects huma's per-location validation messages.
func schemaDetails(errs []error) map[string]string {
	var details map[string]string
	for _, err := range errs {
		var detail *huma.ErrorDetail
		if errors.As(err, &detail) && detail.Location != "" {
			if details == nil {
				details = make(map[string]string)
			}
			details[detail.Location] = detail.Message
		}
	}
	return details
}

// handleError converts service errors into huma errors. Domain errors keep
// their status and message; anything else is logged and becomes a 500.
func (s *Server) handleError(err error, op string, args ...any) error {
	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		return huma.NewError(domainErr.HTTPStatus(), domainErr.Message, domainErr)
	}
	s.logger.Error("Failed to "+op, append(args, "error", err)...)
	return huma.Error500InternalServerError("internal server error")
}
