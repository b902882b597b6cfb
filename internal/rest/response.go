package rest

import (
	"context"
	"errors"
	"net/http"

	"smartCatalog/domain"
	"smartCatalog/pkg/logger"

	"github.com/labstack/echo/v4"
)

type ResponseError struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidConstraint),
		errors.Is(err, domain.ErrComparisonProductCount),
		errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrInvalidFeedback):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrCandidateNotFound), errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c echo.Context, err error) error {
	status := statusFor(err)
	body := ResponseError{Message: err.Error()}

	var ce *domain.ConstraintError
	if errors.As(err, &ce) {
		body.Field = ce.Field
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request_failed", "path", c.Path(), "status", status, "error", err)
		if status == http.StatusInternalServerError {
			body.Message = "internal server error"
		}
	}

	return c.JSON(status, body)
}

func badRequest(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
}

// userIDFrom reads the id set by the auth middleware.
func userIDFrom(c echo.Context) (string, bool) {
	id, ok := c.Get("user_id").(string)
	return id, ok && id != ""
}
