package http

import (
	"errors"
	"net/http"

	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

var (
	errForbidden    = errors.New("role may not perform this operation")
	errUnauthorized = errors.New("missing or invalid bearer token")
)

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrCorruptData):
		return http.StatusInternalServerError
	case errors.Is(err, errUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, errForbidden):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrAlreadySettled),
		errors.Is(err, errs.ErrConcurrentModification),
		errors.Is(err, errs.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, errs.ErrPreconditionFailed):
		return http.StatusPreconditionFailed
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as an ErrorResponse. Internal errors are logged and
// their details kept out of the body.
func (s *Server) writeError(c echo.Context, err error) error {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method, "path", c.Path(), "error", err)
		message = http.StatusText(status)
	}
	return c.JSON(status, ErrorResponse{Code: status, Message: message})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Code: http.StatusBadRequest, Message: message})
}
