package apierror

import (
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
)

type ErrorCode string

const (
	// ErrValidation carries field-level schema violations in Details.
	ErrValidation ErrorCode = "VALIDATION_ERROR"
	// ErrInvalidContentType rejects non-JSON submissions.
	ErrInvalidContentType ErrorCode = "INVALID_CONTENT_TYPE"
	// ErrInvalidJSON rejects unparsable request bodies.
	ErrInvalidJSON ErrorCode = "INVALID_JSON"
	// ErrFakeDemo is the injected transient failure of the demo endpoint.
	ErrFakeDemo ErrorCode = "FAKE_DEMO_ERROR"
	// ErrNotFound means the referenced form session does not exist.
	ErrNotFound ErrorCode = "NOT_FOUND"
	// ErrConflict covers operations the session state disallows, e.g. a
	// second submission while one is in flight.
	ErrConflict ErrorCode = "CONFLICT"
	// ErrBadRequest covers malformed parameters outside schema validation.
	ErrBadRequest ErrorCode = "BAD_REQUEST"
	// ErrInternalServer wraps unexpected failures, upstream ones included.
	ErrInternalServer ErrorCode = "INTERNAL_ERROR"
)

type APIError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAPIError(code ErrorCode, message string, details interface{}) APIError {
	if code == ErrInternalServer {
		logrus.Error(details)
	}
	return APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// MapErrorToHTTPStatus translates an APIError code into the HTTP status the
// announcement API contract prescribes. Validation, content-type, JSON and
// injected demo failures are all 400s; unknown errors default to 500.
func MapErrorToHTTPStatus(err error) int {
	if apiErr, ok := err.(APIError); ok {
		switch apiErr.Code {
		case ErrValidation, ErrInvalidContentType, ErrInvalidJSON, ErrFakeDemo, ErrBadRequest:
			return http.StatusBadRequest
		case ErrNotFound:
			return http.StatusNotFound
		case ErrConflict:
			return http.StatusConflict
		case ErrInternalServer:
			return http.StatusInternalServerError
		default:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}
