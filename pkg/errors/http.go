package errors

import (
	"errors"
)

func HTTPStatusCode(err error) int {
	if err == nil {
		return StatusInternalServerError
	}

	switch GetErrorType(err) {
	case ErrorTypeNotFound:
		return StatusNotFound
	case ErrorTypeInvalidRequest:
		return StatusBadRequest
	case ErrorTypeConflict:
		return StatusConflict
	case ErrorTypeRequestTimeout:
		return StatusRequestTimeout
	case ErrorTypeMethodNotAllowed:
		return StatusMethodNotAllowed
	case ErrorTypeDatabaseError:
		return StatusInternalServerError
	case ErrorTypeInternalServerError:
		return StatusInternalServerError
	default:
		return StatusInternalServerError
	}
}

// IsClientError reports whether err maps to a 4xx status.
func IsClientError(err error) bool {
	code := HTTPStatusCode(err)
	return code >= 400 && code < 500
}

func GetHumanReadableMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}

	// SECURITY: avoid leaking internal error strings (DB errors, stack messages, etc.)
	return "An unexpected error occurred"
}
