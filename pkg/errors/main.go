package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	StatusOK                  = 200
	StatusCreated             = 201
	StatusNoContent           = 204
	StatusBadRequest          = 400
	StatusNotFound            = 404
	StatusMethodNotAllowed    = 405
	StatusRequestTimeout      = 408
	StatusConflict            = 409
	StatusInternalServerError = 500
)

const (
	ErrorTypeDatabaseError       = "DATABASE_ERROR"
	ErrorTypeNotFound            = "NOT_FOUND"
	ErrorTypeInvalidRequest      = "INVALID_REQUEST"
	ErrorTypeConflict            = "CONFLICT"
	ErrorTypeInternalServerError = "INTERNAL_SERVER_ERROR"
	ErrorTypeUnknown             = "UNKNOWN_ERROR"
	ErrorTypeRequestTimeout      = "REQUEST_TIMEOUT"
	ErrorTypeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
)

// pgUniqueViolation is the SQLSTATE postgres reports for unique constraint violations.
const pgUniqueViolation = "23505"

type AppError struct {
	Type    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(errType, message string, err error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

func NewNotFoundError(message string, err error) *AppError {
	return NewAppError(ErrorTypeNotFound, message, err)
}

// NewInvalidRequestError reports malformed or missing client input.
func NewInvalidRequestError(message string, err error) *AppError {
	return NewAppError(ErrorTypeInvalidRequest, message, err)
}

// NewDatabaseError reports a store read or write failure.
func NewDatabaseError(message string, err error) *AppError {
	return NewAppError(ErrorTypeDatabaseError, message, err)
}

// NewConflictError reports a uniqueness violation caused by the client.
func NewConflictError(message string, err error) *AppError {
	return NewAppError(ErrorTypeConflict, message, err)
}

func NewInternalServerError(message string, err error) *AppError {
	return NewAppError(ErrorTypeInternalServerError, message, err)
}

func GetErrorType(err error) string {
	if err == nil {
		return ""
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}

	return ErrorTypeUnknown
}

func DeduceErrorTypeFromErrorString(err error) string {
	if err == nil {
		return ""
	}

	errMsg := strings.ToLower(err.Error())
	switch {
	case errMsg == "":
		return ""
	case strings.Contains(errMsg, "not found"):
		return ErrorTypeNotFound
	case strings.Contains(errMsg, "conflict"):
		return ErrorTypeConflict
	case strings.Contains(errMsg, "database"):
		return ErrorTypeDatabaseError
	case strings.Contains(errMsg, "invalid request"):
		return ErrorTypeInvalidRequest
	}

	return ErrorTypeUnknown
}

// IsDuplicateKeyError recognises unique violations from postgres (SQLSTATE 23505),
// sqlite and redis-backed stores that report them as plain strings.
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	errMsg := strings.ToLower(err.Error())
	return DeduceErrorTypeFromErrorString(err) == ErrorTypeConflict ||
		strings.Contains(errMsg, "duplicate") ||
		strings.Contains(errMsg, "unique constraint")
}
