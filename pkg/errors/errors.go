// Package errors defines custom error types and error handling utilities for the risk assessment service.
// This package provides structured error types that map to error codes and HTTP status codes.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode identifies an error class across transports
type ErrorCode string

const (
	CodeValidation    ErrorCode = "validation_error"
	CodeConfiguration ErrorCode = "configuration_error"
	CodePersistence   ErrorCode = "persistence_error"
	CodeCorruptRecord ErrorCode = "corrupt_record"
	CodeInvalidInput  ErrorCode = "invalid_request"
	CodeServerError   ErrorCode = "server_error"
	CodeNotFound      ErrorCode = "not_found"
	CodeConflict      ErrorCode = "conflict"
)

// ================================================================================
// Base Error Interface
// ================================================================================

// AppError represents a structured error with additional metadata
type AppError interface {
	error

	// Code returns the error code
	Code() ErrorCode

	// HTTPStatus returns the HTTP status code
	HTTPStatus() int

	// Description returns a human-readable description
	Description() string

	// Unwrap returns the underlying error for error chain support
	Unwrap() error

	// WithCause adds a cause error to the error chain
	WithCause(cause error) AppError

	// WithMetadata adds additional context metadata
	WithMetadata(key string, value interface{}) AppError

	// Metadata returns all metadata
	Metadata() map[string]interface{}
}

// ================================================================================
// Base Error Implementation
// ================================================================================

type baseError struct {
	code        ErrorCode
	httpStatus  int
	description string
	message     string
	cause       error
	metadata    map[string]interface{}
}

func (e *baseError) Error() string {
	msg := e.message
	if msg == "" {
		msg = e.description
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

func (e *baseError) Code() ErrorCode {
	return e.code
}

func (e *baseError) HTTPStatus() int {
	return e.httpStatus
}

func (e *baseError) Description() string {
	return e.description
}

func (e *baseError) Unwrap() error {
	return e.cause
}

func (e *baseError) WithCause(cause error) AppError {
	e.cause = cause
	return e
}

func (e *baseError) WithMetadata(key string, value interface{}) AppError {
	if e.metadata == nil {
		e.metadata = make(map[string]interface{})
	}
	e.metadata[key] = value
	return e
}

func (e *baseError) Metadata() map[string]interface{} {
	return e.metadata
}

// ================================================================================
// Error Constructor
// ================================================================================

// NewError creates a new AppError with the specified parameters
func NewError(code ErrorCode, httpStatus int, description string, message string) AppError {
	return &baseError{
		code:        code,
		httpStatus:  httpStatus,
		description: description,
		message:     message,
		metadata:    make(map[string]interface{}),
	}
}

// ================================================================================
// Predefined Error Constructors
// ================================================================================

// ErrValidation reports answers or measurements the engine cannot score.
func ErrValidation(message string) AppError {
	return NewError(
		CodeValidation,
		http.StatusBadRequest,
		"The submitted answers are incomplete or contain a value that is not defined for its question.",
		message,
	)
}

// ErrConfiguration reports malformed scoring, threshold or recommendation tables.
func ErrConfiguration(message string) AppError {
	return NewError(
		CodeConfiguration,
		http.StatusInternalServerError,
		"The assessment tables are malformed or do not cover the score range.",
		message,
	)
}

// ErrPersistence reports that the statistics store or history log could not be updated.
func ErrPersistence(message string) AppError {
	return NewError(
		CodePersistence,
		http.StatusServiceUnavailable,
		"The assessment could not be recorded. No statistics or history were changed.",
		message,
	)
}

// ErrCorruptRecord reports an unparseable history or statistics entry.
func ErrCorruptRecord(message string) AppError {
	return NewError(
		CodeCorruptRecord,
		http.StatusInternalServerError,
		"A stored record could not be parsed.",
		message,
	)
}

// ErrInvalidRequest reports a malformed transport request.
func ErrInvalidRequest(message string) AppError {
	return NewError(
		CodeInvalidInput,
		http.StatusBadRequest,
		"The request is missing a required parameter, includes an invalid parameter value, or is otherwise malformed.",
		message,
	)
}

// ErrServerError creates a server_error error
func ErrServerError(message string) AppError {
	return NewError(
		CodeServerError,
		http.StatusInternalServerError,
		"The server encountered an unexpected condition that prevented it from fulfilling the request.",
		message,
	)
}

// ErrNotFound creates a not_found error
func ErrNotFound(resource string) AppError {
	return NewError(
		CodeNotFound,
		http.StatusNotFound,
		"The requested resource was not found",
		fmt.Sprintf("%s not found", resource),
	).WithMetadata("resource", resource)
}

// ErrConflict creates a conflict error
func ErrConflict(message string) AppError {
	return NewError(
		CodeConflict,
		http.StatusConflict,
		"The request conflicts with a request that is still in progress.",
		message,
	)
}

// ================================================================================
// Domain-Specific Error Constructors
// ================================================================================

// ErrAnswerCount creates a validation error for a wrong number of answers
func ErrAnswerCount(expected, actual int) AppError {
	return ErrValidation(fmt.Sprintf("expected %d answers, got %d", expected, actual)).
		WithMetadata("expected", expected).
		WithMetadata("actual", actual)
}

// ErrUnknownOption creates a validation error for an option not defined for a question
func ErrUnknownOption(question, value int) AppError {
	return ErrValidation(fmt.Sprintf("option %d is not valid for question %d", value, question)).
		WithMetadata("question", question).
		WithMetadata("value", value)
}

// ================================================================================
// Error Validation Utilities
// ================================================================================

// AsAppError finds the first AppError in err's chain
func AsAppError(err error) (AppError, bool) {
	var appErr AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code anywhere in its chain
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code() == code
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return HasCode(err, CodeValidation)
}

// IsConfigurationError checks if an error is a configuration error
func IsConfigurationError(err error) bool {
	return HasCode(err, CodeConfiguration)
}

// IsPersistenceError checks if an error is a persistence error
func IsPersistenceError(err error) bool {
	return HasCode(err, CodePersistence)
}

// IsCorruptRecordError checks if an error is a corrupt record error
func IsCorruptRecordError(err error) bool {
	return HasCode(err, CodeCorruptRecord)
}

// WrapError wraps a generic error into an AppError
func WrapError(err error, code ErrorCode, message string) AppError {
	var httpStatus int

	switch code {
	case CodeValidation, CodeInvalidInput:
		httpStatus = http.StatusBadRequest
	case CodeNotFound:
		httpStatus = http.StatusNotFound
	case CodeConflict:
		httpStatus = http.StatusConflict
	case CodePersistence:
		httpStatus = http.StatusServiceUnavailable
	default:
		httpStatus = http.StatusInternalServerError
	}

	return NewError(code, httpStatus, message, message).WithCause(err)
}

// ShouldLogError determines if an error should be logged at error level
func ShouldLogError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus() >= 500
	}
	return true
}
