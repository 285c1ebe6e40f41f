package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound               = errors.New("resource not found")
	ErrAlreadyExists          = errors.New("resource already exists")
	ErrInvalidInput           = errors.New("invalid input")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrForbidden              = errors.New("forbidden")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrExpiredCredential      = errors.New("credential expired")
	ErrInvalidCredential      = errors.New("credential invalid")
	ErrUnknownSubject         = errors.New("credential subject no longer exists")
	ErrAccountInactive        = errors.New("account is not active")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrAlreadyInState         = errors.New("already in requested state")
)

// Stable error codes exposed to clients
const (
	CodeValidation             = "VALIDATION_ERROR"
	CodeConflict               = "CONFLICT"
	CodeForbidden              = "FORBIDDEN"
	CodeNotFound               = "NOT_FOUND"
	CodeUnauthorized           = "UNAUTHORIZED"
	CodeExpiredCredential      = "EXPIRED_CREDENTIAL"
	CodeInvalidCredential      = "INVALID_CREDENTIAL"
	CodeUnknownSubject         = "UNKNOWN_SUBJECT"
	CodeInvalidCredentials     = "INVALID_CREDENTIALS"
	CodeAccountInactive        = "ACCOUNT_INACTIVE"
	CodeInvalidStateTransition = "INVALID_STATE_TRANSITION"
	CodeAlreadyInState         = "ALREADY_IN_STATE"
	CodeInternalError          = "INTERNAL_ERROR"
)

// AppError represents application error with HTTP status
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func Validation(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeValidation, message, ErrInvalidInput)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, message, ErrAlreadyExists)
}

func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message, ErrForbidden)
}

func ExpiredCredential(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeExpiredCredential, message, ErrExpiredCredential)
}

func InvalidCredential(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeInvalidCredential, message, ErrInvalidCredential)
}

func UnknownSubject(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnknownSubject, message, ErrUnknownSubject)
}

func InvalidCredentials() *AppError {
	return NewAppError(http.StatusUnauthorized, CodeInvalidCredentials, "invalid email or password", ErrInvalidCredentials)
}

func AccountInactive() *AppError {
	return NewAppError(http.StatusForbidden, CodeAccountInactive, "account is not active", ErrAccountInactive)
}

func InvalidStateTransition(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeInvalidStateTransition, message, ErrInvalidStateTransition)
}

// AlreadyInState reports an idempotent no-op. It carries 200 because nothing failed.
func AlreadyInState(message string) *AppError {
	return NewAppError(http.StatusOK, CodeAlreadyInState, message, ErrAlreadyInState)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, "internal server error", err)
}

// CodeOf returns the stable code of err, or CodeInternalError for anything untyped.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternalError
}
