package apperrors

import (
	"net/http"
)

// Factories for wrapping repository errors and predefined variables for
// recurring business-logic failures.

// ErrNotFound converts a repository not-found (e.g. gorm.ErrRecordNotFound)
// into a 404 AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists converts a uniqueness violation into a 409 AppError.
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict is the generic 409 factory.
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation builds a 400 for operations the current state
// does not permit.
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// --- auth ---

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrWeakPassword = New(
	CodeValidationFailed,
	"auth",
	"Password must be at least 8 characters long",
	http.StatusBadRequest,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"An account with this email already exists",
	http.StatusConflict,
)

var ErrAccountNotVerified = New(
	CodeForbidden,
	"auth",
	"Email address has not been verified",
	http.StatusForbidden,
)

// --- business logic ---

var ErrCannotBefriendSelf = New(
	CodeInvalidOperation,
	"friends",
	"Cannot send a friend request to yourself",
	http.StatusBadRequest,
)

var ErrNotEventCreator = New(
	CodeForbidden,
	"events",
	"Only the event creator can perform this operation",
	http.StatusForbidden,
)

var ErrEventCancelled = New(
	CodeInvalidStatus,
	"events",
	"Event has been cancelled",
	http.StatusConflict,
)

// --- uploads ---

var ErrFileTooLarge = New(
	CodeValidationFailed,
	"uploads",
	"File exceeds the maximum allowed size",
	http.StatusBadRequest,
)

var ErrUnsupportedFileType = New(
	CodeValidationFailed,
	"uploads",
	"File type is not allowed",
	http.StatusBadRequest,
)
