package domain

import (
	"fmt"
	"strings"
)

// AppError is the base domain error type.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// Standard domain error constructors.

func ErrNotFound(entity, id string) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: fmt.Sprintf("%s %s not found", entity, id), Status: 404}
}

func ErrConflict(msg string) *AppError {
	return &AppError{Code: "CONFLICT", Message: msg, Status: 409}
}

func ErrValidation(msg string) *AppError {
	return &AppError{Code: "VALIDATION_ERROR", Message: msg, Status: 400}
}

func ErrUnauthorized(msg string) *AppError {
	return &AppError{Code: "UNAUTHORIZED", Message: msg, Status: 401}
}

func ErrInternal(msg string, cause error) *AppError {
	return &AppError{Code: "INTERNAL_ERROR", Message: msg, Status: 500, Cause: cause}
}

// Ledger error constructors.

// ErrSelfValidation rejects a declarant confirming their own purchase.
func ErrSelfValidation() *AppError {
	return &AppError{Code: "SELF_VALIDATION", Message: "a purchase cannot be validated by its declarant", Status: 403}
}

// ErrAlreadyValidated rejects a second validation of the same purchase.
func ErrAlreadyValidated(purchaseID string) *AppError {
	return &AppError{Code: "ALREADY_VALIDATED", Message: fmt.Sprintf("purchase %s is already validated", purchaseID), Status: 409}
}

// ErrAlreadyClosed rejects closing a session twice.
func ErrAlreadyClosed(session string) *AppError {
	return &AppError{Code: "ALREADY_CLOSED", Message: fmt.Sprintf("session %s is already closed", session), Status: 409}
}

// ErrSessionClosed rejects any mutation after close.
func ErrSessionClosed(session string) *AppError {
	return &AppError{Code: "SESSION_CLOSED", Message: fmt.Sprintf("session %s is closed", session), Status: 409}
}

// ErrCannotClose rejects a close while players still lack a withdrawal.
// Missing player names ride in the message so the caller can show them.
func ErrCannotClose(missing []string) *AppError {
	return &AppError{
		Code:    "CANNOT_CLOSE",
		Message: fmt.Sprintf("players without a declared chip-out: %s", strings.Join(missing, ", ")),
		Status:  409,
	}
}

// ErrStaleSnapshot rejects a save whose version no longer matches the
// stored row (lost-update protection).
func ErrStaleSnapshot(session string) *AppError {
	return &AppError{Code: "STALE_SNAPSHOT", Message: fmt.Sprintf("session %s was modified concurrently", session), Status: 409}
}
