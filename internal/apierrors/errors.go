// Package apierrors defines the errors returned to API clients and the HTTP
// status each one maps to.
package apierrors

import (
	"fmt"
	"net/http"
)

// Kind classifies an APIError.
type Kind string

const (
	KindValidation Kind = "ValidationError"
	KindAuth       Kind = "AuthError"
	KindNotFound   Kind = "NotFoundError"
	KindConflict   Kind = "ConflictError"
	KindInternal   Kind = "InternalError"
)

// FieldViolation describes a single invalid request field.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is an error with a client-facing message and HTTP status.
type APIError struct {
	Kind    Kind
	Status  int
	Message string
	Fields  []FieldViolation
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewErrValidation reports request fields that failed validation.
func NewErrValidation(fields []FieldViolation) *APIError {
	return &APIError{
		Kind:    KindValidation,
		Status:  http.StatusBadRequest,
		Message: "Validation error",
		Fields:  fields,
	}
}

func NewErrMissingAuthorizationToken() *APIError {
	return &APIError{
		Kind:    KindAuth,
		Status:  http.StatusUnauthorized,
		Message: "Access denied, token not provided",
	}
}

func NewErrInvalidAuthorizationToken() *APIError {
	return &APIError{
		Kind:    KindAuth,
		Status:  http.StatusUnauthorized,
		Message: "Invalid or expired token",
	}
}

func NewErrInvalidCredentials() *APIError {
	return &APIError{
		Kind:    KindAuth,
		Status:  http.StatusUnauthorized,
		Message: "Invalid credentials",
	}
}

// NewErrEmailIsTaken reports a duplicate registration. The status stays 400
// to keep the register contract.
func NewErrEmailIsTaken(email string) *APIError {
	return &APIError{
		Kind:    KindConflict,
		Status:  http.StatusBadRequest,
		Message: "User already exists",
		Err:     fmt.Errorf("email %q is already taken", email),
	}
}

func NewErrUserNotFound(email string) *APIError {
	return &APIError{
		Kind:    KindNotFound,
		Status:  http.StatusNotFound,
		Message: "User not found",
		Err:     fmt.Errorf("user %q not found", email),
	}
}

func NewErrTaskNotFound(id string) *APIError {
	return &APIError{
		Kind:    KindNotFound,
		Status:  http.StatusNotFound,
		Message: "Task not found",
		Err:     fmt.Errorf("task %s not found", id),
	}
}

// NewErrInternalServerError wraps an unexpected failure.
func NewErrInternalServerError(err error) *APIError {
	return &APIError{
		Kind:    KindInternal,
		Status:  http.StatusInternalServerError,
		Message: "Server error",
		Err:     err,
	}
}
