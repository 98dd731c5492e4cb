package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInsufficientFunds indicates the debited account cannot cover the amount.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrScorerUnavailable indicates the risk scorer could not produce a usable score.
var ErrScorerUnavailable = errors.New("risk scorer unavailable")

// ErrCommitFailed indicates the ledger commit was rolled back because of an infrastructure fault.
var ErrCommitFailed = errors.New("ledger commit failed")

// ErrInternal indicates an unexpected infrastructure failure.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish status code alongside a wrapped cause.
// Repositories use it for failures that are not a domain outcome (begin/commit/rollback).
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(appErr, ErrInternal) succeed for 5xx application errors.
func (e *AppError) Is(target error) bool {
	return target == ErrInternal && e.Code >= 500
}
