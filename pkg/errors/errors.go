package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// Domain errors
	ErrorTypeValidation        ErrorType = "VALIDATION"
	ErrorTypeNotFound          ErrorType = "NOT_FOUND"
	ErrorTypeConflict          ErrorType = "CONFLICT"
	ErrorTypeUnauthorized      ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden         ErrorType = "FORBIDDEN"
	ErrorTypeInsufficientFunds ErrorType = "INSUFFICIENT_FUNDS"
	ErrorTypeSelfPayment       ErrorType = "SELF_PAYMENT"
	ErrorTypeInvalidAmount     ErrorType = "INVALID_AMOUNT"

	// Application errors
	ErrorTypeInternal  ErrorType = "INTERNAL"
	ErrorTypeRateLimit ErrorType = "RATE_LIMIT"

	// Infrastructure errors
	ErrorTypeStorage ErrorType = "STORAGE"
)

// AppError represents an application-specific error
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	Code       string                 `json:"code,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	HTTPStatus int                    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithDetails adds error details
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// Constructor functions for common error types

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

// NewConflictError creates a conflict error
func NewConflictError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError(message string) *AppError {
	if message == "" {
		message = "unauthorized"
	}
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewForbiddenError creates a forbidden error
func NewForbiddenError(message string) *AppError {
	if message == "" {
		message = "forbidden"
	}
	return &AppError{
		Type:       ErrorTypeForbidden,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

// NewInsufficientFundsError creates an insufficient funds error.
// The balance check and the apply are evaluated against the same
// consistent read, so this is a user-correctable condition, not a retry case.
func NewInsufficientFundsError(balance, requested int64) *AppError {
	return &AppError{
		Type:       ErrorTypeInsufficientFunds,
		Message:    "balance is insufficient for the requested amount",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]interface{}{
			"balance":   balance,
			"requested": requested,
		},
	}
}

// NewSelfPaymentError creates an error for payments where sender and
// recipient resolve to the same account
func NewSelfPaymentError(message string) *AppError {
	if message == "" {
		message = "sender and recipient are the same account"
	}
	return &AppError{
		Type:       ErrorTypeSelfPayment,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// NewInvalidAmountError creates an error for non-positive amounts reaching
// the ledger despite upstream form checks
func NewInvalidAmountError(amount int64) *AppError {
	return &AppError{
		Type:       ErrorTypeInvalidAmount,
		Message:    "amount must be a positive number of coins",
		HTTPStatus: http.StatusBadRequest,
		Details: map[string]interface{}{
			"amount": amount,
		},
	}
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// NewRateLimitError creates a rate limit error
func NewRateLimitError(limit int, window string) *AppError {
	return &AppError{
		Type:       ErrorTypeRateLimit,
		Message:    fmt.Sprintf("rate limit exceeded: %d requests per %s", limit, window),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// NewStorageError creates a storage error. The atomicity contract guarantees
// balances and the ledger are unchanged when this surfaces; the caller must
// treat the operation as not applied.
func NewStorageError(operation string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeStorage,
		Message:    fmt.Sprintf("storage operation '%s' failed", operation),
		Cause:      err,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// Helper functions

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from an error chain
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == errType
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return IsType(err, ErrorTypeValidation)
}

// IsConflict checks if an error is a conflict error
func IsConflict(err error) bool {
	return IsType(err, ErrorTypeConflict)
}

// IsForbidden checks if an error is a forbidden error
func IsForbidden(err error) bool {
	return IsType(err, ErrorTypeForbidden)
}

// IsInsufficientFunds checks if an error is an insufficient funds error
func IsInsufficientFunds(err error) bool {
	return IsType(err, ErrorTypeInsufficientFunds)
}

// IsSelfPayment checks if an error is a self payment error
func IsSelfPayment(err error) bool {
	return IsType(err, ErrorTypeSelfPayment)
}

// IsInvalidAmount checks if an error is an invalid amount error
func IsInvalidAmount(err error) bool {
	return IsType(err, ErrorTypeInvalidAmount)
}

// IsStorage checks if an error is a storage error
func IsStorage(err error) bool {
	return IsType(err, ErrorTypeStorage)
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	if appErr := GetAppError(err); appErr != nil {
		appErr.Message = fmt.Sprintf("%s: %s", message, appErr.Message)
		return appErr
	}

	return NewInternalError(message).WithCause(err)
}

// Wrapf wraps an error with formatted message
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}
