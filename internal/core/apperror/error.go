// Package apperror provides structured error handling following RFC 7807 Problem Details.
// All business errors must use AppError so callers can match them by Code.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error kind. The set below is closed:
// domain code never invents codes on the fly.
type Code string

const (
	// Infrastructure errors (5xx)
	CodeInternal Code = "INTERNAL_ERROR"
	CodeDatabase Code = "DATABASE_ERROR"

	// Request validation (400)
	CodeValidation Code = "VALIDATION_ERROR"

	// Catalog and ledger errors
	CodeAlreadyRegistered Code = "ALREADY_REGISTERED"
	CodeNotFound          Code = "NOT_FOUND"
	CodeInvalidAttribute  Code = "INVALID_ATTRIBUTE"
	CodeInvalidQuantity   Code = "INVALID_QUANTITY"
	CodeInsufficientStock Code = "INSUFFICIENT_STOCK"

	// Sale errors
	CodeInvalidPrice    Code = "INVALID_PRICE"
	CodeInvalidDiscount Code = "INVALID_DISCOUNT"
	CodeSaleFinalized   Code = "SALE_FINALIZED"
	CodeEmptySale       Code = "EMPTY_SALE"
	CodeInactiveProduct Code = "INACTIVE_PRODUCT"

	// Authorization errors (401, 403)
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
)

// AppError is the standard error type for the platform.
// It implements error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code Code `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (product code, quantities, etc.)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions ---

// NewValidation creates a request validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFound creates a not found error (404)
func NewNotFound(entity string, key any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "key": key},
	}
}

// NewAlreadyRegistered creates a duplicate registration error (409)
func NewAlreadyRegistered(entity string, key any) *AppError {
	return &AppError{
		Code:       CodeAlreadyRegistered,
		Message:    fmt.Sprintf("%s already registered", entity),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "key": key},
	}
}

// NewInvalidAttribute creates an attribute validation error (400)
func NewInvalidAttribute(field, message string) *AppError {
	return &AppError{
		Code:       CodeInvalidAttribute,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"field": field},
	}
}

// NewInvalidQuantity creates a quantity validation error (400)
func NewInvalidQuantity(message string, quantity int64) *AppError {
	return &AppError{
		Code:       CodeInvalidQuantity,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"quantity": quantity},
	}
}

// NewInsufficientStock creates a stock shortage error (422)
func NewInsufficientStock(productCode string, requested, available int64) *AppError {
	return &AppError{
		Code:       CodeInsufficientStock,
		Message:    "Insufficient stock",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"code":      productCode,
			"requested": requested,
			"available": available,
		},
	}
}

// NewInvalidPrice creates a unit price error (400)
func NewInvalidPrice(productCode string, price string) *AppError {
	return &AppError{
		Code:       CodeInvalidPrice,
		Message:    "Unit price cannot be negative",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"code": productCode, "price": price},
	}
}

// NewInvalidPriceScale rejects a unit price with more than two decimal places (400)
func NewInvalidPriceScale(productCode string, price string) *AppError {
	return &AppError{
		Code:       CodeInvalidPrice,
		Message:    "Unit price must have at most 2 decimal places",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"code": productCode, "price": price},
	}
}

// NewInvalidDiscount creates a discount bounds error (400)
func NewInvalidDiscount(percent string) *AppError {
	return &AppError{
		Code:       CodeInvalidDiscount,
		Message:    "Discount must be between 0% and 100%",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"percent": percent},
	}
}

// NewSaleFinalized is returned by any mutation of a finalized sale (422)
func NewSaleFinalized(saleID string) *AppError {
	return &AppError{
		Code:       CodeSaleFinalized,
		Message:    "Sale is already finalized",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"sale_id": saleID},
	}
}

// NewEmptySale is returned when finalizing a sale without items (422)
func NewEmptySale(saleID string) *AppError {
	return &AppError{
		Code:       CodeEmptySale,
		Message:    "Sale has no items",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"sale_id": saleID},
	}
}

// NewInactiveProduct is returned when selling a deactivated product (422)
func NewInactiveProduct(productCode string) *AppError {
	return &AppError{
		Code:       CodeInactiveProduct,
		Message:    "Product is inactive",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"code": productCode},
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewDatabase wraps a store failure (500)
func NewDatabase(op string, err error) *AppError {
	return &AppError{
		Code:       CodeDatabase,
		Message:    "Database operation failed",
		HTTPStatus: http.StatusInternalServerError,
		Details:    map[string]any{"operation": op},
		Err:        err,
	}
}

// NewUnauthorized creates an authentication error (401)
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewForbidden creates an authorization error (403)
func NewForbidden(message string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool {
	return Is(err, CodeNotFound)
}
