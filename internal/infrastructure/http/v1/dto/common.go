// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"strings"
	"time"

	"metapos/internal/core/apperror"
	"metapos/internal/core/types"
)

// ListResponse wraps list results.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

// NewListResponse builds a list response; nil input renders as [].
func NewListResponse[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Count: len(items)}
}

// ErrorResponse is the body rendered for every failed request.
type ErrorResponse struct {
	Code    apperror.Code  `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ParseMoney parses a request amount ("10.5" or "10,50") for field.
func ParseMoney(field, value string) (types.Money, error) {
	m, err := types.NewMoneyFromString(value)
	if err != nil {
		return types.Zero(), apperror.NewInvalidAttribute(field, field+" is not a valid amount").
			WithDetail("value", value).
			WithCause(err)
	}
	return m, nil
}

const dateLayout = "2006-01-02"

// ParseTime accepts RFC 3339 or a plain date. A plain date used as the
// end of a range covers the whole day.
func ParseTime(field, value string, endOfDay bool) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(dateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, apperror.NewValidation(field+" must be a date (YYYY-MM-DD) or RFC 3339 timestamp").
			WithDetail("field", field).
			WithDetail("value", value)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
