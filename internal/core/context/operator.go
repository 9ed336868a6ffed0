// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// OperatorContext contains the authenticated operator (cashier) information.
type OperatorContext struct {
	OperatorID int64
	Name       string
	Role       string
}

// IsAdmin reports whether the operator holds the admin role.
func (o *OperatorContext) IsAdmin() bool {
	return o != nil && o.Role == "admin"
}

type operatorContextKey struct{}

// WithOperator adds OperatorContext to context.
func WithOperator(ctx context.Context, op *OperatorContext) context.Context {
	return context.WithValue(ctx, operatorContextKey{}, op)
}

// GetOperator returns OperatorContext from context.
func GetOperator(ctx context.Context) *OperatorContext {
	if v, ok := ctx.Value(operatorContextKey{}).(*OperatorContext); ok {
		return v
	}
	return nil
}

// GetOperatorID returns operator ID from context or zero.
func GetOperatorID(ctx context.Context) int64 {
	if o := GetOperator(ctx); o != nil {
		return o.OperatorID
	}
	return 0
}
