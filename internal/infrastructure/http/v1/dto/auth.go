package dto

import (
	"time"

	"metapos/internal/domain/auth"
)

// LoginRequest carries operator credentials.
type LoginRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ToCredentials converts the request.
func (r LoginRequest) ToCredentials() auth.Credentials {
	return auth.Credentials{Name: r.Name, Password: r.Password}
}

// RegisterOperatorRequest creates an operator (admin only).
type RegisterOperatorRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// ToRegisterRequest converts the request.
func (r RegisterOperatorRequest) ToRegisterRequest() auth.RegisterRequest {
	return auth.RegisterRequest{Name: r.Name, Password: r.Password, Role: r.Role}
}

// OperatorResponse is the API view of an operator.
type OperatorResponse struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// FromOperator converts an operator.
func FromOperator(op *auth.Operator) OperatorResponse {
	return OperatorResponse{
		ID:          op.RowID,
		Name:        op.Name,
		Role:        op.Role,
		IsActive:    op.IsActive,
		LastLoginAt: op.LastLoginAt,
	}
}

// FromOperators converts an operator list.
func FromOperators(items []*auth.Operator) []OperatorResponse {
	out := make([]OperatorResponse, 0, len(items))
	for _, op := range items {
		out = append(out, FromOperator(op))
	}
	return out
}

// LoginResponse carries the access token and the operator.
type LoginResponse struct {
	Token    *auth.Token      `json:"token"`
	Operator OperatorResponse `json:"operator"`
}
