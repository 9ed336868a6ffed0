// Package auth provides operator accounts and token authentication.
package auth

import (
	"strings"
	"time"

	"metapos/internal/core/apperror"
)

// Operator roles.
const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
)

// Operator is a person allowed to run the point of sale.
type Operator struct {
	RowID               int64      `db:"id" json:"id"`
	Name                string     `db:"name" json:"name"`
	PasswordHash        string     `db:"password_hash" json:"-"`
	Role                string     `db:"role" json:"role"`
	IsActive            bool       `db:"is_active" json:"isActive"`
	LastLoginAt         *time.Time `db:"last_login_at" json:"lastLoginAt,omitempty"`
	FailedLoginAttempts int        `db:"failed_login_attempts" json:"-"`
	LockedUntil         *time.Time `db:"locked_until" json:"-"`
	CreatedAt           time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updatedAt"`
}

// NewOperator creates an active operator.
func NewOperator(name, passwordHash, role string) *Operator {
	now := time.Now().UTC()
	return &Operator{
		Name:         strings.TrimSpace(name),
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsValidRole reports whether role is known.
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleCashier
}

// IsLocked returns true if account is locked.
func (o *Operator) IsLocked() bool {
	if o.LockedUntil == nil {
		return false
	}
	return time.Now().Before(*o.LockedUntil)
}

// CanLogin checks if operator can login.
func (o *Operator) CanLogin() error {
	if !o.IsActive {
		return apperror.NewUnauthorized("operator is inactive")
	}
	if o.IsLocked() {
		return apperror.NewUnauthorized("operator is temporarily locked")
	}
	return nil
}

// RecordFailedLogin increments failed login counter.
func (o *Operator) RecordFailedLogin(maxAttempts int, lockDuration time.Duration) {
	o.FailedLoginAttempts++
	if maxAttempts > 0 && o.FailedLoginAttempts >= maxAttempts {
		lockUntil := time.Now().Add(lockDuration)
		o.LockedUntil = &lockUntil
	}
	o.UpdatedAt = time.Now().UTC()
}

// RecordSuccessfulLogin resets failed login counter.
func (o *Operator) RecordSuccessfulLogin() {
	o.FailedLoginAttempts = 0
	o.LockedUntil = nil
	now := time.Now().UTC()
	o.LastLoginAt = &now
	o.UpdatedAt = now
}

// Credentials for login.
type Credentials struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest for operator registration.
type RegisterRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Token is an issued access token.
type Token struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	TokenType   string    `json:"tokenType"`
}
