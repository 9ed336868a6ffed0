package auth

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"metapos/internal/core/apperror"
	appctx "metapos/internal/core/context"
	"metapos/pkg/logger"
)

// ServiceConfig holds auth service configuration.
type ServiceConfig struct {
	MaxLoginAttempts  int
	LockDuration      time.Duration
	PasswordMinLength int
	BcryptCost        int
}

// DefaultServiceConfig returns default configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MaxLoginAttempts:  5,
		LockDuration:      15 * time.Minute,
		PasswordMinLength: 6,
		BcryptCost:        bcrypt.DefaultCost,
	}
}

// Service provides operator registration and login.
type Service struct {
	repo       OperatorRepository
	jwtService *JWTService
	config     ServiceConfig
}

// NewService creates a new auth service.
func NewService(repo OperatorRepository, jwtService *JWTService, config ServiceConfig) *Service {
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		jwtService: jwtService,
		config:     config,
	}
}

// Register creates an operator with a bcrypt password hash.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Operator, error) {
	op := NewOperator(req.Name, "", req.Role)
	if op.Name == "" {
		return nil, apperror.NewInvalidAttribute("name", "operator name is required")
	}
	if op.Role == "" {
		op.Role = RoleCashier
	}
	if !IsValidRole(op.Role) {
		return nil, apperror.NewInvalidAttribute("role", "unknown role").WithDetail("value", op.Role)
	}
	if len(req.Password) < s.config.PasswordMinLength {
		return nil, apperror.NewInvalidAttribute("password",
			fmt.Sprintf("password must be at least %d characters", s.config.PasswordMinLength))
	}

	exists, err := s.repo.Exists(ctx, op.Name)
	if err != nil {
		return nil, fmt.Errorf("check operator exists: %w", err)
	}
	if exists {
		return nil, apperror.NewAlreadyRegistered("operator", op.Name)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	op.PasswordHash = string(hash)

	if err := s.repo.Create(ctx, op); err != nil {
		return nil, err
	}

	logger.Info(ctx, "operator registered", "operator_id", op.RowID, "name", op.Name, "role", op.Role)
	return op, nil
}

// Login verifies credentials and issues an access token.
func (s *Service) Login(ctx context.Context, creds Credentials) (*Token, *Operator, error) {
	op, err := s.repo.GetByName(ctx, creds.Name)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, nil, apperror.NewUnauthorized("invalid credentials")
		}
		return nil, nil, err
	}
	if err := op.CanLogin(); err != nil {
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(creds.Password)); err != nil {
		op.RecordFailedLogin(s.config.MaxLoginAttempts, s.config.LockDuration)
		if uerr := s.repo.Update(ctx, op); uerr != nil {
			logger.Warn(ctx, "failed to record login attempt", "operator_id", op.RowID, "error", uerr)
		}
		return nil, nil, apperror.NewUnauthorized("invalid credentials")
	}

	op.RecordSuccessfulLogin()
	if err := s.repo.Update(ctx, op); err != nil {
		return nil, nil, fmt.Errorf("update operator: %w", err)
	}

	access, expiresAt, err := s.jwtService.GenerateAccessToken(op)
	if err != nil {
		return nil, nil, fmt.Errorf("generate token: %w", err)
	}

	logger.Info(ctx, "operator logged in", "operator_id", op.RowID, "name", op.Name)

	return &Token{
		AccessToken: access,
		ExpiresAt:   expiresAt,
		TokenType:   "Bearer",
	}, op, nil
}

// ValidateToken implements the HTTP middleware token validator.
func (s *Service) ValidateToken(token string) (*appctx.OperatorContext, error) {
	return s.jwtService.ValidateToken(token)
}

// List returns all operators.
func (s *Service) List(ctx context.Context) ([]*Operator, error) {
	return s.repo.List(ctx)
}

// EnsureOperator registers the operator unless the name is taken. Used by seeding.
func (s *Service) EnsureOperator(ctx context.Context, req RegisterRequest) (*Operator, bool, error) {
	existing, err := s.repo.GetByName(ctx, req.Name)
	if err == nil {
		return existing, false, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, false, err
	}
	op, err := s.Register(ctx, req)
	if err != nil {
		return nil, false, err
	}
	return op, true, nil
}
