package handlers

import (
	"github.com/gin-gonic/gin"

	"metapos/internal/core/apperror"
	appctx "metapos/internal/core/context"
	"metapos/internal/domain/auth"
	"metapos/internal/infrastructure/http/v1/dto"
)

// AuthHandler handles operator login and management.
type AuthHandler struct {
	*BaseHandler
	service *auth.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(base *BaseHandler, service *auth.Service) *AuthHandler {
	return &AuthHandler{BaseHandler: base, service: service}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	token, op, err := h.service.Login(c.Request.Context(), req.ToCredentials())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.LoginResponse{Token: token, Operator: dto.FromOperator(op)})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	op := appctx.GetOperator(c.Request.Context())
	if op == nil {
		h.Error(c, apperror.NewUnauthorized("not authenticated"))
		return
	}
	h.OK(c, dto.OperatorResponse{ID: op.OperatorID, Name: op.Name, Role: op.Role, IsActive: true})
}

// RegisterOperator handles POST /auth/operators.
func (h *AuthHandler) RegisterOperator(c *gin.Context) {
	var req dto.RegisterOperatorRequest
	if !h.BindJSON(c, &req) {
		return
	}

	op, err := h.service.Register(c.Request.Context(), req.ToRegisterRequest())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromOperator(op))
}

// ListOperators handles GET /auth/operators.
func (h *AuthHandler) ListOperators(c *gin.Context) {
	ops, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	List(c, dto.FromOperators(ops))
}
