package handlers

import (
	"github.com/gin-gonic/gin"

	"puntoventa/internal/domain/auth"
	"puntoventa/internal/infrastructure/http/v1/dto"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	*BaseHandler
	service *auth.Service
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(base *BaseHandler, service *auth.Service) *AuthHandler {
	return &AuthHandler{BaseHandler: base, service: service}
}

// Login authenticates credentials and returns a token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sesion, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.LoginResponse{
		Success:   true,
		Token:     sesion.Token,
		ExpiraEn:  sesion.ExpiraEn,
		UsuarioID: sesion.UsuarioID.String(),
		EmpresaID: sesion.EmpresaID.String(),
		Nombre:    sesion.Nombre,
		Rol:       sesion.Rol,
	})
}

// RegisterRoutes registers auth routes.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/login", h.Login)
}
