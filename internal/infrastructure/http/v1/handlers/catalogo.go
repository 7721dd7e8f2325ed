package handlers

import (
	"github.com/gin-gonic/gin"

	"puntoventa/internal/core/apperror"
	"puntoventa/internal/core/id"
	"puntoventa/internal/domain/catalogs/caja"
	"puntoventa/internal/domain/catalogs/sucursal"
	"puntoventa/internal/infrastructure/http/v1/dto"
)

// CatalogoHandler handles branch and register catalog endpoints.
type CatalogoHandler struct {
	*BaseHandler
	sucursales *sucursal.Service
	cajas      *caja.Service
}

// NewCatalogoHandler creates a catalog handler.
func NewCatalogoHandler(base *BaseHandler, sucursales *sucursal.Service, cajas *caja.Service) *CatalogoHandler {
	return &CatalogoHandler{BaseHandler: base, sucursales: sucursales, cajas: cajas}
}

// CreateSucursal registers a new branch.
func (h *CatalogoHandler) CreateSucursal(c *gin.Context) {
	var req dto.CreateSucursalRequest
	if !h.BindJSON(c, &req) {
		return
	}

	s := req.ToSucursal(h.EmpresaID(c))
	if err := h.sucursales.Crear(c.Request.Context(), s); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, s)
}

// ListSucursales returns all branches of the tenant.
func (h *CatalogoHandler) ListSucursales(c *gin.Context) {
	sucursales, err := h.sucursales.Listar(c.Request.Context(), h.EmpresaID(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.SucursalListResponse{Sucursales: sucursales})
}

// CreateCaja registers a new cash register.
func (h *CatalogoHandler) CreateCaja(c *gin.Context) {
	var req dto.CreateCajaRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sucursalID, err := id.Parse(req.SucursalID)
	if err != nil {
		h.Error(c, apperror.NewValidation("sucursalId inválido"))
		return
	}

	cj := caja.Nueva(h.EmpresaID(c), sucursalID, req.Nombre)
	if err := h.cajas.Crear(c.Request.Context(), cj); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, cj)
}

// ListCajas returns the registers of a branch.
func (h *CatalogoHandler) ListCajas(c *gin.Context) {
	sucursalID, ok := h.ParseIDParam(c, "sucursalId")
	if !ok {
		return
	}

	cajas, err := h.cajas.ListarPorSucursal(c.Request.Context(), h.EmpresaID(c), sucursalID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.CajaListResponse{Cajas: cajas})
}

// RegisterRoutes registers catalog routes.
func (h *CatalogoHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/sucursales", h.ListSucursales)
	rg.POST("/sucursales", h.CreateSucursal)
	rg.GET("/sucursales/:sucursalId/cajas", h.ListCajas)
	rg.POST("/cajas", h.CreateCaja)
}
