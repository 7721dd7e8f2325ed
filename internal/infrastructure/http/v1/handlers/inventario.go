package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"puntoventa/internal/core/apperror"
	"puntoventa/internal/core/id"
	"puntoventa/internal/domain/registers/inventario"
	"puntoventa/internal/infrastructure/http/v1/dto"
)

// InventarioHandler handles inventory register endpoints.
type InventarioHandler struct {
	*BaseHandler
	service *inventario.Service
}

// NewInventarioHandler creates an inventory handler.
func NewInventarioHandler(base *BaseHandler, service *inventario.Service) *InventarioHandler {
	return &InventarioHandler{BaseHandler: base, service: service}
}

// Ajustar applies a manual stock adjustment.
func (h *InventarioHandler) Ajustar(c *gin.Context) {
	var req dto.AjusteInventarioRequest
	if !h.BindJSON(c, &req) {
		return
	}

	var usuarioID *id.ID
	if uid := h.UsuarioID(c); !id.IsNil(uid) {
		usuarioID = &uid
	}

	aj, err := req.ToAjuste(usuarioID)
	if err != nil {
		h.Error(c, err)
		return
	}

	res, err := h.service.Ajustar(c.Request.Context(), h.EmpresaID(c), aj)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.AjusteInventarioResponse{
		Success:          true,
		CantidadAnterior: res.CantidadAnterior,
		CantidadNueva:    res.CantidadNueva,
	})
}

// Existencias returns balances for a branch. sucursalId is required;
// with productoId it returns that single balance, without it all
// balances of the branch.
func (h *InventarioHandler) Existencias(c *gin.Context) {
	sucursalID, err := id.Parse(c.Query("sucursalId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("sucursalId inválido"))
		return
	}

	if v := c.Query("productoId"); v != "" {
		productoID, err := id.Parse(v)
		if err != nil {
			h.Error(c, apperror.NewValidation("productoId inválido"))
			return
		}
		e, err := h.service.ObtenerExistencia(c.Request.Context(), h.EmpresaID(c), productoID, sucursalID)
		if err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, dto.FromExistencia(e))
		return
	}

	existencias, err := h.service.ExistenciasPorSucursal(c.Request.Context(), h.EmpresaID(c), sucursalID)
	if err != nil {
		h.Error(c, err)
		return
	}

	out := make([]dto.ExistenciaResponse, len(existencias))
	for i, e := range existencias {
		out[i] = dto.FromExistencia(e)
	}
	h.OK(c, gin.H{"existencias": out})
}

// Kardex returns ledger history matching the query filters.
func (h *InventarioHandler) Kardex(c *gin.Context) {
	filter := inventario.MovementFilter{
		Limit:  h.ParseIntQuery(c, "limit", 100),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if v := c.Query("productoId"); v != "" {
		if parsed, err := id.Parse(v); err == nil {
			filter.ProductoID = &parsed
		}
	}
	if v := c.Query("sucursalId"); v != "" {
		if parsed, err := id.Parse(v); err == nil {
			filter.SucursalID = &parsed
		}
	}
	if v := c.Query("tipo"); v != "" {
		tipo := inventario.TipoMovimiento(v)
		filter.Tipo = &tipo
	}
	if v := c.Query("desde"); v != "" {
		if parsed, err := time.Parse(time.RFC3339, v); err == nil {
			filter.Desde = &parsed
		}
	}
	if v := c.Query("hasta"); v != "" {
		if parsed, err := time.Parse(time.RFC3339, v); err == nil {
			filter.Hasta = &parsed
		}
	}

	movimientos, err := h.service.Kardex(c.Request.Context(), h.EmpresaID(c), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.MovimientosResponse{Movimientos: movimientos})
}

// RegisterRoutes registers inventory routes.
func (h *InventarioHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/ajustes", h.Ajustar)
	rg.GET("/existencias", h.Existencias)
	rg.GET("/movimientos", h.Kardex)
}
