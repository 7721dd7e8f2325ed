package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"puntoventa/internal/core/id"
	"puntoventa/internal/domain/documents/venta"
	"puntoventa/internal/infrastructure/http/v1/dto"
)

// VentaHandler handles sale endpoints.
type VentaHandler struct {
	*BaseHandler
	service *venta.Service
}

// NewVentaHandler creates a sale handler.
func NewVentaHandler(base *BaseHandler, service *venta.Service) *VentaHandler {
	return &VentaHandler{BaseHandler: base, service: service}
}

// Create registers a sale.
func (h *VentaHandler) Create(c *gin.Context) {
	var req dto.CreateVentaRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cmd, err := req.ToNuevaVenta(h.UsuarioID(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	v, err := h.service.Crear(c.Request.Context(), h.EmpresaID(c), cmd)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.CreateVentaResponse{
		Success: true,
		VentaID: v.ID.String(),
		Folio:   v.Folio,
		Total:   v.Total,
		Cambio:  v.Cambio,
	})
}

// Cancel reverses a completed sale.
func (h *VentaHandler) Cancel(c *gin.Context) {
	ventaID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.CancelVentaRequest
	if !h.BindJSON(c, &req) {
		return
	}

	err := h.service.Cancelar(c.Request.Context(), h.EmpresaID(c), ventaID, h.UsuarioID(c), req.Motivo)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.SuccessResponse{Success: true, Message: "venta cancelada"})
}

// Get retrieves a sale with its line items.
func (h *VentaHandler) Get(c *gin.Context) {
	ventaID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	v, err := h.service.ObtenerPorID(c.Request.Context(), h.EmpresaID(c), ventaID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, v)
}

// List returns sales matching the query filters.
func (h *VentaHandler) List(c *gin.Context) {
	filter := venta.ListFilter{
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if v := c.Query("sucursalId"); v != "" {
		if parsed, err := id.Parse(v); err == nil {
			filter.SucursalID = &parsed
		}
	}
	if v := c.Query("estado"); v != "" {
		estado := venta.Estado(v)
		filter.Estado = &estado
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

	ventas, total, err := h.service.Listar(c.Request.Context(), h.EmpresaID(c), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.VentaListResponse{
		Ventas: ventas,
		Meta:   dto.ListMeta{Total: total, Limit: filter.Limit, Offset: filter.Offset},
	})
}

// RegisterRoutes registers sale routes.
func (h *VentaHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.POST("/:id/cancelar", h.Cancel)
}
