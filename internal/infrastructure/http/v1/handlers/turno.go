package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"puntoventa/internal/core/id"
	"puntoventa/internal/domain/documents/turno"
	"puntoventa/internal/infrastructure/http/v1/dto"
)

// TurnoHandler handles cash shift endpoints.
type TurnoHandler struct {
	*BaseHandler
	service *turno.Service
}

// NewTurnoHandler creates a shift handler.
func NewTurnoHandler(base *BaseHandler, service *turno.Service) *TurnoHandler {
	return &TurnoHandler{BaseHandler: base, service: service}
}

// Abrir opens a shift on a register.
func (h *TurnoHandler) Abrir(c *gin.Context) {
	var req dto.AbrirTurnoRequest
	if !h.BindJSON(c, &req) {
		return
	}

	apertura, err := req.ToApertura(h.UsuarioID(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	t, err := h.service.Abrir(c.Request.Context(), h.EmpresaID(c), apertura)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.AbrirTurnoResponse{
		Success:   true,
		TurnoID:   t.ID.String(),
		AbiertoEn: t.AbiertoEn.Format(time.RFC3339),
	})
}

// Cerrar closes a shift and reconciles the drawer.
func (h *TurnoHandler) Cerrar(c *gin.Context) {
	turnoID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.CerrarTurnoRequest
	if !h.BindJSON(c, &req) {
		return
	}

	t, err := h.service.Cerrar(c.Request.Context(), h.EmpresaID(c), turnoID, req.ToCierre())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.CerrarTurnoResponse{
		Success:          true,
		TurnoID:          t.ID.String(),
		EfectivoEsperado: *t.EfectivoEsperado,
		EfectivoContado:  *t.EfectivoContado,
		Diferencia:       *t.Diferencia,
	})
}

// RegistrarMovimiento appends a deposit or withdrawal to a shift.
func (h *TurnoHandler) RegistrarMovimiento(c *gin.Context) {
	turnoID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.MovimientoCajaRequest
	if !h.BindJSON(c, &req) {
		return
	}

	var usuarioID *id.ID
	if uid := h.UsuarioID(c); !id.IsNil(uid) {
		usuarioID = &uid
	}

	m, err := h.service.RegistrarMovimiento(c.Request.Context(), h.EmpresaID(c), turnoID, req.ToMovimiento(usuarioID))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.MovimientoCajaResponse{
		Success:      true,
		MovimientoID: m.ID.String(),
	})
}

// Get retrieves a shift with its movements.
func (h *TurnoHandler) Get(c *gin.Context) {
	turnoID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	t, err := h.service.ObtenerPorID(c.Request.Context(), h.EmpresaID(c), turnoID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, t)
}

// GetAbierto returns the open shift of a register.
func (h *TurnoHandler) GetAbierto(c *gin.Context) {
	cajaID, ok := h.ParseIDParam(c, "cajaId")
	if !ok {
		return
	}

	t, err := h.service.AbiertoPorCaja(c.Request.Context(), h.EmpresaID(c), cajaID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, t)
}

// RegisterRoutes registers shift routes.
func (h *TurnoHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/abrir", h.Abrir)
	rg.GET("/:id", h.Get)
	rg.POST("/:id/cerrar", h.Cerrar)
	rg.POST("/:id/movimientos", h.RegistrarMovimiento)
	rg.GET("/abierto/:cajaId", h.GetAbierto)
}
