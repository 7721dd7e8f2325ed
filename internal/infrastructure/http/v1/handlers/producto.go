package handlers

import (
	"github.com/gin-gonic/gin"

	"puntoventa/internal/domain/catalogs/producto"
	"puntoventa/internal/infrastructure/http/v1/dto"
)

// ProductoHandler handles product catalog endpoints.
type ProductoHandler struct {
	*BaseHandler
	service *producto.Service
}

// NewProductoHandler creates a product handler.
func NewProductoHandler(base *BaseHandler, service *producto.Service) *ProductoHandler {
	return &ProductoHandler{BaseHandler: base, service: service}
}

// Create registers a new product.
func (h *ProductoHandler) Create(c *gin.Context) {
	var req dto.CreateProductoRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p := req.ToProducto(h.EmpresaID(c))
	if err := h.service.Crear(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, p)
}

// Update applies partial changes to a product.
func (h *ProductoHandler) Update(c *gin.Context) {
	productoID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateProductoRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	p, err := h.service.ObtenerPorID(ctx, h.EmpresaID(c), productoID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(p)
	if err := h.service.Actualizar(ctx, p); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, p)
}

// Get retrieves a product by id.
func (h *ProductoHandler) Get(c *gin.Context) {
	productoID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	p, err := h.service.ObtenerPorID(c.Request.Context(), h.EmpresaID(c), productoID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, p)
}

// GetByCodigoBarras resolves a barcode scan.
func (h *ProductoHandler) GetByCodigoBarras(c *gin.Context) {
	p, err := h.service.ObtenerPorCodigoBarras(c.Request.Context(), h.EmpresaID(c), c.Param("codigo"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, p)
}

// List returns products matching the query filters.
func (h *ProductoHandler) List(c *gin.Context) {
	filter := producto.ListFilter{
		Busqueda:    c.Query("busqueda"),
		SoloActivos: c.Query("soloActivos") != "false",
		Limit:       h.ParseIntQuery(c, "limit", 50),
		Offset:      h.ParseIntQuery(c, "offset", 0),
	}

	productos, total, err := h.service.Listar(c.Request.Context(), h.EmpresaID(c), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ProductoListResponse{
		Productos: productos,
		Meta:      dto.ListMeta{Total: total, Limit: filter.Limit, Offset: filter.Offset},
	})
}

// Delete soft-disables a product.
func (h *ProductoHandler) Delete(c *gin.Context) {
	productoID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Desactivar(c.Request.Context(), h.EmpresaID(c), productoID); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.SuccessResponse{Success: true})
}

// RegisterRoutes registers product routes.
func (h *ProductoHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.GET("/codigo/:codigo", h.GetByCodigoBarras)
}
