package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appcatalog "github.com/retailcore/backend/internal/application/catalog"
	"github.com/retailcore/backend/internal/domain/catalog"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/interfaces/http/middleware"
)

// CatalogHandler exposes sellables and categories over HTTP.
type CatalogHandler struct {
	BaseHandler
	service *appcatalog.SellableService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(service *appcatalog.SellableService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// RegisterRoutes registers catalog routes
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sellables := rg.Group("/sellables")
	{
		sellables.POST("", h.Create)
		sellables.GET("", h.List)
		sellables.GET("/code/:code", h.GetByCode)
		sellables.GET("/:id", h.Get)
		sellables.PATCH("/:id", h.Update)
		sellables.PUT("/:id/on-sale", h.SetOnSale)
		sellables.POST("/:id/block", h.Block)
		sellables.POST("/:id/unblock", h.Unblock)
		sellables.POST("/:id/close", h.Close)
	}
	categories := rg.Group("/categories")
	{
		categories.POST("", h.CreateCategory)
		categories.GET("", h.ListCategories)
	}
}

func (h *CatalogHandler) Create(c *gin.Context) {
	var req appcatalog.CreateSellableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.service.CreateSellable(c.Request.Context(), middleware.GetRunContext(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

func (h *CatalogHandler) List(c *gin.Context) {
	filter := catalog.SellableFilter{Filter: parseFilter(c)}
	if raw := c.Query("status"); raw != "" {
		status := catalog.SellableStatus(raw)
		if !status.IsValid() {
			h.BadRequest(c, "unknown sellable status")
			return
		}
		filter.Status = &status
	}
	if raw := c.Query("kind"); raw != "" {
		kind := catalog.SellableKind(raw)
		if !kind.IsValid() {
			h.BadRequest(c, "unknown sellable kind")
			return
		}
		filter.Kind = &kind
	}
	if raw := c.Query("category_id"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "invalid category id")
			return
		}
		filter.CategoryID = &categoryID
	}
	resp, err := h.service.ListSellables(c.Request.Context(), middleware.GetRunContext(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *CatalogHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid sellable id")
		return
	}
	resp, err := h.service.GetSellable(c.Request.Context(), middleware.GetRunContext(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *CatalogHandler) GetByCode(c *gin.Context) {
	resp, err := h.service.GetSellableByCode(c.Request.Context(), middleware.GetRunContext(c), c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *CatalogHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid sellable id")
		return
	}
	var req appcatalog.UpdateSellableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.service.UpdateSellable(c.Request.Context(), middleware.GetRunContext(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *CatalogHandler) SetOnSale(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid sellable id")
		return
	}
	var req appcatalog.SetOnSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.service.SetOnSale(c.Request.Context(), middleware.GetRunContext(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *CatalogHandler) Block(c *gin.Context) {
	h.transition(c, h.service.Block)
}

func (h *CatalogHandler) Unblock(c *gin.Context) {
	h.transition(c, h.service.Unblock)
}

func (h *CatalogHandler) Close(c *gin.Context) {
	h.transition(c, h.service.Close)
}

func (h *CatalogHandler) transition(c *gin.Context, op func(ctx context.Context, rc shared.RunContext, id uuid.UUID) (*appcatalog.SellableResponse, error)) {
	id, ok := uuidParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid sellable id")
		return
	}
	resp, err := op(c.Request.Context(), middleware.GetRunContext(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req appcatalog.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.service.CreateCategory(c.Request.Context(), middleware.GetRunContext(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	resp, err := h.service.ListCategories(c.Request.Context(), parseFilter(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
