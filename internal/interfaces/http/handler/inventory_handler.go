package handler

import (
	"github.com/gin-gonic/gin"

	appinventory "github.com/retailcore/backend/internal/application/inventory"
	"github.com/retailcore/backend/internal/interfaces/http/middleware"
)

// InventoryHandler exposes stock balances and movements over HTTP.
type InventoryHandler struct {
	BaseHandler
	service *appinventory.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(service *appinventory.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

// RegisterRoutes registers inventory routes. Stock is addressed by the
// sellable it belongs to.
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	stock := rg.Group("/sellables/:id/stock")
	{
		stock.GET("", h.GetStock)
		stock.GET("/ledger", h.GetLedger)
		stock.POST("/receive", h.Register)
		stock.POST("/adjust", h.Adjust)
		stock.POST("/transfer", h.Transfer)
	}
}

func (h *InventoryHandler) GetStock(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid sellable id")
		return
	}
	resp, err := h.service.GetStock(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *InventoryHandler) GetLedger(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid sellable id")
		return
	}
	resp, err := h.service.GetLedger(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *InventoryHandler) Register(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid sellable id")
		return
	}
	var req appinventory.RegisterStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.service.RegisterStock(c.Request.Context(), middleware.GetRunContext(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *InventoryHandler) Adjust(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid sellable id")
		return
	}
	var req appinventory.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.service.AdjustStock(c.Request.Context(), middleware.GetRunContext(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *InventoryHandler) Transfer(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid sellable id")
		return
	}
	var req appinventory.TransferStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.service.TransferStock(c.Request.Context(), middleware.GetRunContext(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
