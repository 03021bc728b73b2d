package handler

import (
	"github.com/gin-gonic/gin"

	apptrade "github.com/retailcore/backend/internal/application/trade"
	"github.com/retailcore/backend/internal/interfaces/http/middleware"
)

// TradeHandler exposes sales, purchases and renegotiations over HTTP.
type TradeHandler struct {
	BaseHandler
	sales     *apptrade.SaleService
	purchases *apptrade.PurchaseService
	renegs    *apptrade.RenegotiationService
}

// NewTradeHandler creates a new TradeHandler
func NewTradeHandler(sales *apptrade.SaleService, purchases *apptrade.PurchaseService, renegs *apptrade.RenegotiationService) *TradeHandler {
	return &TradeHandler{sales: sales, purchases: purchases, renegs: renegs}
}

// RegisterRoutes registers trade routes
func (h *TradeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sales := rg.Group("/sales")
	{
		sales.POST("", h.CreateSale)
		sales.GET("/:id", h.GetSale)
		sales.POST("/:id/confirm", h.ConfirmSale)
		sales.POST("/:id/return", h.ReturnSale)
		sales.POST("/:id/cancel", h.CancelSale)
	}
	purchases := rg.Group("/purchases")
	{
		purchases.POST("", h.CreatePurchase)
		purchases.POST("/:id/confirm", h.ConfirmPurchase)
		purchases.POST("/:id/receive", h.ReceivePurchase)
	}
	renegs := rg.Group("/renegotiations")
	{
		renegs.POST("", h.Renegotiate)
		renegs.GET("/:id", h.GetRenegotiation)
	}
}

func (h *TradeHandler) CreateSale(c *gin.Context) {
	var req apptrade.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.sales.Create(c.Request.Context(), middleware.GetRunContext(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

func (h *TradeHandler) GetSale(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid sale id")
		return
	}
	resp, err := h.sales.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *TradeHandler) ConfirmSale(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid sale id")
		return
	}
	var req apptrade.ConfirmSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.sales.Confirm(c.Request.Context(), middleware.GetRunContext(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *TradeHandler) ReturnSale(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid sale id")
		return
	}
	var req apptrade.ReturnSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.sales.Return(c.Request.Context(), middleware.GetRunContext(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *TradeHandler) CancelSale(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid sale id")
		return
	}
	if err := h.sales.Cancel(c.Request.Context(), middleware.GetRunContext(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *TradeHandler) CreatePurchase(c *gin.Context) {
	var req apptrade.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.purchases.Create(c.Request.Context(), middleware.GetRunContext(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

func (h *TradeHandler) ConfirmPurchase(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid purchase id")
		return
	}
	resp, err := h.purchases.Confirm(c.Request.Context(), middleware.GetRunContext(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *TradeHandler) ReceivePurchase(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid purchase id")
		return
	}
	var req apptrade.ReceivePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.purchases.Receive(c.Request.Context(), middleware.GetRunContext(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *TradeHandler) Renegotiate(c *gin.Context) {
	var req apptrade.RenegotiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.renegs.Renegotiate(c.Request.Context(), middleware.GetRunContext(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

func (h *TradeHandler) GetRenegotiation(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid renegotiation id")
		return
	}
	resp, err := h.renegs.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
