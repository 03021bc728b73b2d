package handler

import (
	"github.com/gin-gonic/gin"

	appworkorder "github.com/retailcore/backend/internal/application/workorder"
	"github.com/retailcore/backend/internal/interfaces/http/middleware"
)

// WorkOrderHandler exposes service orders and production orders over HTTP.
type WorkOrderHandler struct {
	BaseHandler
	orders     *appworkorder.WorkOrderService
	production *appworkorder.ProductionService
}

// NewWorkOrderHandler creates a new WorkOrderHandler
func NewWorkOrderHandler(orders *appworkorder.WorkOrderService, production *appworkorder.ProductionService) *WorkOrderHandler {
	return &WorkOrderHandler{orders: orders, production: production}
}

// RegisterRoutes registers work order and production routes
func (h *WorkOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/work-orders")
	{
		orders.POST("", h.Create)
		orders.POST("/:id/items", h.AddItem)
		orders.POST("/:id/send-for-approval", h.SendForApproval)
		orders.POST("/:id/approve", h.Approve)
		orders.POST("/:id/finish", h.Finish)
		orders.POST("/:id/close", h.Close)
		orders.POST("/:id/cancel", h.Cancel)
	}
	production := rg.Group("/production-orders")
	{
		production.POST("", h.CreateProduction)
		production.POST("/:id/approve", h.ApproveProduction)
		production.POST("/:id/produce", h.Produce)
		production.POST("/:id/losses", h.Loss)
		production.POST("/:id/test-results", h.RecordTestResult)
		production.POST("/:id/close", h.CloseProduction)
	}
}

func (h *WorkOrderHandler) Create(c *gin.Context) {
	var req appworkorder.CreateWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.orders.Create(c.Request.Context(), middleware.GetRunContext(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

func (h *WorkOrderHandler) AddItem(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid work order id")
		return
	}
	var req appworkorder.WorkOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.orders.AddItem(c.Request.Context(), middleware.GetRunContext(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *WorkOrderHandler) SendForApproval(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid work order id")
		return
	}
	var req appworkorder.SendForApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.orders.SendForApproval(c.Request.Context(), middleware.GetRunContext(c), id, req.Notes)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *WorkOrderHandler) Approve(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid work order id")
		return
	}
	var req appworkorder.ApproveWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.orders.Approve(c.Request.Context(), middleware.GetRunContext(c), id, req.ExecutorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *WorkOrderHandler) Finish(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid work order id")
		return
	}
	var req appworkorder.FinishWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.orders.Finish(c.Request.Context(), middleware.GetRunContext(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *WorkOrderHandler) Close(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid work order id")
		return
	}
	resp, err := h.orders.Close(c.Request.Context(), middleware.GetRunContext(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *WorkOrderHandler) Cancel(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid work order id")
		return
	}
	var req appworkorder.CancelWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.orders.Cancel(c.Request.Context(), middleware.GetRunContext(c), id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *WorkOrderHandler) CreateProduction(c *gin.Context) {
	var req appworkorder.CreateProductionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.production.Create(c.Request.Context(), middleware.GetRunContext(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

func (h *WorkOrderHandler) ApproveProduction(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid production order id")
		return
	}
	resp, err := h.production.Approve(c.Request.Context(), middleware.GetRunContext(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *WorkOrderHandler) Produce(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid production order id")
		return
	}
	var req appworkorder.ProductionQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.production.Produce(c.Request.Context(), middleware.GetRunContext(c), id, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *WorkOrderHandler) Loss(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid production order id")
		return
	}
	var req appworkorder.ProductionQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.production.Loss(c.Request.Context(), middleware.GetRunContext(c), id, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *WorkOrderHandler) RecordTestResult(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid production order id")
		return
	}
	var req appworkorder.TestResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.production.RecordTestResult(c.Request.Context(), middleware.GetRunContext(c), id,
		req.TestID, req.ItemSeq, req.BoolResult, req.DecimalResult)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *WorkOrderHandler) CloseProduction(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid production order id")
		return
	}
	resp, err := h.production.Close(c.Request.Context(), middleware.GetRunContext(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
