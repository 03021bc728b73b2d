package handler

import (
	"github.com/gin-gonic/gin"

	apppayment "github.com/retailcore/backend/internal/application/payment"
	"github.com/retailcore/backend/internal/interfaces/http/middleware"
)

// PaymentHandler exposes payment groups and the flow history over HTTP.
type PaymentHandler struct {
	BaseHandler
	service *apppayment.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(service *apppayment.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// RegisterRoutes registers payment routes
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	groups := rg.Group("/payment-groups")
	{
		groups.GET("/:id", h.GetGroup)
		groups.POST("/:id/payments/:paymentId/pay", h.Pay)
		groups.POST("/:id/payments/:paymentId/cancel", h.CancelPayment)
	}
	rg.POST("/payments/flow-history", h.FlowHistory)
}

func (h *PaymentHandler) GetGroup(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid group id")
		return
	}
	resp, err := h.service.GetGroup(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *PaymentHandler) Pay(c *gin.Context) {
	groupID, ok := uuidParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid group id")
		return
	}
	paymentID, ok := uuidParam(c, "paymentId")
	if !ok {
		h.BadRequest(c, "invalid payment id")
		return
	}
	var req apppayment.PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.service.Pay(c.Request.Context(), middleware.GetRunContext(c), groupID, paymentID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *PaymentHandler) CancelPayment(c *gin.Context) {
	groupID, ok := uuidParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid group id")
		return
	}
	paymentID, ok := uuidParam(c, "paymentId")
	if !ok {
		h.BadRequest(c, "invalid payment id")
		return
	}
	resp, err := h.service.CancelPayment(c.Request.Context(), middleware.GetRunContext(c), groupID, paymentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *PaymentHandler) FlowHistory(c *gin.Context) {
	var req apppayment.FlowHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.service.FlowHistory(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
