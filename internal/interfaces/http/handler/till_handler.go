package handler

import (
	"github.com/gin-gonic/gin"

	apppayment "github.com/retailcore/backend/internal/application/payment"
	"github.com/retailcore/backend/internal/interfaces/http/middleware"
)

// TillHandler exposes the station till lifecycle over HTTP. The till acted
// on is always the one of the station identified by the run context.
type TillHandler struct {
	BaseHandler
	service *apppayment.TillService
}

// NewTillHandler creates a new TillHandler
func NewTillHandler(service *apppayment.TillService) *TillHandler {
	return &TillHandler{service: service}
}

// RegisterRoutes registers till routes
func (h *TillHandler) RegisterRoutes(rg *gin.RouterGroup) {
	till := rg.Group("/till")
	{
		till.POST("/open", h.Open)
		till.GET("/current", h.Current)
		till.POST("/credits", h.AddCredit)
		till.POST("/debits", h.AddDebit)
		till.POST("/close", h.Close)
	}
}

func (h *TillHandler) Open(c *gin.Context) {
	var req apppayment.OpenTillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.service.Open(c.Request.Context(), middleware.GetRunContext(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

func (h *TillHandler) Current(c *gin.Context) {
	resp, err := h.service.Current(c.Request.Context(), middleware.GetRunContext(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *TillHandler) AddCredit(c *gin.Context) {
	var req apppayment.TillMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if err := h.service.AddCredit(c.Request.Context(), middleware.GetRunContext(c), req.Description, req.Value, req.PaymentID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *TillHandler) AddDebit(c *gin.Context) {
	var req apppayment.TillMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if err := h.service.AddDebit(c.Request.Context(), middleware.GetRunContext(c), req.Description, req.Value, req.PaymentID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *TillHandler) Close(c *gin.Context) {
	var req apppayment.CloseTillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.service.Close(c.Request.Context(), middleware.GetRunContext(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
