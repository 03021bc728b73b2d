package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appfiscal "github.com/retailcore/backend/internal/application/fiscal"
	"github.com/retailcore/backend/internal/domain/fiscal"
	"github.com/retailcore/backend/internal/interfaces/http/middleware"
)

// FiscalHandler exposes the fiscal book and the CFOP registry over HTTP.
type FiscalHandler struct {
	BaseHandler
	service *appfiscal.BookService
}

// NewFiscalHandler creates a new FiscalHandler
func NewFiscalHandler(service *appfiscal.BookService) *FiscalHandler {
	return &FiscalHandler{service: service}
}

// RegisterRoutes registers fiscal routes
func (h *FiscalHandler) RegisterRoutes(rg *gin.RouterGroup) {
	book := rg.Group("/fiscal")
	{
		book.POST("/entries", h.AddEntry)
		book.POST("/entries/:id/reverse", h.ReverseEntry)
		book.GET("/entries", h.ListEntries)
		book.GET("/groups/:id/entries", h.EntriesByGroup)
		book.POST("/cfops", h.RegisterCFOP)
		book.GET("/cfops/:code", h.GetCFOP)
	}
}

func (h *FiscalHandler) AddEntry(c *gin.Context) {
	var req appfiscal.AddEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.service.AddEntry(c.Request.Context(), middleware.GetRunContext(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

func (h *FiscalHandler) ReverseEntry(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid entry id")
		return
	}
	resp, err := h.service.ReverseEntry(c.Request.Context(), middleware.GetRunContext(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListEntries queries one book for a period. Book, from and to are
// required query parameters; the branch defaults to the station's own.
func (h *FiscalHandler) ListEntries(c *gin.Context) {
	book := fiscal.BookType(c.Query("book"))
	from, errFrom := time.Parse(time.RFC3339, c.Query("from"))
	to, errTo := time.Parse(time.RFC3339, c.Query("to"))
	if errFrom != nil || errTo != nil {
		h.BadRequest(c, "from and to must be RFC 3339 timestamps")
		return
	}
	rc := middleware.GetRunContext(c)
	branchID := rc.BranchID
	if raw := c.Query("branch_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "invalid branch id")
			return
		}
		branchID = parsed
	}
	resp, err := h.service.EntriesByPeriod(c.Request.Context(), book, branchID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *FiscalHandler) EntriesByGroup(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid group id")
		return
	}
	resp, err := h.service.EntriesByGroup(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *FiscalHandler) RegisterCFOP(c *gin.Context) {
	var req appfiscal.RegisterCFOPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.service.RegisterCFOP(c.Request.Context(), middleware.GetRunContext(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

func (h *FiscalHandler) GetCFOP(c *gin.Context) {
	resp, err := h.service.GetCFOP(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
