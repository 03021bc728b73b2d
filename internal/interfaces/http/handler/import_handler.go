package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/retailcore/backend/internal/application/importer"
	"github.com/retailcore/backend/internal/interfaces/http/middleware"
)

// ImportHandler accepts CSV uploads for bulk loading. The request body
// is the raw CSV stream; a multipart form with a "file" part works too.
type ImportHandler struct {
	BaseHandler
	persons   *importer.PersonImporter
	sellables *importer.SellableImporter
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(persons *importer.PersonImporter, sellables *importer.SellableImporter) *ImportHandler {
	return &ImportHandler{persons: persons, sellables: sellables}
}

// RegisterRoutes registers import routes
func (h *ImportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	imports := rg.Group("/imports")
	{
		imports.POST("/persons", h.ImportPersons)
		imports.POST("/sellables", h.ImportSellables)
	}
}

func (h *ImportHandler) ImportPersons(c *gin.Context) {
	src, cleanup, ok := h.csvStream(c)
	if !ok {
		return
	}
	defer cleanup()

	rc := middleware.GetRunContext(c)
	report, err := h.persons.Import(c.Request.Context(), rc, src)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

func (h *ImportHandler) ImportSellables(c *gin.Context) {
	src, cleanup, ok := h.csvStream(c)
	if !ok {
		return
	}
	defer cleanup()

	rc := middleware.GetRunContext(c)
	report, err := h.sellables.Import(c.Request.Context(), rc, src)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

func (h *ImportHandler) csvStream(c *gin.Context) (io.Reader, func(), bool) {
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			h.BadRequest(c, "cannot read uploaded file")
			return nil, nil, false
		}
		return f, func() { f.Close() }, true
	}
	return c.Request.Body, func() {}, true
}
