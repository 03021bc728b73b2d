package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	appsync "github.com/retailcore/backend/internal/application/sync"
	"github.com/retailcore/backend/internal/domain/shared"
	domainsync "github.com/retailcore/backend/internal/domain/sync"
	syncinfra "github.com/retailcore/backend/internal/infrastructure/sync"
	"github.com/retailcore/backend/internal/interfaces/http/middleware"
)

// SyncHandler exposes the replication link: the batch intake endpoint the
// peer posts to, and the watermark status view.
type SyncHandler struct {
	BaseHandler
	coordinator *appsync.Coordinator
	destination domainsync.Destination
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(coordinator *appsync.Coordinator, destination domainsync.Destination) *SyncHandler {
	return &SyncHandler{coordinator: coordinator, destination: destination}
}

// RegisterRoutes registers sync routes
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sync := rg.Group("/sync")
	{
		sync.GET("/status", h.Status)
		sync.POST("/batches", h.ApplyBatch)
	}
}

// Status reports the per-policy watermarks of this branch.
func (h *SyncHandler) Status(c *gin.Context) {
	rc := middleware.GetRunContext(c)
	states, err := h.coordinator.Status(c.Request.Context(), rc.BranchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, states)
}

// ApplyBatch ingests one framed batch from the peer and answers with the
// apply counters. The body is the length-framed wire format, not JSON, so
// the response is the bare ApplyResult the peer's transport expects.
func (h *SyncHandler) ApplyBatch(c *gin.Context) {
	batch, err := syncinfra.DecodeBatch(c.Request.Body)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	result, err := h.destination.Apply(c.Request.Context(), batch)
	if err != nil {
		if errors.Is(err, shared.ErrApplyFailure) {
			h.HandleError(c, err)
			return
		}
		h.Error(c, http.StatusInternalServerError, "ERR_INTERNAL", "Internal server error")
		return
	}
	c.JSON(http.StatusOK, result)
}
