package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/infrastructure/logger"
)

const runContextKey = "run_context"

const userIDHeader = "X-User-ID"

// RunContext builds the execution context every application operation
// receives. Branch and station identify the installation and come from
// configuration; the acting user comes from the X-User-ID header so an
// upstream authentication layer can inject it.
func RunContext(branchID, stationID uuid.UUID, params shared.Parameters, clock shared.Clock, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := uuid.Nil
		if raw := c.GetHeader(userIDHeader); raw != "" {
			if parsed, err := uuid.Parse(raw); err == nil {
				userID = parsed
			}
		}

		rc := shared.NewRunContext(branchID, stationID, userID, params, clock)
		c.Set(runContextKey, rc)

		ctx := c.Request.Context()
		ctx, log := logger.WithBranchID(ctx, log, branchID.String())
		ctx, log = logger.WithStationID(ctx, log, stationID.String())
		if userID != uuid.Nil {
			ctx, log = logger.WithUserID(ctx, log, userID.String())
		}
		ctx = logger.WithContext(ctx, log)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetRunContext extracts the run context installed by the RunContext
// middleware. Handlers call it instead of rebuilding the context themselves.
func GetRunContext(c *gin.Context) shared.RunContext {
	if v, ok := c.Get(runContextKey); ok {
		if rc, ok := v.(shared.RunContext); ok {
			return rc
		}
	}
	return shared.NewRunContext(uuid.Nil, uuid.Nil, uuid.Nil, shared.DefaultParameters(), shared.SystemClock{})
}
