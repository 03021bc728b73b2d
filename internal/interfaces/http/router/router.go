package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar is implemented by every handler that mounts routes on the
// versioned API group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router assembles the gin engine from registered handlers.
type Router struct {
	engine     *gin.Engine
	registrars []RouteRegistrar
}

// New creates a router around an already configured gin engine.
func New(engine *gin.Engine) *Router {
	return &Router{engine: engine}
}

// Register queues registrars for mounting. It returns the router so calls
// can be chained.
func (r *Router) Register(registrars ...RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrars...)
	return r
}

// Setup mounts every registered handler under /api/<version> and returns
// the engine.
func (r *Router) Setup(version string) *gin.Engine {
	api := r.engine.Group("/api/" + version)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
	return r.engine
}
