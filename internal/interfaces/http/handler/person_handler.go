package handler

import (
	"github.com/gin-gonic/gin"

	appparty "github.com/retailcore/backend/internal/application/party"
	"github.com/retailcore/backend/internal/domain/party"
	"github.com/retailcore/backend/internal/interfaces/http/middleware"
)

// PersonHandler exposes the party registry over HTTP.
type PersonHandler struct {
	BaseHandler
	service *appparty.PersonService
}

// NewPersonHandler creates a new PersonHandler
func NewPersonHandler(service *appparty.PersonService) *PersonHandler {
	return &PersonHandler{service: service}
}

// RegisterRoutes registers person routes
func (h *PersonHandler) RegisterRoutes(rg *gin.RouterGroup) {
	persons := rg.Group("/persons")
	{
		persons.POST("", h.Create)
		persons.GET("", h.List)
		persons.GET("/:id", h.Get)
		persons.PATCH("/:id", h.Update)
		persons.DELETE("/:id", h.Delete)
		persons.POST("/:id/facets", h.AttachFacet)
		persons.DELETE("/:id/facets/:kind", h.RemoveFacet)
		persons.PUT("/:id/client-status", h.SetClientStatus)
		persons.POST("/:id/addresses", h.AddAddress)
	}
}

func (h *PersonHandler) Create(c *gin.Context) {
	var req appparty.CreatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.service.CreatePerson(c.Request.Context(), middleware.GetRunContext(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

func (h *PersonHandler) List(c *gin.Context) {
	filter := party.PersonFilter{Filter: parseFilter(c)}
	if raw := c.Query("facet"); raw != "" {
		kind := party.FacetKind(raw)
		if !kind.IsValid() {
			h.BadRequest(c, "unknown facet kind")
			return
		}
		filter.Facet = &kind
	}
	if raw := c.Query("client_status"); raw != "" {
		status := party.ClientStatus(raw)
		if !status.IsValid() {
			h.BadRequest(c, "unknown client status")
			return
		}
		filter.ClientStatus = &status
	}
	resp, err := h.service.ListPersons(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *PersonHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid person id")
		return
	}
	resp, err := h.service.GetPerson(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *PersonHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid person id")
		return
	}
	var req appparty.UpdatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.service.UpdatePerson(c.Request.Context(), middleware.GetRunContext(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *PersonHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid person id")
		return
	}
	if err := h.service.DeletePerson(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *PersonHandler) AttachFacet(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid person id")
		return
	}
	var req appparty.AttachFacetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.service.AttachFacet(c.Request.Context(), middleware.GetRunContext(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

func (h *PersonHandler) RemoveFacet(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid person id")
		return
	}
	kind := party.FacetKind(c.Param("kind"))
	if !kind.IsValid() {
		h.BadRequest(c, "unknown facet kind")
		return
	}
	resp, err := h.service.RemoveFacet(c.Request.Context(), middleware.GetRunContext(c), id, kind)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *PersonHandler) SetClientStatus(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid person id")
		return
	}
	var req appparty.SetClientStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.service.SetClientStatus(c.Request.Context(), middleware.GetRunContext(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *PersonHandler) AddAddress(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid person id")
		return
	}
	var req appparty.AddAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.service.AddAddress(c.Request.Context(), middleware.GetRunContext(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}
