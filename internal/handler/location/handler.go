package location

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/middleware"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/model"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/service/location"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/httputil"
)

type Handler struct {
	service *location.Service
}

func NewHandler(service *location.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts location management. Creation and mutation are
// admin-only; listing is open to any authenticated user so the location
// picker can populate.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	locations := r.Group("/locations")
	{
		locations.GET("", h.ListLocations)
		locations.GET("/:id", h.GetLocation)
		locations.POST("", middleware.RequireAdmin(), h.CreateLocation)
		locations.PUT("/:id", middleware.RequireAdmin(), h.UpdateLocation)
	}
}

func (h *Handler) CreateLocation(c *gin.Context) {
	var req model.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	created, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Created(c, created)
}

func (h *Handler) ListLocations(c *gin.Context) {
	locations, err := h.service.List(c.Request.Context())
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, locations)
}

func (h *Handler) GetLocation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid location id")
		return
	}

	loc, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, loc)
}

func (h *Handler) UpdateLocation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid location id")
		return
	}

	var req model.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, updated)
}
