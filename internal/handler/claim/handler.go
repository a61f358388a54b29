package claim

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/middleware"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/model"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/service/claim"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/httputil"
)

type Handler struct {
	service *claim.Service
}

func NewHandler(service *claim.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	claims := r.Group("/claims")
	{
		claims.POST("", h.CreateClaim)
		claims.GET("", h.ListClaims)
		claims.GET("/:id", h.GetClaim)
		claims.POST("/:id/submit", h.SubmitClaim)
		claims.PUT("/:id/status", h.UpdateStatus)
	}
}

func (h *Handler) CreateClaim(c *gin.Context) {
	var req model.CreateClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	created, err := h.service.Create(c.Request.Context(), middleware.LocationID(c), &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Created(c, created)
}

func (h *Handler) ListClaims(c *gin.Context) {
	filters := &model.ClaimFilters{
		LocationID: middleware.LocationID(c),
		Status:     model.ClaimStatus(c.Query("status")),
	}
	if v := c.Query("patient_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			httputil.BadRequest(c, "invalid patient id")
			return
		}
		filters.PatientID = id
	}
	if err := c.ShouldBindQuery(&filters.Pagination); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	claims, total, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Paginated(c, claims, filters.Page, filters.PageSize, total)
}

func (h *Handler) GetClaim(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid claim id")
		return
	}

	cl, err := h.service.Get(c.Request.Context(), middleware.LocationID(c), id)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, cl)
}

func (h *Handler) SubmitClaim(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid claim id")
		return
	}

	cl, err := h.service.Submit(c.Request.Context(), middleware.LocationID(c), id)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, cl)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid claim id")
		return
	}

	var req model.UpdateClaimStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	cl, err := h.service.UpdateStatus(c.Request.Context(), middleware.LocationID(c), id, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, cl)
}
