package diagnosis

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/middleware"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/model"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/service/diagnosis"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/httputil"
)

type Handler struct {
	service *diagnosis.Service
}

func NewHandler(service *diagnosis.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/patients/:id/diagnoses", h.GetPatientDiagnoses)
	r.PUT("/patients/:id/diagnoses", h.UpdatePatientDiagnoses)
	r.GET("/icd-codes", h.SearchCodes)
	r.GET("/treatment-plan-templates", h.ListTemplates)
}

func (h *Handler) GetPatientDiagnoses(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid patient id")
		return
	}

	diagnoses, err := h.service.GetPatientDiagnoses(c.Request.Context(), middleware.LocationID(c), patientID)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, diagnoses)
}

func (h *Handler) UpdatePatientDiagnoses(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid patient id")
		return
	}

	var req struct {
		Diagnoses []model.Diagnosis `json:"diagnoses" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	if err := h.service.UpdatePatientDiagnoses(c.Request.Context(), middleware.LocationID(c), patientID, req.Diagnoses); err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, req.Diagnoses)
}

func (h *Handler) SearchCodes(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))
	codes := h.service.SearchCodes(c.Query("q"), limit)
	httputil.OK(c, codes)
}

func (h *Handler) ListTemplates(c *gin.Context) {
	httputil.OK(c, h.service.Templates(c.Query("problem")))
}
