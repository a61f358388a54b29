package appointment

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/middleware"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/model"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/service/appointment"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/httputil"
)

type Handler struct {
	service *appointment.Service
}

func NewHandler(service *appointment.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.CreateAppointment)
		appointments.GET("", h.ListAppointments)
		appointments.GET("/:id", h.GetAppointment)
		appointments.PUT("/:id", h.UpdateAppointment)
		appointments.DELETE("/:id", h.DeleteAppointment)
	}
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.CreateAppointmentRequest
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

func (h *Handler) ListAppointments(c *gin.Context) {
	filters := &model.AppointmentFilters{
		LocationID: middleware.LocationID(c),
		Status:     model.AppointmentStatus(c.Query("status")),
	}
	if v := c.Query("patient_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			httputil.BadRequest(c, "invalid patient id")
			return
		}
		filters.PatientID = id
	}
	if v := c.Query("start"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			httputil.BadRequest(c, "invalid start date")
			return
		}
		filters.StartDate = t
	}
	if v := c.Query("end"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			httputil.BadRequest(c, "invalid end date")
			return
		}
		filters.EndDate = t
	}

	appointments, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, appointments)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid appointment id")
		return
	}

	appt, err := h.service.Get(c.Request.Context(), middleware.LocationID(c), id)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, appt)
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid appointment id")
		return
	}

	var req model.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	updated, err := h.service.Update(c.Request.Context(), middleware.LocationID(c), id, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, updated)
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid appointment id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.LocationID(c), id); err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, nil)
}
