package timeline

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/middleware"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/service/timeline"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/httputil"
)

type Handler struct {
	service *timeline.Service
}

func NewHandler(service *timeline.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/patients/:id/timeline", h.GetTimeline)
}

// GetTimeline returns the merged visit timeline. The range query
// parameter picks a preset window; custom ranges pass explicit
// start/end dates.
func (h *Handler) GetTimeline(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid patient id")
		return
	}

	var start, end time.Time
	if v := c.Query("start"); v != "" {
		if start, err = time.Parse("2006-01-02", v); err != nil {
			httputil.BadRequest(c, "invalid start date")
			return
		}
	}
	if v := c.Query("end"); v != "" {
		if end, err = time.Parse("2006-01-02", v); err != nil {
			httputil.BadRequest(c, "invalid end date")
			return
		}
		// Make the end bound inclusive of the whole day.
		end = end.Add(24*time.Hour - time.Nanosecond)
	}

	window, err := timeline.ResolveRange(c.Query("range"), start, end, time.Now())
	if err != nil {
		httputil.Error(c, err)
		return
	}

	entries, err := h.service.Build(c.Request.Context(), middleware.LocationID(c), patientID, window)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, entries)
}
