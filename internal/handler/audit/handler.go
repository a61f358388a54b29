package audit

import (
	"encoding/csv"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/middleware"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/model"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/service/audit"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/httputil"
)

type Handler struct {
	service *audit.Service
}

func NewHandler(service *audit.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	logs := r.Group("/audit-logs")
	{
		logs.GET("", h.ListLogs)
		logs.GET("/stats", h.GetStats)
		logs.GET("/export", h.ExportCSV)
	}
}

func (h *Handler) parseFilters(c *gin.Context) (*model.AuditFilters, bool) {
	filters := &model.AuditFilters{
		LocationID: middleware.LocationID(c),
		EntityType: c.Query("entity_type"),
		Action:     c.Query("action"),
	}
	if v := c.Query("user_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			httputil.BadRequest(c, "invalid user id")
			return nil, false
		}
		filters.UserID = id
	}
	if v := c.Query("entity_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			httputil.BadRequest(c, "invalid entity id")
			return nil, false
		}
		filters.EntityID = id
	}
	if v := c.Query("start"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			httputil.BadRequest(c, "invalid start date")
			return nil, false
		}
		filters.StartDate = t
	}
	if v := c.Query("end"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			httputil.BadRequest(c, "invalid end date")
			return nil, false
		}
		filters.EndDate = t.Add(24*time.Hour - time.Nanosecond)
	}
	if err := c.ShouldBindQuery(&filters.Pagination); err != nil {
		httputil.BadRequest(c, err.Error())
		return nil, false
	}
	filters.Normalize()
	return filters, true
}

func (h *Handler) ListLogs(c *gin.Context) {
	filters, ok := h.parseFilters(c)
	if !ok {
		return
	}

	logs, total, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Paginated(c, logs, filters.Page, filters.PageSize, total)
}

func (h *Handler) GetStats(c *gin.Context) {
	filters, ok := h.parseFilters(c)
	if !ok {
		return
	}

	stats, err := h.service.GetAggregateStats(c.Request.Context(), filters)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, stats)
}

// ExportCSV streams the filtered logs as a CSV download. Pagination is
// widened so an export covers the whole filtered window.
func (h *Handler) ExportCSV(c *gin.Context) {
	filters, ok := h.parseFilters(c)
	if !ok {
		return
	}
	filters.Page = 1
	filters.PageSize = 200

	c.Header("Content-Disposition", `attachment; filename="audit-logs.csv"`)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	defer w.Flush()

	if err := w.Write([]string{
		"id", "created_at", "user_id", "action",
		"entity_type", "entity_id", "ip_address", "user_agent",
	}); err != nil {
		return
	}

	for {
		logs, _, err := h.service.List(c.Request.Context(), filters)
		if err != nil {
			return
		}
		for _, entry := range logs {
			if err := w.Write([]string{
				entry.ID.String(),
				entry.CreatedAt.Format(time.RFC3339),
				entry.UserID.String(),
				entry.Action,
				entry.EntityType,
				entry.EntityID.String(),
				entry.IPAddress,
				entry.UserAgent,
			}); err != nil {
				return
			}
		}
		if len(logs) < filters.PageSize {
			return
		}
		filters.Page++
	}
}
