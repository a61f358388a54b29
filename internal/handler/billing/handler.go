package billing

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/middleware"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/model"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/service/billing"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/httputil"
)

type Handler struct {
	service *billing.Service
}

func NewHandler(service *billing.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	b := r.Group("/billing")
	{
		b.GET("/fee-schedule", h.ListFees)
		b.PUT("/fee-schedule", h.UpsertFee)
		b.GET("/fee-schedule/lookup/:cpt", h.LookupFee)
		b.DELETE("/fee-schedule/:id", h.DeleteFee)

		b.POST("/invoices", h.CreateInvoice)
		b.GET("/invoices/:id", h.GetInvoice)
		b.PUT("/invoices/:id", h.UpdateInvoice)

		b.GET("/payers", h.ListPayers)
		b.POST("/payers", h.CreatePayer)
		b.PUT("/payers/:id", h.UpdatePayer)
		b.DELETE("/payers/:id", h.DeletePayer)

		b.GET("/practice-info", h.GetPracticeInfo)
		b.PUT("/practice-info", h.UpdatePracticeInfo)
	}

	r.GET("/patients/:id/invoices", h.ListPatientInvoices)
}

func (h *Handler) ListFees(c *gin.Context) {
	fees, err := h.service.ListFees(c.Request.Context(), middleware.LocationID(c))
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, fees)
}

func (h *Handler) UpsertFee(c *gin.Context) {
	var req model.UpsertFeeScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	entry, err := h.service.UpsertFee(c.Request.Context(), middleware.LocationID(c), &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, entry)
}

func (h *Handler) LookupFee(c *gin.Context) {
	entry, err := h.service.FeeForCPT(c.Request.Context(), middleware.LocationID(c), c.Param("cpt"))
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, entry)
}

func (h *Handler) DeleteFee(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid fee schedule id")
		return
	}

	if err := h.service.DeleteFee(c.Request.Context(), middleware.LocationID(c), id); err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, nil)
}

func (h *Handler) CreateInvoice(c *gin.Context) {
	var req model.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.service.CreateInvoice(c.Request.Context(), middleware.LocationID(c), &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Created(c, invoice)
}

func (h *Handler) GetInvoice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid invoice id")
		return
	}

	invoice, err := h.service.GetInvoice(c.Request.Context(), middleware.LocationID(c), id)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, invoice)
}

func (h *Handler) UpdateInvoice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid invoice id")
		return
	}

	var req model.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.service.UpdateInvoice(c.Request.Context(), middleware.LocationID(c), id, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, invoice)
}

func (h *Handler) ListPatientInvoices(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid patient id")
		return
	}

	invoices, err := h.service.ListInvoices(c.Request.Context(), middleware.LocationID(c), patientID)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, invoices)
}

func (h *Handler) ListPayers(c *gin.Context) {
	payers, err := h.service.ListPayers(c.Request.Context(), middleware.LocationID(c))
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, payers)
}

func (h *Handler) CreatePayer(c *gin.Context) {
	var req model.UpsertPayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	payer, err := h.service.CreatePayer(c.Request.Context(), middleware.LocationID(c), &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Created(c, payer)
}

func (h *Handler) UpdatePayer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid payer id")
		return
	}

	var req model.UpsertPayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	payer, err := h.service.UpdatePayer(c.Request.Context(), middleware.LocationID(c), id, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, payer)
}

func (h *Handler) DeletePayer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid payer id")
		return
	}

	if err := h.service.DeletePayer(c.Request.Context(), middleware.LocationID(c), id); err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, nil)
}

func (h *Handler) GetPracticeInfo(c *gin.Context) {
	info, err := h.service.GetPracticeInfo(c.Request.Context(), middleware.LocationID(c))
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, info)
}

func (h *Handler) UpdatePracticeInfo(c *gin.Context) {
	var req model.UpdatePracticeInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	info, err := h.service.UpdatePracticeInfo(c.Request.Context(), middleware.LocationID(c), &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, info)
}
