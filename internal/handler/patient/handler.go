package patient

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/middleware"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/model"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/service/patient"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/httputil"
)

type Handler struct {
	service *patient.Service
}

func NewHandler(service *patient.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.POST("", h.CreatePatient)
		patients.GET("", h.ListPatients)
		patients.GET("/:id", h.GetPatient)
		patients.PUT("/:id", h.UpdatePatient)
		patients.DELETE("/:id", h.DeletePatient)

		patients.PUT("/:id/admin-notes", h.UpdateAdminNotes)
		patients.PUT("/:id/insurance", h.UpdateInsurance)

		patients.POST("/:id/files", h.UploadFile)
		patients.GET("/:id/files", h.ListFiles)
		patients.GET("/:id/files/:fileId", h.DownloadFile)
		patients.DELETE("/:id/files/:fileId", h.DeleteFile)
	}
}

func (h *Handler) CreatePatient(c *gin.Context) {
	var req model.CreatePatientRequest
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

func (h *Handler) ListPatients(c *gin.Context) {
	filters := &model.PatientFilters{
		LocationID: middleware.LocationID(c),
		Status:     model.PatientStatus(c.Query("status")),
		SearchTerm: c.Query("search"),
	}
	if err := c.ShouldBindQuery(&filters.Pagination); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	patients, total, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Paginated(c, patients, filters.Page, filters.PageSize, total)
}

func (h *Handler) GetPatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid patient id")
		return
	}

	p, err := h.service.Get(c.Request.Context(), middleware.LocationID(c), id)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, p)
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid patient id")
		return
	}

	var req model.UpdatePatientRequest
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

func (h *Handler) DeletePatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid patient id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.LocationID(c), id); err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, nil)
}

func (h *Handler) UpdateAdminNotes(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid patient id")
		return
	}

	var req struct {
		Notes string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	if err := h.service.UpdateAdminNotes(c.Request.Context(), middleware.LocationID(c), id, req.Notes); err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, nil)
}

func (h *Handler) UpdateInsurance(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid patient id")
		return
	}

	var req model.UpdateInsuranceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	updated, err := h.service.UpdateInsurance(c.Request.Context(), middleware.LocationID(c), id, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, updated)
}

func (h *Handler) UploadFile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid patient id")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		httputil.BadRequest(c, "file is required")
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		httputil.BadRequest(c, "failed to read file")
		return
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, patient.MaxFileSize+1))
	if err != nil {
		httputil.BadRequest(c, "failed to read file")
		return
	}

	stored, err := h.service.UploadFile(c.Request.Context(), middleware.LocationID(c), id,
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), content)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Created(c, stored)
}

func (h *Handler) ListFiles(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid patient id")
		return
	}

	files, err := h.service.ListFiles(c.Request.Context(), middleware.LocationID(c), id)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, files)
}

func (h *Handler) DownloadFile(c *gin.Context) {
	fileID, err := uuid.Parse(c.Param("fileId"))
	if err != nil {
		httputil.BadRequest(c, "invalid file id")
		return
	}

	file, err := h.service.GetFile(c.Request.Context(), middleware.LocationID(c), fileID)
	if err != nil {
		httputil.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.Name+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

func (h *Handler) DeleteFile(c *gin.Context) {
	fileID, err := uuid.Parse(c.Param("fileId"))
	if err != nil {
		httputil.BadRequest(c, "invalid file id")
		return
	}

	if err := h.service.DeleteFile(c.Request.Context(), middleware.LocationID(c), fileID); err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, nil)
}
