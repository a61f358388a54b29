package note

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/middleware"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/model"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/render"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/service/billing"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/service/note"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/service/patient"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/httputil"
)

type Handler struct {
	notes    *note.Service
	patients *patient.Service
	billing  *billing.Service
}

func NewHandler(notes *note.Service, patients *patient.Service, billingSvc *billing.Service) *Handler {
	return &Handler{notes: notes, patients: patients, billing: billingSvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients/:id")
	{
		patients.GET("/notes", h.ListNotes)
		patients.GET("/draft", h.GetDraft)
		patients.PUT("/draft", h.SaveDraft)
		patients.DELETE("/draft", h.DeleteDraft)
		patients.POST("/notes/sign", h.SignNote)
	}

	notes := r.Group("/notes")
	{
		notes.GET("/:noteId", h.GetNote)
		notes.DELETE("/:noteId", h.DeleteNote)
		notes.GET("/:noteId/render", h.RenderNote)
	}
}

func (h *Handler) ListNotes(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid patient id")
		return
	}

	filters := &model.NoteFilters{
		LocationID: middleware.LocationID(c),
		PatientID:  patientID,
		NoteType:   model.NoteType(c.Query("note_type")),
		Status:     model.NoteStatus(c.Query("status")),
	}
	notes, err := h.notes.List(c.Request.Context(), filters)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, notes)
}

func (h *Handler) GetDraft(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid patient id")
		return
	}

	draft, err := h.notes.GetDraft(c.Request.Context(), middleware.LocationID(c), patientID)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, draft)
}

func (h *Handler) SaveDraft(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid patient id")
		return
	}

	var req model.SaveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	draft, err := h.notes.SaveDraft(c.Request.Context(), middleware.LocationID(c), patientID, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, draft)
}

func (h *Handler) DeleteDraft(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid patient id")
		return
	}

	if err := h.notes.DeleteDraft(c.Request.Context(), middleware.LocationID(c), patientID); err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, nil)
}

func (h *Handler) SignNote(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid patient id")
		return
	}

	var req model.SignNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	signed, err := h.notes.Sign(c.Request.Context(), middleware.LocationID(c), patientID, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Created(c, signed)
}

func (h *Handler) GetNote(c *gin.Context) {
	noteID, err := uuid.Parse(c.Param("noteId"))
	if err != nil {
		httputil.BadRequest(c, "invalid note id")
		return
	}

	n, err := h.notes.Get(c.Request.Context(), middleware.LocationID(c), noteID)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, n)
}

func (h *Handler) DeleteNote(c *gin.Context) {
	noteID, err := uuid.Parse(c.Param("noteId"))
	if err != nil {
		httputil.BadRequest(c, "invalid note id")
		return
	}

	if err := h.notes.Delete(c.Request.Context(), middleware.LocationID(c), noteID); err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, nil)
}

// RenderNote produces a printable rendition of the note. The format
// query parameter selects text, html, or pdf.
func (h *Handler) RenderNote(c *gin.Context) {
	noteID, err := uuid.Parse(c.Param("noteId"))
	if err != nil {
		httputil.BadRequest(c, "invalid note id")
		return
	}
	locationID := middleware.LocationID(c)

	n, err := h.notes.Get(c.Request.Context(), locationID, noteID)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	p, err := h.patients.Get(c.Request.Context(), locationID, n.PatientID)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	practice, err := h.billing.GetPracticeInfo(c.Request.Context(), locationID)
	if err != nil {
		httputil.Error(c, err)
		return
	}

	doc := &render.NoteDocument{Practice: practice, Patient: p, Note: n}

	switch c.DefaultQuery("format", "text") {
	case "text":
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(render.Text(doc)))
	case "html":
		out, err := render.HTML(doc)
		if err != nil {
			httputil.Error(c, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", out)
	case "pdf":
		out, err := render.PDF(doc)
		if err != nil {
			httputil.Error(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="note-`+noteID.String()+`.pdf"`)
		c.Data(http.StatusOK, "application/pdf", out)
	default:
		httputil.BadRequest(c, "unknown format")
	}
}
