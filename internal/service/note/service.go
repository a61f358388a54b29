package note

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/model"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/repository"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/repository/postgres"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/service/audit"
	apperrors "github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/errors"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/logger"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/metrics"
)

// Service owns the clinical note lifecycle: a patient has at most one
// draft, a draft can be saved any number of times, and signing replaces
// the draft with an immutable signed note.
type Service struct {
	notes    repository.NoteRepository
	patients repository.PatientRepository
	outbox   repository.OutboxRepository
	auditor  *audit.Service
	metrics  *metrics.Metrics
	logger   *logger.Logger
}

func NewService(
	notes repository.NoteRepository,
	patients repository.PatientRepository,
	outbox repository.OutboxRepository,
	auditor *audit.Service,
	m *metrics.Metrics,
	log *logger.Logger,
) *Service {
	return &Service{
		notes:    notes,
		patients: patients,
		outbox:   outbox,
		auditor:  auditor,
		metrics:  m,
		logger:   log.WithComponent("note"),
	}
}

func (s *Service) Get(ctx context.Context, locationID, id uuid.UUID) (*model.ProgressNote, error) {
	note, err := s.notes.Get(ctx, locationID, id)
	if errors.Is(err, postgres.ErrNotFound) {
		return nil, apperrors.NotFound("note", err)
	}
	if err != nil {
		return nil, err
	}
	s.auditor.Log(ctx, model.AuditActionRead, model.AuditEntityNote, id, nil)
	return note, nil
}

func (s *Service) List(ctx context.Context, filters *model.NoteFilters) ([]*model.ProgressNote, error) {
	return s.notes.List(ctx, filters)
}

// Delete removes an unsigned note. Signed notes are part of the legal
// record and can never be deleted.
func (s *Service) Delete(ctx context.Context, locationID, id uuid.UUID) error {
	note, err := s.notes.Get(ctx, locationID, id)
	if errors.Is(err, postgres.ErrNotFound) {
		return apperrors.NotFound("note", err)
	}
	if err != nil {
		return err
	}
	if note.IsSigned() {
		return apperrors.Forbidden("signed notes cannot be deleted")
	}
	if err := s.notes.Delete(ctx, locationID, id); err != nil {
		return err
	}
	s.auditor.Log(ctx, model.AuditActionDelete, model.AuditEntityNote, id, nil)
	return nil
}

// GetDraft returns the patient's current draft, or a not-found error when
// the slot is empty.
func (s *Service) GetDraft(ctx context.Context, locationID, patientID uuid.UUID) (*model.ProgressNote, error) {
	draft, err := s.notes.GetDraft(ctx, locationID, patientID)
	if errors.Is(err, postgres.ErrNotFound) {
		return nil, apperrors.NotFound("draft", err)
	}
	return draft, err
}

// SaveDraft writes the patient's draft slot. Saves are last-write-wins;
// a repeated save keeps the draft's original created_at.
func (s *Service) SaveDraft(ctx context.Context, locationID, patientID uuid.UUID, req *model.SaveDraftRequest) (*model.ProgressNote, error) {
	note, err := s.buildNote(ctx, locationID, patientID, req)
	if err != nil {
		return nil, err
	}
	note.Status = model.NoteStatusDraft

	if err := s.notes.UpsertDraft(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}

	s.auditor.Log(ctx, model.AuditActionUpdate, model.AuditEntityNote, note.ID, &audit.LogOptions{
		Metadata: map[string]interface{}{"status": model.NoteStatusDraft, "note_style": req.NoteStyle},
	})
	return note, nil
}

func (s *Service) DeleteDraft(ctx context.Context, locationID, patientID uuid.UUID) error {
	err := s.notes.DeleteDraft(ctx, locationID, patientID)
	if errors.Is(err, postgres.ErrNotFound) {
		return apperrors.NotFound("draft", err)
	}
	if err != nil {
		return err
	}
	s.auditor.Log(ctx, model.AuditActionDelete, model.AuditEntityNote, patientID, &audit.LogOptions{
		Metadata: map[string]interface{}{"draft": true},
	})
	return nil
}

// Sign finalizes the note. Every section of the note's style must be
// filled and a typed signature name supplied; on success the draft slot
// is cleared in the same transaction that persists the signed note.
func (s *Service) Sign(ctx context.Context, locationID, patientID uuid.UUID, req *model.SignNoteRequest) (*model.ProgressNote, error) {
	if strings.TrimSpace(req.SignatureName) == "" {
		return nil, apperrors.Validation("signature name is required", nil)
	}
	if missing := MissingSections(req.NoteStyle, req.Fields); len(missing) > 0 {
		return nil, apperrors.Validation(
			fmt.Sprintf("required sections missing: %s", strings.Join(missing, ", ")), nil)
	}

	note, err := s.buildNote(ctx, locationID, patientID, &req.SaveDraftRequest)
	if err != nil {
		return nil, err
	}

	// Carry the draft's created_at through to the signed note when one
	// exists, so repeated draft saves before signing do not shift the
	// visit date fallback.
	if draft, err := s.notes.GetDraft(ctx, locationID, patientID); err == nil {
		note.CreatedAt = draft.CreatedAt
	} else if !errors.Is(err, postgres.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	signedBy := strings.TrimSpace(req.SignatureName)
	signerIP := "Unknown"
	if sess := model.SessionFromContext(ctx); sess != nil && sess.IPAddress != "" {
		signerIP = sess.IPAddress
	}

	note.Status = model.NoteStatusSigned
	note.SignedBy = &signedBy
	note.SignedAt = &now
	note.SignerIP = &signerIP

	if err := s.notes.Sign(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to sign note: %w", err)
	}
	s.metrics.NotesSigned.Inc()

	s.publishSigned(ctx, note)
	s.auditor.Log(ctx, model.AuditActionSign, model.AuditEntityNote, note.ID, &audit.LogOptions{
		Metadata: map[string]interface{}{
			"patient_id": patientID,
			"note_style": note.NoteStyle,
			"signed_by":  signedBy,
		},
	})
	return note, nil
}

// buildNote validates the request and constructs the note row, including
// the assembled flat content.
func (s *Service) buildNote(ctx context.Context, locationID, patientID uuid.UUID, req *model.SaveDraftRequest) (*model.ProgressNote, error) {
	if !req.NoteType.Valid() {
		return nil, apperrors.Validation("unknown note type", nil)
	}
	if !req.NoteStyle.Valid() {
		return nil, apperrors.Validation("unknown note style", nil)
	}

	if _, err := s.patients.Get(ctx, locationID, patientID); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, err
	}

	sess := model.SessionFromContext(ctx)
	if sess == nil {
		return nil, apperrors.Unauthorized(errors.New("no session in context"))
	}

	fields := req.Fields
	if fields == nil {
		fields = map[string]string{}
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to encode note fields: %w", err)
	}

	note := &model.ProgressNote{
		LocationID:    locationID,
		PatientID:     patientID,
		ClinicianID:   sess.UserID,
		AppointmentID: req.AppointmentID,
		NoteType:      req.NoteType,
		NoteStyle:     req.NoteStyle,
		Fields:        raw,
		Content:       Compose(req.NoteStyle, fields),
		SessionDate:   req.SessionDate,
		DateOfService: req.DateOfService,
		TimeOfService: req.TimeOfService,
		DurationMins:  req.DurationMins,
		CPTCode:       req.CPTCode,
		Diagnosis:     req.Diagnosis,
	}
	note.ID = uuid.New()
	return note, nil
}

func (s *Service) publishSigned(ctx context.Context, note *model.ProgressNote) {
	payload, err := json.Marshal(map[string]interface{}{
		"note_id":     note.ID,
		"patient_id":  note.PatientID,
		"location_id": note.LocationID,
		"note_style":  note.NoteStyle,
		"cpt_code":    note.CPTCode,
		"signed_at":   note.SignedAt,
	})
	if err != nil {
		s.logger.Error(err, "failed to encode note signed event", "note_id", note.ID.String())
		return
	}
	event := &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: model.EventNoteSigned,
		Payload:   payload,
		Status:    model.OutboxStatusPending,
	}
	if err := s.outbox.Create(ctx, event); err != nil {
		s.logger.Error(err, "failed to enqueue note signed event", "note_id", note.ID.String())
	}
}
