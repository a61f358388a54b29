package claim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/email"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/model"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/repository"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/repository/postgres"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/service/audit"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/service/billing"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/service/diagnosis"
	apperrors "github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/errors"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/logger"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/metrics"
)

// Service builds insurance claims from signed notes and walks them
// through the submission status machine.
type Service struct {
	claims  repository.ClaimRepository
	notes   repository.NoteRepository
	outbox  repository.OutboxRepository
	billing *billing.Service
	auditor *audit.Service
	mailer  email.Sender
	metrics *metrics.Metrics
	logger  *logger.Logger
}

func NewService(
	claims repository.ClaimRepository,
	notes repository.NoteRepository,
	outbox repository.OutboxRepository,
	billingSvc *billing.Service,
	auditor *audit.Service,
	mailer email.Sender,
	m *metrics.Metrics,
	log *logger.Logger,
) *Service {
	return &Service{
		claims:  claims,
		notes:   notes,
		outbox:  outbox,
		billing: billingSvc,
		auditor: auditor,
		mailer:  mailer,
		metrics: m,
		logger:  log.WithComponent("claim"),
	}
}

// Create builds a pending claim from a signed note: the CPT code comes
// from the note, the diagnosis codes from the note's diagnosis lines,
// and the charge from the location's fee schedule.
func (s *Service) Create(ctx context.Context, locationID uuid.UUID, req *model.CreateClaimRequest) (*model.Claim, error) {
	note, err := s.notes.Get(ctx, locationID, req.NoteID)
	if errors.Is(err, postgres.ErrNotFound) {
		return nil, apperrors.NotFound("note", err)
	}
	if err != nil {
		return nil, err
	}
	if !note.IsSigned() {
		return nil, apperrors.Validation("claims can only be built from signed notes", nil)
	}
	if note.CPTCode == "" {
		return nil, apperrors.Validation("note has no CPT code", nil)
	}

	diagnoses := diagnosis.Parse(note.Diagnosis)
	if len(diagnoses) == 0 {
		return nil, apperrors.Validation("note has no diagnosis codes", nil)
	}
	icdCodes := make([]string, 0, len(diagnoses))
	for _, d := range diagnoses {
		icdCodes = append(icdCodes, d.Code)
	}

	fee, err := s.billing.FeeForCPT(ctx, locationID, note.CPTCode)
	if err != nil {
		return nil, err
	}

	if req.PayerID != nil {
		if _, err := s.billing.GetPayer(ctx, locationID, *req.PayerID); err != nil {
			return nil, err
		}
	}

	claim := &model.Claim{
		LocationID:  locationID,
		PatientID:   note.PatientID,
		NoteID:      note.ID,
		PayerID:     req.PayerID,
		CPTCode:     note.CPTCode,
		ICDCodes:    icdCodes,
		ChargeCents: fee.ChargeCents,
		Status:      model.ClaimStatusPending,
	}
	claim.ID = uuid.New()

	if err := s.claims.Create(ctx, claim); err != nil {
		return nil, fmt.Errorf("failed to create claim: %w", err)
	}

	s.auditor.Log(ctx, model.AuditActionCreate, model.AuditEntityClaim, claim.ID, &audit.LogOptions{
		Metadata: map[string]interface{}{"note_id": note.ID, "cpt_code": note.CPTCode},
	})
	return claim, nil
}

func (s *Service) Get(ctx context.Context, locationID, id uuid.UUID) (*model.Claim, error) {
	claim, err := s.claims.Get(ctx, locationID, id)
	if errors.Is(err, postgres.ErrNotFound) {
		return nil, apperrors.NotFound("claim", err)
	}
	return claim, err
}

func (s *Service) List(ctx context.Context, filters *model.ClaimFilters) ([]*model.Claim, int64, error) {
	filters.Normalize()
	return s.claims.List(ctx, filters)
}

// Submit moves a pending or rejected claim into submitted and records
// the submission time.
func (s *Service) Submit(ctx context.Context, locationID, id uuid.UUID) (*model.Claim, error) {
	return s.transition(ctx, locationID, id, &model.UpdateClaimStatusRequest{
		Status: model.ClaimStatusSubmitted,
	})
}

// UpdateStatus applies a status transition reported by the
// clearinghouse. Invalid transitions are rejected.
func (s *Service) UpdateStatus(ctx context.Context, locationID, id uuid.UUID, req *model.UpdateClaimStatusRequest) (*model.Claim, error) {
	return s.transition(ctx, locationID, id, req)
}

func (s *Service) transition(ctx context.Context, locationID, id uuid.UUID, req *model.UpdateClaimStatusRequest) (*model.Claim, error) {
	claim, err := s.claims.Get(ctx, locationID, id)
	if errors.Is(err, postgres.ErrNotFound) {
		return nil, apperrors.NotFound("claim", err)
	}
	if err != nil {
		return nil, err
	}

	if !claim.Status.ValidTransition(req.Status) {
		return nil, apperrors.Conflict(
			fmt.Sprintf("claim cannot move from %s to %s", claim.Status, req.Status), nil)
	}

	prev := claim.Status
	claim.Status = req.Status
	if req.ClearinghouseID != nil {
		claim.ClearinghouseID = req.ClearinghouseID
	}
	if req.RejectReason != nil {
		claim.RejectReason = req.RejectReason
	}

	switch req.Status {
	case model.ClaimStatusSubmitted:
		now := time.Now()
		claim.SubmittedAt = &now
		claim.RejectReason = nil
	case model.ClaimStatusRejected:
		if claim.RejectReason == nil {
			return nil, apperrors.Validation("rejection requires a reason", nil)
		}
	}

	if err := s.claims.Update(ctx, claim); err != nil {
		return nil, fmt.Errorf("failed to update claim: %w", err)
	}
	if s.metrics != nil {
		s.metrics.ClaimsSubmitted.WithLabelValues(string(req.Status)).Inc()
	}

	switch req.Status {
	case model.ClaimStatusSubmitted:
		s.publish(ctx, model.EventClaimSubmitted, claim)
	case model.ClaimStatusRejected:
		s.publish(ctx, model.EventClaimRejected, claim)
		s.notifyRejection(ctx, claim)
	}

	s.auditor.Log(ctx, model.AuditActionSubmit, model.AuditEntityClaim, id, &audit.LogOptions{
		Changes: map[string]interface{}{"from": prev, "to": req.Status},
	})
	return claim, nil
}

func (s *Service) publish(ctx context.Context, eventType string, claim *model.Claim) {
	payload, err := json.Marshal(map[string]interface{}{
		"claim_id":      claim.ID,
		"patient_id":    claim.PatientID,
		"location_id":   claim.LocationID,
		"status":        claim.Status,
		"charge_cents":  claim.ChargeCents,
		"reject_reason": claim.RejectReason,
	})
	if err != nil {
		s.logger.Error(err, "failed to encode claim event", "claim_id", claim.ID.String())
		return
	}
	event := &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   payload,
		Status:    model.OutboxStatusPending,
	}
	if err := s.outbox.Create(ctx, event); err != nil {
		s.logger.Error(err, "failed to enqueue claim event", "claim_id", claim.ID.String())
	}
}

// notifyRejection emails the acting user about the rejection so it is
// not lost in the claim queue. Best-effort.
func (s *Service) notifyRejection(ctx context.Context, claim *model.Claim) {
	sess := model.SessionFromContext(ctx)
	if sess == nil || sess.Email == "" {
		return
	}
	reason := ""
	if claim.RejectReason != nil {
		reason = *claim.RejectReason
	}
	body := fmt.Sprintf(
		"<p>Claim %s for CPT %s was rejected.</p><p>Reason: %s</p>",
		claim.ID, claim.CPTCode, reason)
	if err := s.mailer.Send(sess.Email, "Claim rejected", body); err != nil {
		s.logger.Warn("failed to send claim rejection email",
			"claim_id", claim.ID.String(), "error", err.Error())
	}
}
