package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/lib/pq"
)

type ClaimStatus string

const (
	ClaimStatusPending   ClaimStatus = "pending"
	ClaimStatusSubmitted ClaimStatus = "submitted"
	ClaimStatusAccepted  ClaimStatus = "accepted"
	ClaimStatusRejected  ClaimStatus = "rejected"
	ClaimStatusPaid      ClaimStatus = "paid"
)

// ValidTransition reports whether a claim may move from its current
// status to next. Claims only move forward; paid and rejected are
// terminal except that a rejected claim may be resubmitted.
func (s ClaimStatus) ValidTransition(next ClaimStatus) bool {
	switch s {
	case ClaimStatusPending:
		return next == ClaimStatusSubmitted
	case ClaimStatusSubmitted:
		return next == ClaimStatusAccepted || next == ClaimStatusRejected
	case ClaimStatusAccepted:
		return next == ClaimStatusPaid
	case ClaimStatusRejected:
		return next == ClaimStatusSubmitted
	}
	return false
}

type Claim struct {
	Base
	LocationID      uuid.UUID      `db:"location_id" json:"location_id"`
	PatientID       uuid.UUID      `db:"patient_id" json:"patient_id"`
	NoteID          uuid.UUID      `db:"note_id" json:"note_id"`
	PayerID         *uuid.UUID     `db:"payer_id" json:"payer_id,omitempty"`
	CPTCode         string         `db:"cpt_code" json:"cpt_code"`
	ICDCodes        pq.StringArray `db:"icd_codes" json:"icd_codes"`
	ChargeCents     int64          `db:"charge_cents" json:"charge_cents"`
	Status          ClaimStatus    `db:"status" json:"status"`
	SubmittedAt     *time.Time     `db:"submitted_at" json:"submitted_at,omitempty"`
	ClearinghouseID *string        `db:"clearinghouse_id" json:"clearinghouse_id,omitempty"`
	RejectReason    *string        `db:"reject_reason" json:"reject_reason,omitempty"`
}

type CreateClaimRequest struct {
	NoteID  uuid.UUID  `json:"note_id" binding:"required"`
	PayerID *uuid.UUID `json:"payer_id"`
}

type UpdateClaimStatusRequest struct {
	Status          ClaimStatus `json:"status" binding:"required"`
	ClearinghouseID *string     `json:"clearinghouse_id"`
	RejectReason    *string     `json:"reject_reason"`
}

type ClaimFilters struct {
	LocationID uuid.UUID
	PatientID  uuid.UUID
	Status     ClaimStatus
	StartDate  time.Time
	EndDate    time.Time
	Pagination
}
