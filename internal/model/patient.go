package model

import (
	"time"

	"github.com/google/uuid"
)

type PatientStatus string

const (
	PatientStatusActive   PatientStatus = "active"
	PatientStatusInactive PatientStatus = "inactive"
	PatientStatusArchived PatientStatus = "archived"
)

type Patient struct {
	Base
	LocationID  uuid.UUID  `db:"location_id" json:"location_id"`
	FirstName   string     `db:"first_name" json:"first_name"`
	LastName    string     `db:"last_name" json:"last_name"`
	Email       string     `db:"email" json:"email"`
	Phone       string     `db:"phone" json:"phone,omitempty"`
	DateOfBirth *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender      string     `db:"gender" json:"gender,omitempty"`
	Address     string     `db:"address" json:"address,omitempty"`
	Status      string     `db:"status" json:"status"`
	AdminNotes  string     `db:"admin_notes" json:"admin_notes,omitempty"`

	// Insurance is flattened into the patients table; the columns stay
	// nullable for self-pay patients.
	InsurancePayer  string `db:"insurance_payer" json:"insurance_payer,omitempty"`
	InsuranceMember string `db:"insurance_member_id" json:"insurance_member_id,omitempty"`
	InsuranceGroup  string `db:"insurance_group_number" json:"insurance_group_number,omitempty"`
	InsuranceCopay  int64  `db:"insurance_copay_cents" json:"insurance_copay_cents,omitempty"`
}

func (p *Patient) FullName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

type CreatePatientRequest struct {
	FirstName   string     `json:"first_name" binding:"required"`
	LastName    string     `json:"last_name" binding:"required"`
	Email       string     `json:"email" binding:"required,email"`
	Phone       string     `json:"phone"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Gender      string     `json:"gender"`
	Address     string     `json:"address"`
}

type UpdatePatientRequest struct {
	FirstName   *string    `json:"first_name"`
	LastName    *string    `json:"last_name"`
	Email       *string    `json:"email" binding:"omitempty,email"`
	Phone       *string    `json:"phone"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Gender      *string    `json:"gender"`
	Address     *string    `json:"address"`
	Status      *string    `json:"status"`
}

type UpdateInsuranceRequest struct {
	Payer       string `json:"payer" binding:"required"`
	MemberID    string `json:"member_id" binding:"required"`
	GroupNumber string `json:"group_number"`
	CopayCents  int64  `json:"copay_cents" binding:"min=0"`
}

type PatientFilters struct {
	LocationID uuid.UUID
	Status     PatientStatus
	SearchTerm string
	Pagination
}

// PatientFile holds uploaded document metadata plus content. Files are
// small scans and intake forms, so content lives in the row itself.
type PatientFile struct {
	ID          uuid.UUID `db:"id" json:"id"`
	PatientID   uuid.UUID `db:"patient_id" json:"patient_id"`
	LocationID  uuid.UUID `db:"location_id" json:"location_id"`
	Name        string    `db:"name" json:"name"`
	ContentType string    `db:"content_type" json:"content_type"`
	SizeBytes   int64     `db:"size_bytes" json:"size_bytes"`
	Content     []byte    `db:"content" json:"-"`
	UploadedBy  uuid.UUID `db:"uploaded_by" json:"uploaded_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
