package model

import (
	"time"

	"github.com/google/uuid"
)

// FeeScheduleEntry maps a CPT procedure code to its default charge.
// Amounts are cents to keep the arithmetic exact.
type FeeScheduleEntry struct {
	Base
	LocationID  uuid.UUID `db:"location_id" json:"location_id"`
	CPTCode     string    `db:"cpt_code" json:"cpt_code"`
	Description string    `db:"description" json:"description"`
	ChargeCents int64     `db:"charge_cents" json:"charge_cents"`
}

type UpsertFeeScheduleRequest struct {
	CPTCode     string `json:"cpt_code" binding:"required"`
	Description string `json:"description" binding:"required"`
	ChargeCents int64  `json:"charge_cents" binding:"required,min=0"`
}

type InvoiceStatus string

const (
	InvoiceStatusDraft InvoiceStatus = "draft"
	InvoiceStatusSent  InvoiceStatus = "sent"
	InvoiceStatusPaid  InvoiceStatus = "paid"
	InvoiceStatusVoid  InvoiceStatus = "void"
)

type Invoice struct {
	Base
	LocationID  uuid.UUID     `db:"location_id" json:"location_id"`
	PatientID   uuid.UUID     `db:"patient_id" json:"patient_id"`
	NoteID      *uuid.UUID    `db:"note_id" json:"note_id,omitempty"`
	CPTCode     string        `db:"cpt_code" json:"cpt_code"`
	AmountCents int64         `db:"amount_cents" json:"amount_cents"`
	Status      InvoiceStatus `db:"status" json:"status"`
	ServiceDate time.Time     `db:"service_date" json:"service_date"`
}

type CreateInvoiceRequest struct {
	PatientID   uuid.UUID  `json:"patient_id" binding:"required"`
	NoteID      *uuid.UUID `json:"note_id"`
	CPTCode     string     `json:"cpt_code" binding:"required"`
	AmountCents *int64     `json:"amount_cents"`
	ServiceDate time.Time  `json:"service_date" binding:"required"`
}

type UpdateInvoiceRequest struct {
	Status      *InvoiceStatus `json:"status"`
	AmountCents *int64         `json:"amount_cents"`
}

// Payer is a custom insurance payer configured per location.
type Payer struct {
	Base
	LocationID uuid.UUID `db:"location_id" json:"location_id"`
	Name       string    `db:"name" json:"name"`
	PayerCode  string    `db:"payer_code" json:"payer_code"`
	Electronic bool      `db:"electronic" json:"electronic"`
	Address    string    `db:"address" json:"address,omitempty"`
}

type UpsertPayerRequest struct {
	Name       string `json:"name" binding:"required"`
	PayerCode  string `json:"payer_code" binding:"required"`
	Electronic bool   `json:"electronic"`
	Address    string `json:"address"`
}

// PracticeInfo is the per-location practice profile stamped onto claims
// and rendered note headers.
type PracticeInfo struct {
	LocationID uuid.UUID `db:"location_id" json:"location_id"`
	Name       string    `db:"name" json:"name"`
	NPI        string    `db:"npi" json:"npi"`
	TaxID      string    `db:"tax_id" json:"tax_id"`
	Address    string    `db:"address" json:"address"`
	Phone      string    `db:"phone" json:"phone"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

type UpdatePracticeInfoRequest struct {
	Name    string `json:"name" binding:"required"`
	NPI     string `json:"npi"`
	TaxID   string `json:"tax_id"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}
