package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

type Appointment struct {
	Base
	LocationID   uuid.UUID         `db:"location_id" json:"location_id"`
	PatientID    uuid.UUID         `db:"patient_id" json:"patient_id"`
	ClinicianID  uuid.UUID         `db:"clinician_id" json:"clinician_id"`
	StartTime    time.Time         `db:"start_time" json:"start_time"`
	EndTime      time.Time         `db:"end_time" json:"end_time"`
	Status       AppointmentStatus `db:"status" json:"status"`
	Notes        string            `db:"notes" json:"notes,omitempty"`
	CancelReason *string           `db:"cancel_reason" json:"cancel_reason,omitempty"`
}

type CreateAppointmentRequest struct {
	PatientID   uuid.UUID `json:"patient_id" binding:"required"`
	ClinicianID uuid.UUID `json:"clinician_id" binding:"required"`
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required,gtfield=StartTime"`
	Notes       string    `json:"notes" binding:"max=1000"`
}

type UpdateAppointmentRequest struct {
	StartTime    *time.Time         `json:"start_time"`
	EndTime      *time.Time         `json:"end_time"`
	Status       *AppointmentStatus `json:"status"`
	Notes        *string            `json:"notes"`
	CancelReason *string            `json:"cancel_reason"`
}

type AppointmentFilters struct {
	LocationID  uuid.UUID
	PatientID   uuid.UUID
	ClinicianID uuid.UUID
	Status      AppointmentStatus
	StartDate   time.Time
	EndDate     time.Time
}
