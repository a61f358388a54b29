package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type AuditLog struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	LocationID uuid.UUID       `json:"location_id" db:"location_id"`
	UserID     uuid.UUID       `json:"user_id" db:"user_id"`
	Action     string          `json:"action" db:"action"`
	EntityType string          `json:"entity_type" db:"entity_type"`
	EntityID   uuid.UUID       `json:"entity_id" db:"entity_id"`
	Changes    json.RawMessage `json:"changes,omitempty" db:"changes"`
	Metadata   json.RawMessage `json:"metadata,omitempty" db:"metadata"`
	IPAddress  string          `json:"ip_address" db:"ip_address"`
	UserAgent  string          `json:"user_agent" db:"user_agent"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

const (
	AuditActionCreate = "create"
	AuditActionRead   = "read"
	AuditActionUpdate = "update"
	AuditActionDelete = "delete"
	AuditActionSign   = "sign"
	AuditActionSubmit = "submit"
	AuditActionLogin  = "login"

	AuditEntityPatient     = "patient"
	AuditEntityNote        = "note"
	AuditEntityAppointment = "appointment"
	AuditEntityClaim       = "claim"
	AuditEntityInvoice     = "invoice"
	AuditEntityFeeSchedule = "fee_schedule"
	AuditEntityPayer       = "payer"
	AuditEntityPractice    = "practice_info"
	AuditEntityUser        = "user"
	AuditEntityLocation    = "location"
	AuditEntityFile        = "file"
)

type AuditFilters struct {
	LocationID uuid.UUID
	UserID     uuid.UUID
	EntityType string
	EntityID   uuid.UUID
	Action     string
	StartDate  time.Time
	EndDate    time.Time
	Pagination
}

// AggregateStats summarizes audit activity for the stats endpoint.
type AggregateStats struct {
	TotalLogs      int64             `json:"total_logs"`
	ActionCounts   map[string]int    `json:"action_counts"`
	EntityCounts   map[string]int    `json:"entity_counts"`
	UserActivity   map[string]int    `json:"user_activity"`
	HourlyActivity map[int]int       `json:"hourly_activity"`
	TopIPs         []IPActivityCount `json:"top_ips"`
}

type IPActivityCount struct {
	IPAddress string `json:"ip_address"`
	Count     int    `json:"count"`
}
