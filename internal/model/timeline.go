package model

import (
	"time"

	"github.com/google/uuid"
)

type TimelineEntryType string

const (
	TimelineEntryAppointment TimelineEntryType = "appointment"
	TimelineEntryNote        TimelineEntryType = "note"
)

// TimelineEntry is a derived projection over one appointment or one note.
// It is never persisted; the timeline service rebuilds it per request.
type TimelineEntry struct {
	Type TimelineEntryType `json:"type"`

	// Date is the entry's calendar day in the location's timezone;
	// SortTimestamp is the canonical instant used for ordering.
	Date          time.Time `json:"date"`
	SortTimestamp time.Time `json:"sort_timestamp"`
	Year          int       `json:"year"`

	Appointment *Appointment  `json:"appointment,omitempty"`
	Note        *ProgressNote `json:"note,omitempty"`

	// AssociatedNote carries the progress note absorbed into an
	// appointment entry, so one clinical encounter shows once.
	AssociatedNote *ProgressNote `json:"associated_note,omitempty"`

	IsNumbered    bool `json:"is_numbered"`
	SessionNumber int  `json:"session_number,omitempty"`
	HasNote       bool `json:"has_note,omitempty"`
	NeedsNote     bool `json:"needs_note,omitempty"`
}

// EntryID returns the identity of the underlying record.
func (e *TimelineEntry) EntryID() uuid.UUID {
	if e.Type == TimelineEntryAppointment && e.Appointment != nil {
		return e.Appointment.ID
	}
	if e.Note != nil {
		return e.Note.ID
	}
	return uuid.Nil
}

// TimelineRange is the optional date window applied before merging.
type TimelineRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window. A zero bound is
// open on that side.
func (r TimelineRange) Contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && t.After(r.End) {
		return false
	}
	return true
}

func (r TimelineRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}
