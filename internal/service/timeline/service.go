package timeline

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/model"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/repository"
	apperrors "github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/errors"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/logger"
	"github.com/ashleybryant-ux/leaddash-ehr-sub001/pkg/metrics"
)

// Service reconstructs the patient visit timeline by merging the
// appointment calendar with the clinical notes collection. The timeline
// is derived per request and never stored.
type Service struct {
	appointments repository.AppointmentRepository
	notes        repository.NoteRepository
	metrics      *metrics.Metrics
	logger       *logger.Logger
}

func NewService(
	appointments repository.AppointmentRepository,
	notes repository.NoteRepository,
	m *metrics.Metrics,
	log *logger.Logger,
) *Service {
	return &Service{
		appointments: appointments,
		notes:        notes,
		metrics:      m,
		logger:       log.WithComponent("timeline"),
	}
}

// ResolveRange turns a range preset into a concrete window ending now.
// Supported presets are "30d", "90d", "180d", "365d", "all" (or empty),
// and "custom", which uses the explicit bounds.
func ResolveRange(preset string, start, end, now time.Time) (model.TimelineRange, error) {
	switch preset {
	case "", "all":
		return model.TimelineRange{}, nil
	case "30d":
		return model.TimelineRange{Start: now.AddDate(0, 0, -30), End: now}, nil
	case "90d":
		return model.TimelineRange{Start: now.AddDate(0, 0, -90), End: now}, nil
	case "180d":
		return model.TimelineRange{Start: now.AddDate(0, 0, -180), End: now}, nil
	case "365d":
		return model.TimelineRange{Start: now.AddDate(0, 0, -365), End: now}, nil
	case "custom":
		if start.IsZero() && end.IsZero() {
			return model.TimelineRange{}, apperrors.Validation("custom range requires start or end date", nil)
		}
		return model.TimelineRange{Start: start, End: end}, nil
	default:
		return model.TimelineRange{}, apperrors.Validation("unknown range preset", nil)
	}
}

// Build fetches the patient's appointments and notes and merges them into
// the ordered, numbered timeline.
func (s *Service) Build(ctx context.Context, locationID, patientID uuid.UUID, window model.TimelineRange) ([]*model.TimelineEntry, error) {
	started := time.Now()

	appointments, err := s.appointments.List(ctx, &model.AppointmentFilters{
		LocationID: locationID,
		PatientID:  patientID,
	})
	if err != nil {
		return nil, err
	}
	notes, err := s.notes.List(ctx, &model.NoteFilters{
		LocationID: locationID,
		PatientID:  patientID,
	})
	if err != nil {
		return nil, err
	}

	entries := Merge(appointments, notes, window)

	if s.metrics != nil {
		s.metrics.TimelineBuilds.Observe(time.Since(started).Seconds())
	}
	return entries, nil
}

// Merge is the pure core of the timeline: filter by window, absorb each
// appointment's matching progress note, number the clinical visits, and
// order the result for display.
func Merge(appointments []*model.Appointment, notes []*model.ProgressNote, window model.TimelineRange) []*model.TimelineEntry {
	var entries []*model.TimelineEntry
	absorbed := map[uuid.UUID]bool{}

	for _, appt := range appointments {
		if !window.IsZero() && !window.Contains(appt.StartTime) {
			continue
		}

		note := associatedNote(appt, notes, absorbed)
		entry := &model.TimelineEntry{
			Type:           model.TimelineEntryAppointment,
			SortTimestamp:  appt.StartTime,
			Date:           dayOf(appt.StartTime),
			Year:           appt.StartTime.Year(),
			Appointment:    appt,
			AssociatedNote: note,
			IsNumbered:     appt.Status != model.AppointmentStatusCancelled,
			HasNote:        note != nil,
			NeedsNote:      note == nil && appt.Status != model.AppointmentStatusCancelled,
		}
		if note != nil {
			absorbed[note.ID] = true
		}
		entries = append(entries, entry)
	}

	for _, n := range notes {
		if absorbed[n.ID] {
			continue
		}
		ts := NoteTimestamp(n)
		if !window.IsZero() && !window.Contains(ts) {
			continue
		}
		entries = append(entries, &model.TimelineEntry{
			Type:          model.TimelineEntryNote,
			SortTimestamp: ts,
			Date:          dayOf(ts),
			Year:          ts.Year(),
			Note:          n,
			IsNumbered:    n.NoteType.Numbered(),
		})
	}

	assignSessionNumbers(entries)
	sortForDisplay(entries)
	return entries
}

// associatedNote finds the progress note belonging to an appointment:
// an explicit appointment_id link wins, otherwise the first progress
// note on the same calendar day. A note is absorbed at most once.
func associatedNote(appt *model.Appointment, notes []*model.ProgressNote, absorbed map[uuid.UUID]bool) *model.ProgressNote {
	for _, n := range notes {
		if absorbed[n.ID] || n.NoteType != model.NoteTypeProgress {
			continue
		}
		if n.AppointmentID != nil && *n.AppointmentID == appt.ID {
			return n
		}
	}
	apptDay := dayOf(appt.StartTime)
	for _, n := range notes {
		if absorbed[n.ID] || n.NoteType != model.NoteTypeProgress || n.AppointmentID != nil {
			continue
		}
		if dayOf(NoteTimestamp(n)).Equal(apptDay) {
			return n
		}
	}
	return nil
}

// NoteTimestamp computes a note's canonical instant. Explicit date and
// time of service win, then the session date, then created_at.
func NoteTimestamp(n *model.ProgressNote) time.Time {
	if n.DateOfService != "" {
		layout, value := "2006-01-02", n.DateOfService
		if n.TimeOfService != "" {
			layout, value = "2006-01-02 15:04", n.DateOfService+" "+n.TimeOfService
		}
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t
		}
	}
	if n.SessionDate != nil && !n.SessionDate.IsZero() {
		return *n.SessionDate
	}
	return n.CreatedAt
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// createdAt returns the creation time of the entry's underlying record,
// used as the numbering tiebreak within one calendar day.
func createdAt(e *model.TimelineEntry) time.Time {
	if e.Type == model.TimelineEntryAppointment {
		return e.Appointment.CreatedAt
	}
	return e.Note.CreatedAt
}

// assignSessionNumbers hands out visit numbers 1..N across the numbered
// entries, ascending by calendar day, ties broken by creation time with
// appointments preceding same-day notes.
func assignSessionNumbers(entries []*model.TimelineEntry) {
	numbered := make([]*model.TimelineEntry, 0, len(entries))
	for _, e := range entries {
		if e.IsNumbered {
			numbered = append(numbered, e)
		}
	}

	sort.SliceStable(numbered, func(i, j int) bool {
		a, b := numbered[i], numbered[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		ca, cb := createdAt(a), createdAt(b)
		if !ca.Equal(cb) {
			return ca.Before(cb)
		}
		return a.Type == model.TimelineEntryAppointment && b.Type == model.TimelineEntryNote
	})

	for i, e := range numbered {
		e.SessionNumber = i + 1
	}
}

// sortForDisplay orders entries newest-first: calendar day descending,
// then session number descending, then raw timestamp descending.
func sortForDisplay(entries []*model.TimelineEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if a.SessionNumber != b.SessionNumber {
			return a.SessionNumber > b.SessionNumber
		}
		return a.SortTimestamp.After(b.SortTimestamp)
	})
}
