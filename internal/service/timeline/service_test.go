package timeline

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/model"
)

func day(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func appt(start time.Time, status model.AppointmentStatus, created time.Time) *model.Appointment {
	a := &model.Appointment{
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Status:    status,
	}
	a.ID = uuid.New()
	a.CreatedAt = created
	return a
}

func progressNote(session time.Time, created time.Time) *model.ProgressNote {
	n := &model.ProgressNote{
		NoteType:    model.NoteTypeProgress,
		NoteStyle:   model.NoteStyleSOAP,
		Status:      model.NoteStatusSigned,
		SessionDate: &session,
	}
	n.ID = uuid.New()
	n.CreatedAt = created
	return n
}

func TestMergeNumbersOnlyClinicalVisits(t *testing.T) {
	created := day(2025, 6, 1, 8, 0)

	a1 := appt(day(2025, 6, 2, 10, 0), model.AppointmentStatusCompleted, created)
	cancelled := appt(day(2025, 6, 3, 10, 0), model.AppointmentStatusCancelled, created)
	n1 := progressNote(day(2025, 6, 4, 9, 0), created.Add(time.Hour))

	chart := progressNote(day(2025, 6, 5, 9, 0), created.Add(2*time.Hour))
	chart.NoteType = model.NoteTypeChart

	entries := Merge(
		[]*model.Appointment{a1, cancelled},
		[]*model.ProgressNote{n1, chart},
		model.TimelineRange{},
	)
	require.Len(t, entries, 4)

	numbers := map[uuid.UUID]int{}
	for _, e := range entries {
		if e.SessionNumber > 0 {
			numbers[e.EntryID()] = e.SessionNumber
		}
	}

	assert.Equal(t, 1, numbers[a1.ID])
	assert.Equal(t, 2, numbers[n1.ID])
	assert.NotContains(t, numbers, cancelled.ID, "cancelled appointments are unnumbered")
	assert.NotContains(t, numbers, chart.ID, "chart notes are unnumbered")
}

func TestMergeAbsorbsAssociatedNote(t *testing.T) {
	created := day(2025, 6, 1, 8, 0)
	a := appt(day(2025, 6, 10, 14, 0), model.AppointmentStatusCompleted, created)

	linked := progressNote(day(2025, 6, 10, 14, 0), created.Add(time.Hour))
	linked.AppointmentID = &a.ID

	entries := Merge([]*model.Appointment{a}, []*model.ProgressNote{linked}, model.TimelineRange{})
	require.Len(t, entries, 1, "a matched note must not appear as its own entry")

	e := entries[0]
	assert.Equal(t, model.TimelineEntryAppointment, e.Type)
	assert.True(t, e.HasNote)
	assert.False(t, e.NeedsNote)
	require.NotNil(t, e.AssociatedNote)
	assert.Equal(t, linked.ID, e.AssociatedNote.ID)
}

func TestMergeAssociatesBySameCalendarDay(t *testing.T) {
	created := day(2025, 6, 1, 8, 0)
	a := appt(day(2025, 6, 10, 14, 0), model.AppointmentStatusCompleted, created)

	// No appointment_id link, but the note's service day matches.
	n := progressNote(day(2025, 6, 10, 9, 0), created.Add(time.Hour))

	entries := Merge([]*model.Appointment{a}, []*model.ProgressNote{n}, model.TimelineRange{})
	require.Len(t, entries, 1)
	assert.True(t, entries[0].HasNote)
}

func TestMergeFlagsAppointmentsNeedingNotes(t *testing.T) {
	created := day(2025, 6, 1, 8, 0)
	noteless := appt(day(2025, 6, 10, 14, 0), model.AppointmentStatusCompleted, created)
	cancelled := appt(day(2025, 6, 11, 14, 0), model.AppointmentStatusCancelled, created)

	entries := Merge([]*model.Appointment{noteless, cancelled}, nil, model.TimelineRange{})
	require.Len(t, entries, 2)

	byID := map[uuid.UUID]*model.TimelineEntry{}
	for _, e := range entries {
		byID[e.EntryID()] = e
	}
	assert.True(t, byID[noteless.ID].NeedsNote)
	assert.False(t, byID[cancelled.ID].NeedsNote, "cancelled appointments never need a note")
}

func TestMergeSameDayOrdering(t *testing.T) {
	// Two visits on one calendar day: earlier creation gets the lower
	// number, and an appointment outranks a note created at the same
	// instant.
	created := day(2025, 6, 1, 8, 0)

	early := progressNote(day(2025, 6, 10, 9, 0), created)
	late := progressNote(day(2025, 6, 10, 15, 0), created.Add(time.Hour))

	entries := Merge(nil, []*model.ProgressNote{late, early}, model.TimelineRange{})
	require.Len(t, entries, 2)

	numbers := map[uuid.UUID]int{}
	for _, e := range entries {
		numbers[e.EntryID()] = e.SessionNumber
	}
	assert.Less(t, numbers[early.ID], numbers[late.ID])

	// Appointment vs note with identical created_at.
	a := appt(day(2025, 6, 12, 11, 0), model.AppointmentStatusCompleted, created)
	sameDayNote := progressNote(day(2025, 6, 12, 9, 0), created)
	sameDayNote.AppointmentID = &uuid.UUID{} // points elsewhere, stays separate

	entries = Merge([]*model.Appointment{a}, []*model.ProgressNote{sameDayNote}, model.TimelineRange{})
	require.Len(t, entries, 2)
	numbers = map[uuid.UUID]int{}
	for _, e := range entries {
		numbers[e.EntryID()] = e.SessionNumber
	}
	assert.Less(t, numbers[a.ID], numbers[sameDayNote.ID],
		"appointment precedes a same-day note created at the same time")
}

func TestMergeWorkedExample(t *testing.T) {
	// Appointment at 14:00 with no matching note, plus a signed note for
	// 09:00 the same day created after the appointment: two numbered
	// entries, note shown above the appointment, appointment flagged.
	a := appt(day(2025, 6, 10, 14, 0), model.AppointmentStatusCompleted, day(2025, 6, 10, 14, 5))

	n := progressNote(day(2025, 6, 10, 9, 0), day(2025, 6, 10, 16, 0))
	other := uuid.New()
	n.AppointmentID = &other

	entries := Merge([]*model.Appointment{a}, []*model.ProgressNote{n}, model.TimelineRange{})
	require.Len(t, entries, 2)

	assert.Equal(t, n.ID, entries[0].EntryID(), "higher session number displays first")
	assert.Equal(t, a.ID, entries[1].EntryID())
	assert.Equal(t, 2, entries[0].SessionNumber)
	assert.Equal(t, 1, entries[1].SessionNumber)
	assert.True(t, entries[1].NeedsNote)
}

func TestMergeDisplayOrderIsDescending(t *testing.T) {
	created := day(2025, 1, 1, 8, 0)
	a1 := appt(day(2025, 3, 1, 10, 0), model.AppointmentStatusCompleted, created)
	a2 := appt(day(2025, 4, 1, 10, 0), model.AppointmentStatusCompleted, created)
	a3 := appt(day(2025, 5, 1, 10, 0), model.AppointmentStatusCompleted, created)

	entries := Merge([]*model.Appointment{a1, a3, a2}, nil, model.TimelineRange{})
	require.Len(t, entries, 3)
	assert.Equal(t, a3.ID, entries[0].EntryID())
	assert.Equal(t, a2.ID, entries[1].EntryID())
	assert.Equal(t, a1.ID, entries[2].EntryID())
}

func TestMergeAppliesWindow(t *testing.T) {
	created := day(2025, 1, 1, 8, 0)
	inside := appt(day(2025, 6, 10, 10, 0), model.AppointmentStatusCompleted, created)
	outside := appt(day(2025, 1, 10, 10, 0), model.AppointmentStatusCompleted, created)

	window := model.TimelineRange{Start: day(2025, 6, 1, 0, 0), End: day(2025, 6, 30, 0, 0)}
	entries := Merge([]*model.Appointment{inside, outside}, nil, window)
	require.Len(t, entries, 1)
	assert.Equal(t, inside.ID, entries[0].EntryID())
}

func TestNoteTimestampPriority(t *testing.T) {
	session := day(2025, 6, 5, 13, 0)
	n := &model.ProgressNote{
		DateOfService: "2025-06-10",
		TimeOfService: "14:30",
		SessionDate:   &session,
	}
	n.CreatedAt = day(2025, 6, 1, 8, 0)

	assert.Equal(t, day(2025, 6, 10, 14, 30), NoteTimestamp(n))

	n.TimeOfService = ""
	assert.Equal(t, day(2025, 6, 10, 0, 0), NoteTimestamp(n))

	n.DateOfService = ""
	assert.Equal(t, session, NoteTimestamp(n))

	n.SessionDate = nil
	assert.Equal(t, n.CreatedAt, NoteTimestamp(n))
}

func TestResolveRange(t *testing.T) {
	now := day(2025, 6, 30, 12, 0)

	r, err := ResolveRange("30d", time.Time{}, time.Time{}, now)
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, -30), r.Start)
	assert.Equal(t, now, r.End)

	r, err = ResolveRange("", time.Time{}, time.Time{}, now)
	require.NoError(t, err)
	assert.True(t, r.IsZero())

	start := day(2025, 1, 1, 0, 0)
	r, err = ResolveRange("custom", start, time.Time{}, now)
	require.NoError(t, err)
	assert.Equal(t, start, r.Start)

	_, err = ResolveRange("custom", time.Time{}, time.Time{}, now)
	assert.Error(t, err)

	_, err = ResolveRange("7w", time.Time{}, time.Time{}, now)
	assert.Error(t, err)
}
