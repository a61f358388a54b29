package note

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/model"
)

func TestComposeSOAP(t *testing.T) {
	fields := map[string]string{
		"subjective": "Reports low mood.",
		"objective":  "Flat affect.",
		"assessment": "Symptoms consistent with MDD.",
		"plan":       "Weekly CBT.",
	}

	got := Compose(model.NoteStyleSOAP, fields)
	want := "SUBJECTIVE\nReports low mood.\n\n" +
		"OBJECTIVE\nFlat affect.\n\n" +
		"ASSESSMENT\nSymptoms consistent with MDD.\n\n" +
		"PLAN\nWeekly CBT."
	assert.Equal(t, want, got)
}

func TestComposeSkipsEmptySections(t *testing.T) {
	fields := map[string]string{
		"data": "Session content.",
		"plan": "Continue as planned.",
	}

	got := Compose(model.NoteStyleDAP, fields)
	assert.Equal(t, "DATA\nSession content.\n\nPLAN\nContinue as planned.", got)
	assert.NotContains(t, got, "ASSESSMENT")
}

func TestComposeFreeform(t *testing.T) {
	got := Compose(model.NoteStyleFreeform, map[string]string{"content": "Brief phone check-in."})
	assert.Equal(t, "NOTE\nBrief phone check-in.", got)
}

func TestComposeUnknownStyle(t *testing.T) {
	assert.Empty(t, Compose(model.NoteStyle("narrative"), map[string]string{"content": "x"}))
}

func TestMissingSections(t *testing.T) {
	fields := map[string]string{
		"behavior":     "Withdrawn.",
		"intervention": "Grounding exercise.",
		"response":     "  ", // whitespace only does not count
	}

	missing := MissingSections(model.NoteStyleBIRP, fields)
	assert.Equal(t, []string{"RESPONSE", "PLAN"}, missing)

	fields["response"] = "Engaged well."
	fields["plan"] = "Repeat next session."
	assert.Empty(t, MissingSections(model.NoteStyleBIRP, fields))
}
