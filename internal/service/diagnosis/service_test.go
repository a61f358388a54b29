package diagnosis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashleybryant-ux/leaddash-ehr-sub001/internal/model"
)

func TestSerializeParseRoundTrip(t *testing.T) {
	diagnoses := []model.Diagnosis{
		{Code: "F32.1", Description: "Major depressive disorder, single episode, moderate"},
		{Code: "F41.1", Description: "Generalized anxiety disorder"},
	}

	raw := Serialize(diagnoses)
	assert.Equal(t,
		"F32.1 - Major depressive disorder, single episode, moderate\n"+
			"F41.1 - Generalized anxiety disorder",
		raw)

	assert.Equal(t, diagnoses, Parse(raw))
}

func TestParseBareCodeAndBlankLines(t *testing.T) {
	got := Parse("F43.10\n\n  \nF90.0 - Attention-deficit hyperactivity disorder, predominantly inattentive type")
	require.Len(t, got, 2)
	assert.Equal(t, model.Diagnosis{Code: "F43.10"}, got[0])
	assert.Equal(t, "F90.0", got[1].Code)
}

func TestParseEmpty(t *testing.T) {
	assert.Empty(t, Parse(""))
}

func TestSearchCodesByPrefix(t *testing.T) {
	results := (&Service{}).SearchCodes("f32", 10)
	require.NotEmpty(t, results)
	for _, r := range results {
		assert.Contains(t, r.Code, "F32")
	}
}

func TestSearchCodesByDescription(t *testing.T) {
	results := (&Service{}).SearchCodes("anxiety", 50)
	require.NotEmpty(t, results)
	found := false
	for _, r := range results {
		if r.Code == "F41.1" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestSearchCodesHonorsLimit(t *testing.T) {
	results := (&Service{}).SearchCodes("", 3)
	assert.Len(t, results, 3)
}

func TestTemplatesFilterByProblem(t *testing.T) {
	all := (&Service{}).Templates("")
	require.NotEmpty(t, all)

	depression := (&Service{}).Templates("depress")
	require.NotEmpty(t, depression)
	for _, tpl := range depression {
		assert.Contains(t, tpl.Problem, "epress")
	}
	assert.Less(t, len(depression), len(all))

	assert.Empty(t, (&Service{}).Templates("no such problem"))
}
