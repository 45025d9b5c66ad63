package types

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProfile_Defaults(t *testing.T) {
	p := NewProfile()
	assert.Len(t, p.Experiences, 1)
	assert.Len(t, p.Education, 1)
	assert.Empty(t, p.Skills)
	assert.Equal(t, []Persona{PersonaGeneral}, p.TargetPersonas)
	assert.Equal(t, []string{""}, p.TargetJobDescriptions)
	assert.False(t, p.IsJobSeeking)
}

func TestNormalize_CurrentEntriesGetPresentEndDate(t *testing.T) {
	p := NewProfile()
	p.Experiences = []Experience{
		{JobTitle: "Engineer", IsCurrent: true, EndDate: "2023-01"},
		{JobTitle: "Intern", EndDate: "2019-08"},
	}
	p.Education = []Education{{Degree: "MSc", IsCurrent: true}}

	p.Normalize()

	assert.Equal(t, PresentSentinel, p.Experiences[0].EndDate)
	assert.Equal(t, "2019-08", p.Experiences[1].EndDate)
	assert.Equal(t, PresentSentinel, p.Education[0].EndDate)
}

func TestExperience_TouchedAndComplete(t *testing.T) {
	tests := []struct {
		name     string
		exp      Experience
		touched  bool
		complete bool
	}{
		{"empty", Experience{}, false, false},
		{"whitespace only", Experience{JobTitle: "  "}, false, false},
		{"title only", Experience{JobTitle: "Engineer"}, true, false},
		{"missing start date", Experience{JobTitle: "Engineer", Company: "Acme", Description: "Work"}, true, false},
		{"all required", Experience{JobTitle: "Engineer", Company: "Acme", Description: "Work", StartDate: "2020-01"}, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.touched, tt.exp.Touched())
			assert.Equal(t, tt.complete, tt.exp.Complete())
		})
	}
}

func TestEducation_TouchedAndComplete(t *testing.T) {
	empty := Education{}
	assert.False(t, empty.Touched())

	partial := Education{Degree: "BSc"}
	assert.True(t, partial.Touched())
	assert.False(t, partial.Complete())

	full := Education{Degree: "BSc", Institution: "State", StartDate: "2015-09"}
	assert.True(t, full.Complete())
}

func TestAddSkill_DeduplicatesAndTrims(t *testing.T) {
	p := NewProfile()
	assert.True(t, p.AddSkill("  Go  "))
	assert.False(t, p.AddSkill("Go"))
	assert.False(t, p.AddSkill("   "))
	assert.Equal(t, []string{"Go"}, p.Skills)
}

func TestValidate_HeadlineTooLong(t *testing.T) {
	p := NewProfile()
	p.Headline = strings.Repeat("x", 221)
	assert.Error(t, p.Validate())

	p.Headline = strings.Repeat("x", 220)
	assert.NoError(t, p.Validate())
}

func TestValidate_RequiresPersonas(t *testing.T) {
	p := NewProfile()
	p.TargetPersonas = nil
	assert.Error(t, p.Validate())
}

func TestValidate_RejectsUnknownPersona(t *testing.T) {
	p := NewProfile()
	p.TargetPersonas = []Persona{"alien"}
	err := p.Validate()
	require.Error(t, err)
	var unknownErr *UnknownPersonaError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, Persona("alien"), unknownErr.Persona)
}

func TestProfile_WireFieldNames(t *testing.T) {
	p := NewProfile()
	p.Experiences[0] = Experience{JobTitle: "Engineer", StartDate: "2020-01", IsCurrent: true}
	data, err := json.Marshal(p)
	require.NoError(t, err)

	raw := string(data)
	assert.Contains(t, raw, `"jobTitle"`)
	assert.Contains(t, raw, `"startDate"`)
	assert.Contains(t, raw, `"isCurrent"`)
	assert.Contains(t, raw, `"target_personas"`)
	assert.Contains(t, raw, `"is_job_seeking"`)
	assert.Contains(t, raw, `"target_job_descriptions"`)
}

func TestPersona_IsValidAndLabel(t *testing.T) {
	assert.True(t, PersonaRecruiter.IsValid())
	assert.False(t, Persona("alien").IsValid())
	assert.Equal(t, "Hiring Managers", PersonaHiringManager.Label())
	assert.Equal(t, "alien", Persona("alien").Label())
}
