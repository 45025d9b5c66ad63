package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSection_FeedbackKey(t *testing.T) {
	assert.Equal(t, "headline_feedback", SectionHeadline.FeedbackKey())
	assert.Equal(t, "job_match_feedback", SectionJobMatch.FeedbackKey())
}

func TestSectionFromFeedbackKey(t *testing.T) {
	section, ok := SectionFromFeedbackKey("about_feedback")
	require.True(t, ok)
	assert.Equal(t, SectionAbout, section)

	_, ok = SectionFromFeedbackKey("about")
	assert.False(t, ok)

	_, ok = SectionFromFeedbackKey("made_up_feedback")
	assert.False(t, ok)
}

func TestAllSections_CoversNineSections(t *testing.T) {
	assert.Len(t, AllSections(), 9)
}

func TestNewPersonaFeedback_AllSectionsEmpty(t *testing.T) {
	pf := NewPersonaFeedback()
	require.Len(t, pf, len(AllSections()))
	for _, section := range AllSections() {
		text, ok := pf[section]
		assert.True(t, ok)
		assert.Empty(t, text)
	}
}

func TestPersonaFeedback_Clone(t *testing.T) {
	pf := NewPersonaFeedback()
	pf[SectionHeadline] = "original"
	clone := pf.Clone()
	clone[SectionHeadline] = "changed"
	assert.Equal(t, "original", pf[SectionHeadline])
}

func TestPersonaFeedback_MarshalUsesWireKeys(t *testing.T) {
	pf := PersonaFeedback{SectionHeadline: "Strong headline"}
	data, err := json.Marshal(pf)
	require.NoError(t, err)
	assert.JSONEq(t, `{"headline_feedback":"Strong headline"}`, string(data))
}

func TestPersonaFeedback_UnmarshalDropsUnknownKeys(t *testing.T) {
	var pf PersonaFeedback
	err := json.Unmarshal([]byte(`{"headline_feedback":"x","mystery_feedback":"y","about":"z"}`), &pf)
	require.NoError(t, err)
	require.Len(t, pf, 1)
	assert.Equal(t, "x", pf[SectionHeadline])
}

func TestAnalysisResult_DecodesFullPayload(t *testing.T) {
	payload := `{"results":{"recruiter":{"headline_feedback":"Good","holistic_feedback":"Fine"},"general":{"skills_feedback":"More"}}}`
	var result AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(payload), &result))

	require.Len(t, result.Results, 2)
	assert.Equal(t, "Good", result.Results[PersonaRecruiter][SectionHeadline])
	assert.Equal(t, "Fine", result.Results[PersonaRecruiter][SectionHolistic])
	assert.Equal(t, "More", result.Results[PersonaGeneral][SectionSkills])
	assert.ElementsMatch(t, []Persona{PersonaRecruiter, PersonaGeneral}, result.Personas())
}
