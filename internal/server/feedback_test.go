package server

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/profile-analyzer/internal/types"
)

func TestGeneratePersona_AllSectionsPresent(t *testing.T) {
	g := &Generator{}
	feedback, err := g.GeneratePersona(context.Background(), serverTestProfile(), types.PersonaRecruiter)
	require.NoError(t, err)
	require.Len(t, feedback, len(types.AllSections()))
	assert.NotEmpty(t, feedback[types.SectionHeadline])
	assert.NotEmpty(t, feedback[types.SectionHolistic])
}

func TestGeneratePersona_Deterministic(t *testing.T) {
	g := &Generator{}
	p := serverTestProfile()
	first, err := g.GeneratePersona(context.Background(), p, types.PersonaClient)
	require.NoError(t, err)
	second, err := g.GeneratePersona(context.Background(), p, types.PersonaClient)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerateAll_DefaultsToGeneralPersona(t *testing.T) {
	g := &Generator{}
	p := serverTestProfile()
	p.TargetPersonas = nil
	results, err := g.GenerateAll(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results, types.PersonaGeneral)
}

func TestSection_EmptyProfileGetsGuidance(t *testing.T) {
	g := &Generator{}
	p := types.NewProfile()
	assert.Contains(t, g.Section(p, types.PersonaGeneral, types.SectionHeadline), "No headline provided")
	assert.Contains(t, g.Section(p, types.PersonaGeneral, types.SectionAbout), "No About section")
	assert.Contains(t, g.Section(p, types.PersonaGeneral, types.SectionSkills), "No skills")
}

func TestSection_HeadlineMentionsLength(t *testing.T) {
	g := &Generator{}
	p := types.NewProfile()
	p.Headline = "Engineer"
	text := g.Section(p, types.PersonaGeneral, types.SectionHeadline)
	assert.Contains(t, text, "8 characters")
	assert.Contains(t, text, "short")
}

func TestSection_ExperienceCountsQuantifiedEntries(t *testing.T) {
	g := &Generator{}
	p := types.NewProfile()
	p.Experiences = []types.Experience{
		{JobTitle: "A", Description: "Improved throughput by 30%"},
		{JobTitle: "B", Description: "Did various things"},
	}
	text := g.Section(p, types.PersonaGeneral, types.SectionExperience)
	assert.Contains(t, text, "2 experience entries")
	assert.Contains(t, text, "Only 1 of them quantify")
}

func TestSection_JobMatchRequiresJobSeeking(t *testing.T) {
	g := &Generator{}
	p := serverTestProfile()
	p.IsJobSeeking = false
	assert.Empty(t, g.Section(p, types.PersonaGeneral, types.SectionJobMatch))
}

func TestSection_JobMatchSkipsShortDescriptions(t *testing.T) {
	g := &Generator{}
	p := serverTestProfile()
	p.IsJobSeeking = true
	p.TargetJobDescriptions = []string{"too short"}
	assert.Empty(t, g.Section(p, types.PersonaGeneral, types.SectionJobMatch))
}

func TestSection_JobMatchFindsOverlappingSkills(t *testing.T) {
	g := &Generator{}
	p := serverTestProfile()
	p.Skills = []string{"Go", "Spark"}
	p.IsJobSeeking = true
	p.TargetJobDescriptions = []string{
		"We are hiring a data engineer fluent in Spark and distributed processing pipelines.",
	}
	text := g.Section(p, types.PersonaGeneral, types.SectionJobMatch)
	require.NotEmpty(t, text)
	assert.Contains(t, text, "JOB MATCH ANALYSIS #1")
	assert.Contains(t, text, "spark")
	assert.Contains(t, text, "Match score: 50/100")
}

func TestSection_JobMatchMultipleDescriptions(t *testing.T) {
	g := &Generator{}
	p := serverTestProfile()
	p.IsJobSeeking = true
	long := strings.Repeat("requirements and responsibilities ", 3)
	p.TargetJobDescriptions = []string{long, "short", long}
	text := g.Section(p, types.PersonaGeneral, types.SectionJobMatch)
	assert.Contains(t, text, "JOB MATCH ANALYSIS #1")
	assert.Contains(t, text, "JOB MATCH ANALYSIS #2")
	assert.NotContains(t, text, "JOB MATCH ANALYSIS #3")
}

func TestHolistic_NamesWeakAreas(t *testing.T) {
	g := &Generator{}
	p := types.NewProfile()
	text := g.Section(p, types.PersonaInvestor, types.SectionHolistic)
	assert.Contains(t, text, "headline")
	assert.Contains(t, text, "about")
	assert.Contains(t, text, "skills")
	assert.Contains(t, text, "investors")
}

func TestPersonaAngle_DistinctPerPersona(t *testing.T) {
	seen := make(map[string]bool)
	for _, info := range types.AllPersonas() {
		angle := personaAngle(info.ID)
		assert.False(t, seen[angle], "duplicate angle for %s", info.ID)
		seen[angle] = true
	}
}
