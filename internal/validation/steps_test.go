package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/profile-analyzer/internal/types"
)

// completeProfile returns a profile that passes every step gate.
func completeProfile() *types.Profile {
	p := types.NewProfile()
	p.Headline = "Senior Backend Engineer"
	p.About = "Ten years building distributed systems."
	p.Experiences = []types.Experience{{
		JobTitle:    "Engineer",
		Company:     "Acme",
		Description: "Built things",
		StartDate:   "2020-01",
	}}
	p.Education = []types.Education{{
		Degree:      "BSc Computer Science",
		Institution: "State University",
		StartDate:   "2012-09",
	}}
	p.Skills = []string{"Go", "PostgreSQL", "Kubernetes"}
	p.TargetPersonas = []types.Persona{types.PersonaGeneral}
	return p
}

func TestValidateAll_CompleteProfilePasses(t *testing.T) {
	step, outcome := ValidateAll(completeProfile())
	assert.True(t, outcome.Passed)
	assert.Zero(t, step)
}

func TestValidateStep1_BlankHeadlineFails(t *testing.T) {
	p := completeProfile()
	p.Headline = "   "
	outcome := ValidateStep(p, StepHeadlineSummary)
	require.False(t, outcome.Passed)
	assert.Contains(t, outcome.Message, "headline")
}

func TestValidateStep1_BlankAboutFails(t *testing.T) {
	p := completeProfile()
	p.About = ""
	outcome := ValidateStep(p, StepHeadlineSummary)
	require.False(t, outcome.Passed)
	assert.Contains(t, outcome.Message, "About")
}

func TestValidateStep2_NoExperienceFails(t *testing.T) {
	p := completeProfile()
	p.Experiences = []types.Experience{{}}
	outcome := ValidateStep(p, StepExperienceEducation)
	require.False(t, outcome.Passed)
	assert.Equal(t, "Please add at least one work experience.", outcome.Message)
}

// A touched but incomplete entry fails even when an untouched empty entry
// sits alongside it.
func TestValidateStep2_TouchedIncompleteExperienceFails(t *testing.T) {
	p := completeProfile()
	p.Experiences = []types.Experience{
		{JobTitle: "Engineer"}, // touched, missing company/description/start
		{},                     // untouched placeholder, ignored
	}
	outcome := ValidateStep(p, StepExperienceEducation)
	require.False(t, outcome.Passed)
	assert.Contains(t, outcome.Message, "Job Title, Company, Start Date")
}

func TestValidateStep2_UntouchedEntriesIgnored(t *testing.T) {
	p := completeProfile()
	p.Experiences = append(p.Experiences, types.Experience{})
	p.Education = append(p.Education, types.Education{})
	outcome := ValidateStep(p, StepExperienceEducation)
	assert.True(t, outcome.Passed)
}

func TestValidateStep2_EducationMissingDatesFails(t *testing.T) {
	p := completeProfile()
	p.Education = []types.Education{{Degree: "BSc", Institution: "State"}}
	outcome := ValidateStep(p, StepExperienceEducation)
	require.False(t, outcome.Passed)
	assert.Contains(t, outcome.Message, "education entries including dates")
}

func TestValidateStep2_NoEducationFails(t *testing.T) {
	p := completeProfile()
	p.Education = []types.Education{{}}
	outcome := ValidateStep(p, StepExperienceEducation)
	require.False(t, outcome.Passed)
	assert.Equal(t, "Please add at least one education entry.", outcome.Message)
}

func TestValidateStep3_SkillCountMessage(t *testing.T) {
	p := completeProfile()
	p.Skills = []string{"Go"}
	outcome := ValidateStep(p, StepSkillsPortfolio)
	require.False(t, outcome.Passed)
	assert.Equal(t, "Please add at least 2 more skill(s). You currently have 1.", outcome.Message)
}

func TestValidateStep3_ExactMinimumPasses(t *testing.T) {
	p := completeProfile()
	p.Skills = []string{"Go", "SQL", "Docker"}
	outcome := ValidateStep(p, StepSkillsPortfolio)
	assert.True(t, outcome.Passed)
}

func TestValidateStep4_NoPersonasFails(t *testing.T) {
	p := completeProfile()
	p.TargetPersonas = nil
	outcome := ValidateStep(p, StepTargetAudience)
	require.False(t, outcome.Passed)
	assert.Contains(t, outcome.Message, "target audience")
}

func TestValidateStep4_JobSeekingRequiresLongDescription(t *testing.T) {
	p := completeProfile()
	p.IsJobSeeking = true
	p.TargetJobDescriptions = []string{"too short"}
	outcome := ValidateStep(p, StepTargetAudience)
	require.False(t, outcome.Passed)
	assert.Contains(t, outcome.Message, "more than 50 characters")
}

func TestValidateStep4_ExactBoundaryLengthFails(t *testing.T) {
	p := completeProfile()
	p.IsJobSeeking = true
	// Exactly 50 characters does not pass; the gate requires strictly more.
	p.TargetJobDescriptions = []string{strings.Repeat("a", 50)}
	outcome := ValidateStep(p, StepTargetAudience)
	assert.False(t, outcome.Passed)

	p.TargetJobDescriptions = []string{strings.Repeat("a", 51)}
	outcome = ValidateStep(p, StepTargetAudience)
	assert.True(t, outcome.Passed)
}

func TestValidateStep4_WhitespacePaddingDoesNotCount(t *testing.T) {
	p := completeProfile()
	p.IsJobSeeking = true
	p.TargetJobDescriptions = []string{"short" + strings.Repeat(" ", 60)}
	outcome := ValidateStep(p, StepTargetAudience)
	assert.False(t, outcome.Passed)
}

func TestValidateStep4_NotJobSeekingSkipsDescriptions(t *testing.T) {
	p := completeProfile()
	p.IsJobSeeking = false
	p.TargetJobDescriptions = []string{""}
	outcome := ValidateStep(p, StepTargetAudience)
	assert.True(t, outcome.Passed)
}

func TestValidateAll_ReturnsFirstFailingStep(t *testing.T) {
	p := completeProfile()
	p.About = ""
	p.Skills = nil
	step, outcome := ValidateAll(p)
	assert.Equal(t, StepHeadlineSummary, step)
	assert.False(t, outcome.Passed)
}

func TestValidateStep_UnknownStepPasses(t *testing.T) {
	outcome := ValidateStep(types.NewProfile(), 99)
	assert.True(t, outcome.Passed)
}
