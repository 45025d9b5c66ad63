// Package validation implements the multi-stage gate that decides when a
// profile may proceed past each form step and when it may be submitted.
package validation

import (
	"fmt"
	"strings"

	"github.com/jonathan/profile-analyzer/internal/types"
)

// Step numbers of the profile form.
const (
	StepHeadlineSummary     = 1
	StepExperienceEducation = 2
	StepSkillsPortfolio     = 3
	StepTargetAudience      = 4

	// MinSkills is the minimum number of skills required on step 3.
	MinSkills = 3

	// MinJobDescriptionLen is the length a job description must exceed when
	// job-seeking mode is enabled on step 4.
	MinJobDescriptionLen = 50
)

// Outcome is the result of validating one step. The zero value is a pass.
type Outcome struct {
	Passed  bool
	Message string
}

// Pass returns a passing outcome.
func Pass() Outcome {
	return Outcome{Passed: true}
}

// Fail returns a failing outcome with the given reason.
func Fail(format string, args ...any) Outcome {
	return Outcome{Passed: false, Message: fmt.Sprintf(format, args...)}
}

// ValidateStep checks the profile against the rules of a single step.
// It has no side effects; callers gate step transitions on the outcome and
// surface the message. Unknown steps pass.
func ValidateStep(p *types.Profile, step int) Outcome {
	switch step {
	case StepHeadlineSummary:
		return validateHeadlineSummary(p)
	case StepExperienceEducation:
		return validateExperienceEducation(p)
	case StepSkillsPortfolio:
		return validateSkillsPortfolio(p)
	case StepTargetAudience:
		return validateTargetAudience(p)
	default:
		return Pass()
	}
}

// ValidateAll runs every step gate in order and returns the first failure,
// along with the step that failed. Used before issuing an analysis request.
func ValidateAll(p *types.Profile) (int, Outcome) {
	for step := StepHeadlineSummary; step <= StepTargetAudience; step++ {
		if outcome := ValidateStep(p, step); !outcome.Passed {
			return step, outcome
		}
	}
	return 0, Pass()
}

func validateHeadlineSummary(p *types.Profile) Outcome {
	if strings.TrimSpace(p.Headline) == "" {
		return Fail("Please enter your professional headline before continuing.")
	}
	if strings.TrimSpace(p.About) == "" {
		return Fail("Please fill in your About section before continuing.")
	}
	return Pass()
}

func validateExperienceEducation(p *types.Profile) Outcome {
	touched := 0
	incomplete := false
	for i := range p.Experiences {
		if !p.Experiences[i].Touched() {
			continue
		}
		touched++
		if !p.Experiences[i].Complete() {
			incomplete = true
		}
	}
	if touched == 0 {
		return Fail("Please add at least one work experience.")
	}
	if incomplete {
		return Fail("Please complete all experience entries including Job Title, Company, Start Date, and Description. Remove any empty entries.")
	}

	touched = 0
	incomplete = false
	for i := range p.Education {
		if !p.Education[i].Touched() {
			continue
		}
		touched++
		if !p.Education[i].Complete() {
			incomplete = true
		}
	}
	if touched == 0 {
		return Fail("Please add at least one education entry.")
	}
	if incomplete {
		return Fail("Please complete all education entries including dates.")
	}
	return Pass()
}

func validateSkillsPortfolio(p *types.Profile) Outcome {
	if len(p.Skills) < MinSkills {
		return Fail("Please add at least %d more skill(s). You currently have %d.",
			MinSkills-len(p.Skills), len(p.Skills))
	}
	return Pass()
}

func validateTargetAudience(p *types.Profile) Outcome {
	if len(p.TargetPersonas) == 0 {
		return Fail("Please select at least one target audience before analyzing.")
	}
	if p.IsJobSeeking {
		ok := false
		for _, desc := range p.TargetJobDescriptions {
			if len(strings.TrimSpace(desc)) > MinJobDescriptionLen {
				ok = true
				break
			}
		}
		if !ok {
			return Fail("Please add at least one job description with more than %d characters when Job Seeking Mode is enabled.", MinJobDescriptionLen)
		}
	}
	return Pass()
}
