package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// PresentSentinel is the end-date value used for entries marked as currently active.
const PresentSentinel = "Present"

// Experience represents one work experience entry.
// JSON field names follow the analysis service wire contract.
type Experience struct {
	JobTitle    string `json:"jobTitle"`
	Company     string `json:"company"`
	Description string `json:"description"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate,omitempty"`
	IsCurrent   bool   `json:"isCurrent"`
}

// Touched reports whether the user has started filling in this entry.
func (e *Experience) Touched() bool {
	return strings.TrimSpace(e.JobTitle) != "" ||
		strings.TrimSpace(e.Company) != "" ||
		strings.TrimSpace(e.Description) != ""
}

// Complete reports whether all required fields of a touched entry are filled.
func (e *Experience) Complete() bool {
	return strings.TrimSpace(e.JobTitle) != "" &&
		strings.TrimSpace(e.Company) != "" &&
		strings.TrimSpace(e.Description) != "" &&
		strings.TrimSpace(e.StartDate) != ""
}

// Education represents one education entry.
type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Description string `json:"description"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate,omitempty"`
	IsCurrent   bool   `json:"isCurrent"`
}

// Touched reports whether the user has started filling in this entry.
func (e *Education) Touched() bool {
	return strings.TrimSpace(e.Degree) != "" || strings.TrimSpace(e.Institution) != ""
}

// Complete reports whether all required fields of a touched entry are filled.
func (e *Education) Complete() bool {
	return strings.TrimSpace(e.Degree) != "" &&
		strings.TrimSpace(e.Institution) != "" &&
		strings.TrimSpace(e.StartDate) != ""
}

// Project represents one portfolio project entry.
type Project struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Certification represents one certification entry.
type Certification struct {
	Name         string `json:"name"`
	Organization string `json:"organization"`
}

// Profile is the full professional profile collected by the multi-step form
// and submitted to the analysis service.
type Profile struct {
	Headline              string          `json:"headline" validate:"max=220"`
	About                 string          `json:"about"`
	Experiences           []Experience    `json:"experiences"`
	Education             []Education     `json:"education"`
	Skills                []string        `json:"skills"`
	Projects              []Project       `json:"projects"`
	Certifications        []Certification `json:"certifications"`
	TargetPersonas        []Persona       `json:"target_personas" validate:"required,min=1"`
	IsJobSeeking          bool            `json:"is_job_seeking"`
	TargetJobDescriptions []string        `json:"target_job_descriptions"`
}

// NewProfile returns a profile with the default empty entries the form starts from.
func NewProfile() *Profile {
	return &Profile{
		Experiences:           []Experience{{}},
		Education:             []Education{{}},
		Skills:                []string{},
		Projects:              []Project{{}},
		Certifications:        []Certification{{}},
		TargetPersonas:        []Persona{PersonaGeneral},
		TargetJobDescriptions: []string{""},
	}
}

// Normalize forces the end date of currently-active entries to the Present sentinel.
func (p *Profile) Normalize() {
	for i := range p.Experiences {
		if p.Experiences[i].IsCurrent {
			p.Experiences[i].EndDate = PresentSentinel
		}
	}
	for i := range p.Education {
		if p.Education[i].IsCurrent {
			p.Education[i].EndDate = PresentSentinel
		}
	}
}

// AddSkill appends a skill if it is non-blank and not already present.
func (p *Profile) AddSkill(skill string) bool {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return false
	}
	for _, s := range p.Skills {
		if s == skill {
			return false
		}
	}
	p.Skills = append(p.Skills, skill)
	return true
}

// Validate validates the structural constraints of the profile using the validator.
// Step-by-step form gating lives in the validation package; this only checks
// field-level invariants (headline length, persona set shape and membership).
func (p *Profile) Validate() error {
	validate := validator.New()
	if err := validate.Struct(p); err != nil {
		return err
	}
	for _, persona := range p.TargetPersonas {
		if !persona.IsValid() {
			return &UnknownPersonaError{Persona: persona}
		}
	}
	return nil
}

// UnknownPersonaError indicates a persona outside the supported set.
type UnknownPersonaError struct {
	Persona Persona
}

func (e *UnknownPersonaError) Error() string {
	return "unknown persona: " + string(e.Persona)
}
