package types

import (
	"encoding/json"
	"strings"
)

// Section identifies one category of feedback produced by the analysis service.
type Section string

// The statically enumerated section keys. Each is carried on the wire with a
// "_feedback" suffix; Section values themselves use the bare form the streaming
// events reference.
const (
	SectionHeadline       Section = "headline"
	SectionAbout          Section = "about"
	SectionExperience     Section = "experience"
	SectionEducation      Section = "education"
	SectionSkills         Section = "skills"
	SectionProjects       Section = "projects"
	SectionCertifications Section = "certifications"
	SectionHolistic       Section = "holistic"
	SectionJobMatch       Section = "job_match"
)

const feedbackSuffix = "_feedback"

// AllSections returns every section key in display order.
func AllSections() []Section {
	return []Section{
		SectionHeadline,
		SectionAbout,
		SectionExperience,
		SectionEducation,
		SectionSkills,
		SectionProjects,
		SectionCertifications,
		SectionHolistic,
		SectionJobMatch,
	}
}

// IsValid reports whether s is one of the known section keys.
func (s Section) IsValid() bool {
	for _, known := range AllSections() {
		if s == known {
			return true
		}
	}
	return false
}

// FeedbackKey returns the wire form of the section key ("headline_feedback").
func (s Section) FeedbackKey() string {
	return string(s) + feedbackSuffix
}

// SectionFromFeedbackKey maps a wire key back to its section.
// Returns false for keys outside the enumerated set.
func SectionFromFeedbackKey(key string) (Section, bool) {
	s := Section(strings.TrimSuffix(key, feedbackSuffix))
	if !strings.HasSuffix(key, feedbackSuffix) || !s.IsValid() {
		return "", false
	}
	return s, true
}

// PersonaFeedback holds the accumulated feedback text per section for one persona.
// It marshals to and from the suffixed wire keys so the rest of the code never
// touches dynamic string keys.
type PersonaFeedback map[Section]string

// NewPersonaFeedback returns a feedback map with every section pre-initialized
// to empty text, matching the accumulator reset on persona_start.
func NewPersonaFeedback() PersonaFeedback {
	pf := make(PersonaFeedback, len(AllSections()))
	for _, s := range AllSections() {
		pf[s] = ""
	}
	return pf
}

// Clone returns an independent copy of the feedback map.
func (pf PersonaFeedback) Clone() PersonaFeedback {
	out := make(PersonaFeedback, len(pf))
	for k, v := range pf {
		out[k] = v
	}
	return out
}

// MarshalJSON encodes the map using the suffixed wire keys.
func (pf PersonaFeedback) MarshalJSON() ([]byte, error) {
	wire := make(map[string]string, len(pf))
	for section, text := range pf {
		wire[section.FeedbackKey()] = text
	}
	return json.Marshal(wire)
}

// UnmarshalJSON decodes the suffixed wire keys, dropping unknown ones.
func (pf *PersonaFeedback) UnmarshalJSON(data []byte) error {
	var wire map[string]string
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	out := make(PersonaFeedback, len(wire))
	for key, text := range wire {
		if section, ok := SectionFromFeedbackKey(key); ok {
			out[section] = text
		}
	}
	*pf = out
	return nil
}

// AnalysisResult is the final persona → section feedback mapping, as returned
// by the blocking endpoint and by the terminal complete event of the stream.
type AnalysisResult struct {
	Results map[Persona]PersonaFeedback `json:"results"`
}

// Personas returns the personas present in the result. Order is not defined;
// callers needing the wire arrival order track it separately.
func (r *AnalysisResult) Personas() []Persona {
	out := make([]Persona, 0, len(r.Results))
	for p := range r.Results {
		out = append(out, p)
	}
	return out
}
