// Package types provides type definitions for structured data used throughout the profile-analyzer system.
package types

// Persona identifies a target audience the profile feedback is generated for.
type Persona string

// The fixed set of personas the analysis service understands.
const (
	PersonaGeneral       Persona = "general"
	PersonaRecruiter     Persona = "recruiter"
	PersonaHiringManager Persona = "hiring_manager"
	PersonaClient        Persona = "client"
	PersonaInvestor      Persona = "investor"
	PersonaPeer          Persona = "peer"
)

// PersonaInfo describes a persona for display purposes.
type PersonaInfo struct {
	ID          Persona `json:"id"`
	Label       string  `json:"label"`
	Description string  `json:"description"`
}

// AllPersonas returns the persona catalog in display order.
func AllPersonas() []PersonaInfo {
	return []PersonaInfo{
		{ID: PersonaGeneral, Label: "General Audience", Description: "Broad professional appeal"},
		{ID: PersonaRecruiter, Label: "Recruiters", Description: "Optimized for recruiter searches"},
		{ID: PersonaHiringManager, Label: "Hiring Managers", Description: "Technical fit evaluation"},
		{ID: PersonaClient, Label: "Potential Clients", Description: "Service/expertise focus"},
		{ID: PersonaInvestor, Label: "Investors", Description: "Business potential emphasis"},
		{ID: PersonaPeer, Label: "Industry Peers", Description: "Collaboration opportunities"},
	}
}

// IsValid reports whether p is one of the known personas.
func (p Persona) IsValid() bool {
	switch p {
	case PersonaGeneral, PersonaRecruiter, PersonaHiringManager, PersonaClient, PersonaInvestor, PersonaPeer:
		return true
	}
	return false
}

// Label returns the display label for a persona, falling back to the raw identifier.
func (p Persona) Label() string {
	for _, info := range AllPersonas() {
		if info.ID == p {
			return info.Label
		}
	}
	return string(p)
}
