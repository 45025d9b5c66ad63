package stream

import "github.com/jonathan/profile-analyzer/internal/types"

// EventType discriminates the events carried on the incremental channel.
type EventType string

// The closed set of event types the analysis service emits.
const (
	EventPersonaStart    EventType = "persona_start"
	EventSectionStart    EventType = "section_start"
	EventChunk           EventType = "stream"
	EventSectionComplete EventType = "section_complete"
	EventPersonaComplete EventType = "persona_complete"
	EventComplete        EventType = "complete"
	EventError           EventType = "error"
)

// Event is one decoded stream event. Which fields are meaningful depends on
// Type: Persona for persona_start, Section for section events, Chunk for
// stream, Results/PersonaOrder for complete, Message/TriggerFallback for error.
type Event struct {
	Type    EventType
	Persona types.Persona
	Section types.Section
	Chunk   string

	// Results is the authoritative final mapping carried by a complete event.
	Results map[types.Persona]types.PersonaFeedback
	// PersonaOrder preserves the key order of Results as received on the wire,
	// which selects the initially active persona.
	PersonaOrder []types.Persona

	Message         string
	TriggerFallback bool
}
