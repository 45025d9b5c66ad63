package stream

import (
	"bytes"
	"encoding/json"
	"log"
	"strings"

	"github.com/jonathan/profile-analyzer/internal/types"
)

// DataPrefix marks lines that carry an encoded event. Anything else on the
// channel (blank separators, keep-alive comments) is frame noise.
const DataPrefix = "data: "

// wireEvent mirrors the JSON payload of one frame.
type wireEvent struct {
	Type            string                                  `json:"type"`
	Persona         types.Persona                           `json:"persona,omitempty"`
	Section         types.Section                           `json:"section,omitempty"`
	Chunk           string                                  `json:"chunk,omitempty"`
	Results         map[types.Persona]types.PersonaFeedback `json:"results,omitempty"`
	Message         string                                  `json:"message,omitempty"`
	TriggerFallback bool                                    `json:"trigger_fallback,omitempty"`
}

// Parser turns complete lines into typed events. A malformed line never aborts
// the stream: it is counted, optionally logged, and skipped.
type Parser struct {
	// Skipped counts lines that carried the data prefix but failed to decode.
	// Frame noise (blank lines, non-data lines) is not counted.
	Skipped int

	// Verbose enables logging of skipped payloads.
	Verbose bool
}

// ParseLine parses one complete line. The second return value is false when
// the line carries no event (frame noise or a malformed payload).
func (p *Parser) ParseLine(line string) (Event, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || !strings.HasPrefix(trimmed, DataPrefix) {
		return Event{}, false
	}

	payload := strings.TrimSpace(trimmed[len(DataPrefix):])
	if payload == "" {
		return Event{}, false
	}

	var wire wireEvent
	if err := json.Unmarshal([]byte(payload), &wire); err != nil {
		p.skip(payload, err)
		return Event{}, false
	}

	event := Event{
		Type:            EventType(wire.Type),
		Persona:         wire.Persona,
		Section:         wire.Section,
		Chunk:           wire.Chunk,
		Results:         wire.Results,
		Message:         wire.Message,
		TriggerFallback: wire.TriggerFallback,
	}

	switch event.Type {
	case EventPersonaStart, EventSectionStart, EventChunk,
		EventSectionComplete, EventPersonaComplete, EventError:
		return event, true
	case EventComplete:
		event.PersonaOrder = personaKeyOrder([]byte(payload))
		return event, true
	default:
		// Unknown event types are dropped the same way as malformed payloads
		// so a newer service does not break older clients.
		p.skip(payload, nil)
		return Event{}, false
	}
}

func (p *Parser) skip(payload string, err error) {
	p.Skipped++
	if p.Verbose {
		if err != nil {
			log.Printf("[stream] skipping malformed frame: %v (payload: %.80s)", err, payload)
		} else {
			log.Printf("[stream] skipping unknown frame (payload: %.80s)", payload)
		}
	}
}

// personaKeyOrder extracts the key order of the "results" object from a raw
// complete-event payload. Go maps do not preserve JSON key order, but the
// first persona on the wire becomes the initially active one, so the order is
// recovered by walking the token stream.
func personaKeyOrder(payload []byte) []types.Persona {
	var envelope struct {
		Results json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil || len(envelope.Results) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(envelope.Results))
	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		return nil
	}

	var order []types.Persona
	depth := 1
	expectKey := true
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case json.Delim:
			switch t {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
				if depth <= 0 {
					return order
				}
				if depth == 1 {
					expectKey = true
				}
			}
		case string:
			if depth == 1 {
				if expectKey {
					order = append(order, types.Persona(t))
					expectKey = false
				} else {
					expectKey = true
				}
			}
		default:
			if depth == 1 {
				expectKey = true
			}
		}
	}
	return order
}
