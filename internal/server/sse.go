package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jonathan/profile-analyzer/internal/types"
)

// EventWriter frames analysis events onto the incremental channel. Every
// frame is a single `data: <json>` line followed by a blank separator, the
// format the client's frame decoder expects.
type EventWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewEventWriter prepares the response for event streaming.
func NewEventWriter(w http.ResponseWriter) (*EventWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	return &EventWriter{w: w, flusher: flusher}, nil
}

// writeFrame sends one encoded event and flushes it to the client.
func (e *EventWriter) writeFrame(payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(e.w, "data: %s\n\n", data); err != nil {
		return err
	}
	e.flusher.Flush()
	return nil
}

// PersonaStart announces analysis for a persona.
func (e *EventWriter) PersonaStart(persona types.Persona) error {
	return e.writeFrame(map[string]any{"type": "persona_start", "persona": persona})
}

// SectionStart announces a section within the current persona.
func (e *EventWriter) SectionStart(section types.Section) error {
	return e.writeFrame(map[string]any{"type": "section_start", "section": section})
}

// Chunk sends a slice of feedback text for a section.
func (e *EventWriter) Chunk(section types.Section, text string) error {
	return e.writeFrame(map[string]any{"type": "stream", "section": section, "chunk": text})
}

// SectionComplete marks a section finished.
func (e *EventWriter) SectionComplete(section types.Section) error {
	return e.writeFrame(map[string]any{"type": "section_complete", "section": section})
}

// PersonaComplete marks the current persona finished.
func (e *EventWriter) PersonaComplete(persona types.Persona) error {
	return e.writeFrame(map[string]any{"type": "persona_complete", "persona": persona})
}

// Complete sends the authoritative final result and ends the logical stream.
func (e *EventWriter) Complete(results map[types.Persona]types.PersonaFeedback) error {
	return e.writeFrame(map[string]any{"type": "complete", "results": results})
}

// Error sends an error event; triggerFallback instructs the client to abandon
// the stream and use the blocking endpoint.
func (e *EventWriter) Error(message string, triggerFallback bool) error {
	return e.writeFrame(map[string]any{
		"type":             "error",
		"message":          message,
		"trigger_fallback": triggerFallback,
	})
}
