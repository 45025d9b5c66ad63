package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/jonathan/profile-analyzer/internal/types"
)

// decodeProfile reads and validates the profile payload shared by both
// analysis endpoints.
func (s *Server) decodeProfile(w http.ResponseWriter, r *http.Request) (*types.Profile, bool) {
	var profile types.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return nil, false
	}

	profile.Normalize()
	if err := profile.Validate(); err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, "Invalid profile: "+err.Error())
		return nil, false
	}
	return &profile, true
}

// handleAnalyze produces the full result in one blocking response.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	profile, ok := s.decodeProfile(w, r)
	if !ok {
		return
	}

	results, err := s.generator.GenerateAll(r.Context(), profile)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Analysis failed: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, types.AnalysisResult{Results: results})
}

// handleAnalyzeStream produces the same result incrementally: persona and
// section boundary events with the feedback text sliced into small chunks,
// then the authoritative complete event carrying everything at once.
func (s *Server) handleAnalyzeStream(w http.ResponseWriter, r *http.Request) {
	profile, ok := s.decodeProfile(w, r)
	if !ok {
		return
	}

	sse, err := NewEventWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	if s.cfg.Verbose {
		log.Printf("[stream] starting analysis for %d persona(s)", len(profile.TargetPersonas))
	}

	personas := profile.TargetPersonas
	if len(personas) == 0 {
		personas = []types.Persona{types.PersonaGeneral}
	}

	results := make(map[types.Persona]types.PersonaFeedback, len(personas))
	for _, persona := range personas {
		if err := r.Context().Err(); err != nil {
			return // client went away
		}

		feedback, err := s.generator.GeneratePersona(r.Context(), profile, persona)
		if err != nil {
			sse.Error("Analysis failed: "+err.Error(), true)
			return
		}
		results[persona] = feedback

		if err := sse.PersonaStart(persona); err != nil {
			return
		}
		for _, section := range types.AllSections() {
			text := feedback[section]
			if strings.TrimSpace(text) == "" {
				continue
			}
			if err := s.streamSection(sse, section, text); err != nil {
				return
			}
		}
		if err := sse.PersonaComplete(persona); err != nil {
			return
		}
	}

	if err := sse.Complete(results); err != nil {
		return
	}

	if s.cfg.Verbose {
		log.Printf("[stream] analysis complete")
	}
}

// streamSection emits one section's boundary events with the text sliced
// into chunks, never splitting a UTF-8 rune.
func (s *Server) streamSection(sse *EventWriter, section types.Section, text string) error {
	if err := sse.SectionStart(section); err != nil {
		return err
	}
	for _, chunk := range splitChunks(text, s.cfg.StreamChunkSize) {
		if err := sse.Chunk(section, chunk); err != nil {
			return err
		}
	}
	return sse.SectionComplete(section)
}

func splitChunks(text string, size int) []string {
	if size <= 0 {
		return []string{text}
	}

	var chunks []string
	current := make([]rune, 0, size)
	for _, r := range text {
		current = append(current, r)
		if len(current) >= size {
			chunks = append(chunks, string(current))
			current = current[:0]
		}
	}
	if len(current) > 0 {
		chunks = append(chunks, string(current))
	}
	return chunks
}
