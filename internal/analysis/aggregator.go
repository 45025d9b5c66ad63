// Package analysis implements the state machine that reconstructs structured
// analysis results from the typed event sequence of the incremental channel.
package analysis

import (
	"fmt"
	"sync"

	"github.com/jonathan/profile-analyzer/internal/stream"
	"github.com/jonathan/profile-analyzer/internal/types"
)

// State names the aggregator's position in the event protocol.
type State string

// Aggregator states. Error is reachable from any state.
const (
	StateIdle            State = "idle"
	StateAwaitingPersona State = "awaiting_persona"
	StateInSection       State = "in_section"
	StateSectionDone     State = "section_done"
	StatePersonaDone     State = "persona_done"
	StateComplete        State = "complete"
	StateError           State = "error"
)

// FatalStreamError signals that the service explicitly instructed the client
// to abandon the incremental path and fall back to the blocking endpoint.
type FatalStreamError struct {
	Message string
}

func (e *FatalStreamError) Error() string {
	return fmt.Sprintf("fatal stream error: %s", e.Message)
}

// Aggregator consumes stream events in arrival order and incrementally builds
// the persona → section → text mapping. Apply is not reentrant; events must be
// fed one at a time. Reads take snapshots so a presentation layer can observe
// progress while the stream is live.
type Aggregator struct {
	mu sync.Mutex

	state          State
	currentPersona types.Persona
	currentSection types.Section

	// live holds the in-progress accumulators, keyed by persona.
	live map[types.Persona]types.PersonaFeedback
	// snapshots holds the maps frozen by persona_complete events. These are
	// the values exposed if no terminal complete event ever arrives.
	snapshots    map[types.Persona]types.PersonaFeedback
	personaOrder []types.Persona

	// completed tracks the monotonic section-finished flags per persona.
	completed map[types.Persona]map[types.Section]bool

	// final, when set, is the authoritative result from a complete event.
	final         *types.AnalysisResult
	activePersona types.Persona
	expanded      map[types.Section]bool

	warnings []string
	applied  int
	status   string
}

// NewAggregator returns an aggregator in the idle state with empty results.
func NewAggregator() *Aggregator {
	return &Aggregator{
		state:     StateIdle,
		live:      make(map[types.Persona]types.PersonaFeedback),
		snapshots: make(map[types.Persona]types.PersonaFeedback),
		completed: make(map[types.Persona]map[types.Section]bool),
		expanded:  make(map[types.Section]bool),
	}
}

// Apply processes one event. It returns a *FatalStreamError when the event
// demands abandoning the incremental path; every other outcome is nil.
func (a *Aggregator) Apply(event stream.Event) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.applied++

	switch event.Type {
	case stream.EventPersonaStart:
		// A repeated persona_start without an intervening persona_complete
		// just switches context; previously snapshotted results survive.
		a.currentPersona = event.Persona
		a.currentSection = ""
		a.live[event.Persona] = types.NewPersonaFeedback()
		a.rememberPersona(event.Persona)
		a.state = StateAwaitingPersona
		a.status = fmt.Sprintf("Analyzing for %s...", event.Persona.Label())

	case stream.EventSectionStart:
		// Duplicate starts re-announce the section; accumulated text is kept.
		a.currentSection = event.Section
		a.state = StateInSection
		a.status = fmt.Sprintf("Analyzing %s...", event.Section)

	case stream.EventChunk:
		// The only mutation point, and it is append-only. A chunk for a
		// section that never saw section_start still accumulates.
		acc := a.live[a.currentPersona]
		if acc == nil {
			acc = types.NewPersonaFeedback()
			a.live[a.currentPersona] = acc
			a.rememberPersona(a.currentPersona)
		}
		acc[event.Section] += event.Chunk
		a.state = StateInSection

	case stream.EventSectionComplete:
		// Completion is a monotonic flag; later chunks may still append.
		flags := a.completed[a.currentPersona]
		if flags == nil {
			flags = make(map[types.Section]bool)
			a.completed[a.currentPersona] = flags
		}
		flags[event.Section] = true
		a.state = StateSectionDone

	case stream.EventPersonaComplete:
		if acc := a.live[a.currentPersona]; acc != nil {
			a.snapshots[a.currentPersona] = acc.Clone()
		}
		a.state = StatePersonaDone

	case stream.EventComplete:
		results := event.Results
		if results == nil {
			results = make(map[types.Persona]types.PersonaFeedback)
		}
		a.final = &types.AnalysisResult{Results: results}
		if len(event.PersonaOrder) > 0 {
			a.activePersona = event.PersonaOrder[0]
		}
		a.expanded = make(map[types.Section]bool)
		if feedback, ok := results[a.activePersona]; ok {
			for section := range feedback {
				if section != types.SectionHolistic {
					a.expanded[section] = true
				}
			}
		}
		a.state = StateComplete
		a.status = "Analysis complete!"

	case stream.EventError:
		if event.TriggerFallback {
			a.state = StateError
			return &FatalStreamError{Message: event.Message}
		}
		a.warnings = append(a.warnings, event.Message)
	}

	return nil
}

func (a *Aggregator) rememberPersona(p types.Persona) {
	for _, seen := range a.personaOrder {
		if seen == p {
			return
		}
	}
	a.personaOrder = append(a.personaOrder, p)
}

// Result returns the aggregated result: the authoritative complete payload if
// one arrived, otherwise the persona snapshots taken so far. The returned
// value is independent of the aggregator's internal state.
func (a *Aggregator) Result() *types.AnalysisResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.final != nil {
		return a.final
	}
	results := make(map[types.Persona]types.PersonaFeedback, len(a.snapshots))
	for _, persona := range a.personaOrder {
		if snapshot, ok := a.snapshots[persona]; ok {
			results[persona] = snapshot.Clone()
		}
	}
	return &types.AnalysisResult{Results: results}
}

// Progress returns a copy of the live accumulators for display while the
// stream is still open.
func (a *Aggregator) Progress() map[types.Persona]types.PersonaFeedback {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make(map[types.Persona]types.PersonaFeedback, len(a.live))
	for persona, acc := range a.live {
		out[persona] = acc.Clone()
	}
	return out
}

// SectionCompleted reports whether a section was marked finished for a persona.
func (a *Aggregator) SectionCompleted(persona types.Persona, section types.Section) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.completed[persona][section]
}

// State returns the current protocol state.
func (a *Aggregator) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Complete reports whether the terminal complete event was observed.
func (a *Aggregator) Complete() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.final != nil
}

// Applied returns the number of events processed.
func (a *Aggregator) Applied() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.applied
}

// ActivePersona returns the persona selected for initial display by the
// complete event, or the zero value if none was selected.
func (a *Aggregator) ActivePersona() types.Persona {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.activePersona
}

// ExpandedSections returns the sections hinted as pre-expanded for display.
func (a *Aggregator) ExpandedSections() map[types.Section]bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make(map[types.Section]bool, len(a.expanded))
	for section, v := range a.expanded {
		out[section] = v
	}
	return out
}

// Warnings returns the non-fatal error messages surfaced so far.
func (a *Aggregator) Warnings() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.warnings...)
}

// Status returns the transient status message, and CurrentSection the section
// label currently streaming. Both are cleared by ClearTransient.
func (a *Aggregator) Status() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// CurrentSection returns the section currently being streamed.
func (a *Aggregator) CurrentSection() types.Section {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.currentSection
}

// ClearTransient resets the in-flight status indicators so the next attempt
// starts clean. Accumulated results are untouched.
func (a *Aggregator) ClearTransient() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.status = ""
	a.currentSection = ""
}
