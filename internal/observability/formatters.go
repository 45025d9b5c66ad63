// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/profile-analyzer/internal/types"
	"github.com/jonathan/profile-analyzer/internal/validation"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
)

// Printer handles formatted terminal output.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		for len(line) > boxWidth-4 {
			fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line[:boxWidth-4])
			line = line[boxWidth-4:]
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintValidationOutcome outputs the result of running the step gate.
func (p *Printer) PrintValidationOutcome(step int, outcome validation.Outcome) {
	if outcome.Passed {
		p.printBox("VALIDATION PASSED", "All form steps are complete. The profile is ready for analysis.")
		return
	}
	content := fmt.Sprintf("Failed at step %d:\n\n%s", step, outcome.Message)
	p.printBox("VALIDATION FAILED", content)
}

// PrintProfileSummary outputs a short overview of the profile being analyzed.
func (p *Printer) PrintProfileSummary(profile *types.Profile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Headline:       %s\n", truncate(profile.Headline, 50)))
	sb.WriteString(fmt.Sprintf("Experiences:    %d\n", len(profile.Experiences)))
	sb.WriteString(fmt.Sprintf("Education:      %d\n", len(profile.Education)))
	sb.WriteString(fmt.Sprintf("Skills:         %d\n", len(profile.Skills)))

	personas := make([]string, 0, len(profile.TargetPersonas))
	for _, persona := range profile.TargetPersonas {
		personas = append(personas, persona.Label())
	}
	sb.WriteString(fmt.Sprintf("Audiences:      %s\n", strings.Join(personas, ", ")))
	if profile.IsJobSeeking {
		sb.WriteString(fmt.Sprintf("Job seeking:    yes (%d target descriptions)", len(profile.TargetJobDescriptions)))
	} else {
		sb.WriteString("Job seeking:    no")
	}

	p.printBox("PROFILE", sb.String())
}

// PrintAnalysisResult outputs the full per-persona feedback. The active
// persona, when present in the result, is printed first.
func (p *Printer) PrintAnalysisResult(result *types.AnalysisResult, active types.Persona) {
	if result == nil || len(result.Results) == 0 {
		p.printBox("ANALYSIS RESULT", "No feedback was produced.")
		return
	}

	personas := result.Personas()
	sort.Slice(personas, func(i, j int) bool {
		if personas[i] == active {
			return true
		}
		if personas[j] == active {
			return false
		}
		return personas[i] < personas[j]
	})

	for _, persona := range personas {
		feedback := result.Results[persona]
		var sb strings.Builder
		for i, section := range types.AllSections() {
			text, ok := feedback[section]
			if !ok || strings.TrimSpace(text) == "" {
				continue
			}
			if i > 0 && sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(string(section))))
			sb.WriteString(text)
			sb.WriteString("\n")
		}
		if sb.Len() == 0 {
			sb.WriteString("(no feedback)")
		}
		p.printBox(fmt.Sprintf("FEEDBACK — %s", strings.ToUpper(persona.Label())), strings.TrimSuffix(sb.String(), "\n"))
	}
}

// PrintWarnings outputs advisory messages collected during streaming.
func (p *Printer) PrintWarnings(warnings []string) {
	if len(warnings) == 0 {
		return
	}
	var sb strings.Builder
	for i, w := range warnings {
		sb.WriteString(fmt.Sprintf("⚠ %s", w))
		if i < len(warnings)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox("ADVISORIES", sb.String())
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
