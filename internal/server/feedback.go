package server

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/profile-analyzer/internal/types"
)

// Generator produces deterministic, rule-based feedback for the local
// development server. It lets the client pipeline be exercised end-to-end
// without the production analysis service; no generated content leaves the
// rules below.
type Generator struct{}

// GenerateAll produces feedback for every requested persona. Within one
// persona the section analyses run concurrently, gathered the same way the
// blocking endpoint contract describes.
func (g *Generator) GenerateAll(ctx context.Context, profile *types.Profile) (map[types.Persona]types.PersonaFeedback, error) {
	personas := profile.TargetPersonas
	if len(personas) == 0 {
		personas = []types.Persona{types.PersonaGeneral}
	}

	results := make(map[types.Persona]types.PersonaFeedback, len(personas))
	for _, persona := range personas {
		feedback, err := g.GeneratePersona(ctx, profile, persona)
		if err != nil {
			return nil, err
		}
		results[persona] = feedback
	}
	return results, nil
}

// GeneratePersona produces the full section map for one persona.
func (g *Generator) GeneratePersona(ctx context.Context, profile *types.Profile, persona types.Persona) (types.PersonaFeedback, error) {
	feedback := types.NewPersonaFeedback()
	var mu sync.Mutex

	grp, ctx := errgroup.WithContext(ctx)
	for _, section := range types.AllSections() {
		if section == types.SectionHolistic {
			continue // needs the other sections first
		}
		grp.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			text := g.Section(profile, persona, section)
			mu.Lock()
			feedback[section] = text
			mu.Unlock()
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	feedback[types.SectionHolistic] = g.holistic(profile, persona, feedback)
	return feedback, nil
}

// Section produces the feedback text for a single section.
func (g *Generator) Section(profile *types.Profile, persona types.Persona, section types.Section) string {
	switch section {
	case types.SectionHeadline:
		return g.headline(profile, persona)
	case types.SectionAbout:
		return g.about(profile, persona)
	case types.SectionExperience:
		return g.experience(profile, persona)
	case types.SectionEducation:
		return g.education(profile)
	case types.SectionSkills:
		return g.skills(profile, persona)
	case types.SectionProjects:
		return g.projects(profile)
	case types.SectionCertifications:
		return g.certifications(profile)
	case types.SectionJobMatch:
		return g.jobMatch(profile)
	case types.SectionHolistic:
		return g.holistic(profile, persona, nil)
	default:
		return ""
	}
}

func personaAngle(persona types.Persona) string {
	switch persona {
	case types.PersonaRecruiter:
		return "recruiters scanning for searchable keywords"
	case types.PersonaHiringManager:
		return "hiring managers judging technical depth"
	case types.PersonaClient:
		return "potential clients looking for proven expertise"
	case types.PersonaInvestor:
		return "investors weighing business potential"
	case types.PersonaPeer:
		return "industry peers looking for collaboration signals"
	default:
		return "a general professional audience"
	}
}

func (g *Generator) headline(profile *types.Profile, persona types.Persona) string {
	headline := strings.TrimSpace(profile.Headline)
	if headline == "" {
		return "No headline provided. A compelling headline is crucial for profile visibility."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Your headline is %d characters (limit 220). ", len(headline)))
	switch {
	case len(headline) < 40:
		sb.WriteString("It is short; consider adding your specialty and the value you deliver. ")
	case len(headline) > 180:
		sb.WriteString("It is close to the limit; lead with the strongest phrase so it is not cut off. ")
	default:
		sb.WriteString("The length is in a good range. ")
	}
	if !containsDigit(headline) {
		sb.WriteString("Adding a concrete number (years, scale, results) makes it stand out. ")
	}
	sb.WriteString(fmt.Sprintf("Frame it for %s.", personaAngle(persona)))
	return sb.String()
}

func (g *Generator) about(profile *types.Profile, persona types.Persona) string {
	about := strings.TrimSpace(profile.About)
	if about == "" {
		return "No About section provided. This is a critical section that tells your professional story."
	}

	words := len(strings.Fields(about))
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Your About section runs %d words. ", words))
	switch {
	case words < 50:
		sb.WriteString("That is brief; expand on your strongest achievement and what you want next. ")
	case words > 400:
		sb.WriteString("That is long; tighten it so the first three lines carry the hook. ")
	default:
		sb.WriteString("The length reads well. ")
	}
	lower := strings.ToLower(about)
	if !strings.Contains(lower, "contact") && !strings.Contains(lower, "reach out") && !strings.Contains(lower, "connect") {
		sb.WriteString("It has no call to action; close with how to get in touch. ")
	}
	sb.WriteString(fmt.Sprintf("Keep the emphasis on what matters to %s.", personaAngle(persona)))
	return sb.String()
}

func (g *Generator) experience(profile *types.Profile, persona types.Persona) string {
	var described int
	var quantified int
	var current int
	for i := range profile.Experiences {
		exp := &profile.Experiences[i]
		if strings.TrimSpace(exp.Description) == "" {
			continue
		}
		described++
		if containsDigit(exp.Description) {
			quantified++
		}
		if exp.IsCurrent {
			current++
		}
	}
	if described == 0 {
		return "No experience descriptions provided. Strong descriptions are essential."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d experience entr%s carry descriptions. ", described, plural(described, "y", "ies")))
	if quantified < described {
		sb.WriteString(fmt.Sprintf("Only %d of them quantify results; add metrics (team size, revenue, latency) to the rest. ", quantified))
	} else {
		sb.WriteString("Every entry quantifies its results, which reads strongly. ")
	}
	if current == 0 {
		sb.WriteString("No role is marked as current; make sure your present position is flagged. ")
	}
	sb.WriteString(fmt.Sprintf("Order accomplishments so the ones relevant to %s come first.", personaAngle(persona)))
	return sb.String()
}

func (g *Generator) education(profile *types.Profile) string {
	touched := 0
	for i := range profile.Education {
		if profile.Education[i].Touched() {
			touched++
		}
	}
	if touched == 0 {
		return "No education information provided."
	}
	return fmt.Sprintf("%d education entr%s listed. Keep degree names exact and add coursework or honors only where they support your target role.",
		touched, plural(touched, "y", "ies"))
}

func (g *Generator) skills(profile *types.Profile, persona types.Persona) string {
	count := len(profile.Skills)
	if count == 0 {
		return "No skills listed."
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You list %d skill%s. ", count, plural(count, "", "s")))
	if count < 5 {
		sb.WriteString("Profiles with at least five skills surface in more searches; add the tools you use daily. ")
	}
	sb.WriteString(fmt.Sprintf("Put the three most relevant to %s at the top.", personaAngle(persona)))
	return sb.String()
}

func (g *Generator) projects(profile *types.Profile) string {
	named := 0
	for i := range profile.Projects {
		if strings.TrimSpace(profile.Projects[i].Name) != "" {
			named++
		}
	}
	if named == 0 {
		return "No projects listed."
	}
	return fmt.Sprintf("%d project%s listed. Lead each description with the outcome, then the part you personally built.",
		named, plural(named, "", "s"))
}

func (g *Generator) certifications(profile *types.Profile) string {
	named := 0
	for i := range profile.Certifications {
		if strings.TrimSpace(profile.Certifications[i].Name) != "" {
			named++
		}
	}
	if named == 0 {
		return "No certifications listed."
	}
	return fmt.Sprintf("%d certification%s listed. Drop any that expired or no longer match your direction.",
		named, plural(named, "", "s"))
}

func (g *Generator) jobMatch(profile *types.Profile) string {
	if !profile.IsJobSeeking {
		return ""
	}

	skillSet := make(map[string]bool, len(profile.Skills))
	for _, s := range profile.Skills {
		skillSet[strings.ToLower(strings.TrimSpace(s))] = true
	}

	var analyses []string
	idx := 0
	for _, desc := range profile.TargetJobDescriptions {
		desc = strings.TrimSpace(desc)
		if len(desc) <= 50 {
			continue
		}
		idx++

		matched := matchedSkills(skillSet, desc)
		score := 0
		if len(skillSet) > 0 {
			score = len(matched) * 100 / len(skillSet)
		}
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("JOB MATCH ANALYSIS #%d\n", idx))
		sb.WriteString(strings.Repeat("=", 40))
		sb.WriteString(fmt.Sprintf("\nMatch score: %d/100.\n", score))
		if len(matched) > 0 {
			sb.WriteString(fmt.Sprintf("Skills found in the posting: %s.\n", strings.Join(matched, ", ")))
		} else {
			sb.WriteString("None of your listed skills appear verbatim in the posting; mirror its terminology.\n")
		}
		sb.WriteString("Echo the posting's exact phrasing for the requirements you meet.")
		analyses = append(analyses, sb.String())
	}

	if len(analyses) == 0 {
		return ""
	}
	return strings.Join(analyses, "\n\n")
}

func (g *Generator) holistic(profile *types.Profile, persona types.Persona, sections types.PersonaFeedback) string {
	var gaps []string
	if strings.TrimSpace(profile.Headline) == "" {
		gaps = append(gaps, "headline")
	}
	if strings.TrimSpace(profile.About) == "" {
		gaps = append(gaps, "about")
	}
	if len(profile.Skills) < 5 {
		gaps = append(gaps, "skills")
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Strategic view for %s: ", personaAngle(persona)))
	if len(gaps) == 0 {
		sb.WriteString("the profile is consistent across sections. Prioritize quantified results and keep the narrative pointed at one target role.")
	} else {
		sb.WriteString(fmt.Sprintf("the weakest areas are %s. Fix those before polishing anything else.", strings.Join(gaps, ", ")))
	}
	if sections != nil {
		if jm := sections[types.SectionJobMatch]; jm != "" {
			sb.WriteString(" The job match analysis above shows exactly which keywords to fold in.")
		}
	}
	return sb.String()
}

func matchedSkills(skillSet map[string]bool, description string) []string {
	lower := strings.ToLower(description)
	var matched []string
	for skill := range skillSet {
		if skill != "" && strings.Contains(lower, skill) {
			matched = append(matched, skill)
		}
	}
	sort.Strings(matched)
	return matched
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func plural(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
