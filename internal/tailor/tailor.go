// Package tailor adapts a candidate profile to a specific job offer. Every
// model-driven stage has a deterministic fallback drawn from the stored
// profile, so a flaky or absent model still yields a usable resume.
package tailor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/tailorcv/tailorcv/internal/jsonx"
	"github.com/tailorcv/tailorcv/internal/llm"
	"github.com/tailorcv/tailorcv/internal/profile"
)

// maxOfferInTitlePrompt caps how much offer text the title extraction sees.
const maxOfferInTitlePrompt = 1000

// filenameUnsafe matches characters that are invalid in filenames on at
// least one supported platform.
var filenameUnsafe = regexp.MustCompile(`[<>:"/\\|?*]`)

// Adapter runs the per-offer adaptation stages against one profile.
type Adapter struct {
	client llm.Client
	prof   profile.Profile
	lang   Language
}

func NewAdapter(client llm.Client, prof profile.Profile, lang Language) *Adapter {
	return &Adapter{client: client, prof: prof, lang: lang}
}

// ExtractJobTitle asks the model for the offer's job title, sanitized for
// use in filenames and capped at 50 characters. Returns "" when the model
// fails or answers with nothing usable.
func (a *Adapter) ExtractJobTitle(ctx context.Context, offer string) string {
	excerpt := offer
	if len(excerpt) > maxOfferInTitlePrompt {
		excerpt = excerpt[:maxOfferInTitlePrompt]
	}
	prompt := fmt.Sprintf("%s\n\nOffer:\n%s\n\nJob title:", titleInstruction[a.lang], excerpt)

	response, err := a.client.Generate(ctx, prompt)
	if err != nil {
		slog.Warn("job title extraction failed", "error", err)
		return ""
	}
	return SanitizeTitle(response)
}

// SanitizeTitle flattens newlines, strips filename-unsafe characters and
// caps the result at 50 characters.
func SanitizeTitle(s string) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), "\n", " ")
	s = filenameUnsafe.ReplaceAllString(s, "")
	if len(s) > 50 {
		s = s[:50]
	}
	return strings.TrimSpace(s)
}

// AdaptSummary rewrites the profile summary for the offer. Falls back to the
// stored long profile verbatim.
func (a *Adapter) AdaptSummary(ctx context.Context, offer string) string {
	prompt := fmt.Sprintf("%s\n\n%s\n%s\n\nFULL CANDIDATE PROFILE:\n%s\n\n%s",
		promptHeader[a.lang], promptOfferSection[a.lang], offer, a.prof.LongProfile, summaryInstruction[a.lang])

	response, err := a.client.Generate(ctx, prompt)
	if err != nil || strings.TrimSpace(response) == "" {
		slog.Warn("summary adaptation failed, using stored long profile", "error", err)
		return a.prof.LongProfile
	}
	return strings.TrimSpace(response)
}

// SelectExperiences asks the model to pick and adapt the most relevant
// experiences. Falls back to the first two stored experiences.
func (a *Adapter) SelectExperiences(ctx context.Context, offer string) []profile.Experience {
	encoded, err := json.MarshalIndent(a.prof.Experiences, "", "  ")
	if err != nil {
		return a.firstExperiences()
	}

	prompt := fmt.Sprintf("%s\n\n%s\n%s\n\nCANDIDATE EXPERIENCES (JSON):\n%s\n\n%s",
		promptHeader[a.lang], promptOfferSection[a.lang], offer, encoded, experiencesInstruction)

	response, err := a.client.Generate(ctx, prompt)
	if err != nil {
		slog.Warn("experience selection failed, using first experiences", "error", err)
		return a.firstExperiences()
	}

	arr, ok := jsonx.FirstArray(response)
	if !ok {
		slog.Warn("no JSON array in experience response, using first experiences")
		return a.firstExperiences()
	}
	var selected []profile.Experience
	if err := json.Unmarshal([]byte(arr), &selected); err != nil || len(selected) == 0 {
		slog.Warn("unparseable experience response, using first experiences", "error", err)
		return a.firstExperiences()
	}
	return selected
}

func (a *Adapter) firstExperiences() []profile.Experience {
	if len(a.prof.Experiences) > 2 {
		return a.prof.Experiences[:2]
	}
	return a.prof.Experiences
}

// SelectSkills asks the model for a structured skill selection. Falls back
// to the stored skills unchanged.
func (a *Adapter) SelectSkills(ctx context.Context, offer string) profile.Skills {
	markup := a.skillsPrompt(ctx, offer, skillsJSONInstruction)
	if markup == "" {
		return a.prof.Skills
	}
	obj, ok := jsonx.FirstObject(markup)
	if !ok {
		slog.Warn("no JSON object in skills response, using stored skills")
		return a.prof.Skills
	}
	var selected profile.Skills
	if err := json.Unmarshal([]byte(obj), &selected); err != nil {
		slog.Warn("unparseable skills response, using stored skills", "error", err)
		return a.prof.Skills
	}
	if len(selected.Technical) == 0 && len(selected.Secondary) == 0 {
		return a.prof.Skills
	}
	return selected
}

// SelectSkillsMarkup asks the model for a skills line in the inline markup
// the renderer understands. Falls back to markup built from stored skills.
func (a *Adapter) SelectSkillsMarkup(ctx context.Context, offer string) string {
	markup := a.skillsPrompt(ctx, offer, skillsMarkupInstruction)
	if markup == "" {
		return skillsToMarkup(a.prof.Skills)
	}
	return markup
}

func (a *Adapter) skillsPrompt(ctx context.Context, offer, instruction string) string {
	encoded, err := json.MarshalIndent(a.prof.Skills, "", "  ")
	if err != nil {
		return ""
	}

	prompt := fmt.Sprintf("%s\n\n%s\n%s\n\nCANDIDATE SKILLS:\n%s\n\n%s",
		promptHeader[a.lang], promptOfferSection[a.lang], offer, encoded, instruction)

	response, err := a.client.Generate(ctx, prompt)
	if err != nil {
		slog.Warn("skill selection failed, using stored skills", "error", err)
		return ""
	}
	return strings.TrimSpace(response)
}

func skillsToMarkup(s profile.Skills) string {
	return fmt.Sprintf("<b>Technical:</b> %s<br/><b>Management & Methods:</b> %s",
		strings.Join(s.Technical, ", "), strings.Join(s.Secondary, ", "))
}
