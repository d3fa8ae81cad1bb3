// Package builder structures raw resume text into a profile, using the
// model when it cooperates and degrading to text heuristics when it does not.
package builder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tailorcv/tailorcv/internal/jsonx"
	"github.com/tailorcv/tailorcv/internal/llm"
	"github.com/tailorcv/tailorcv/internal/profile"
)

// maxPromptText caps the resume text included in the structuring prompt so
// small local models stay within their context window.
const maxPromptText = 2000

// ErrEmptyText is returned when there is no resume text to structure.
var ErrEmptyText = errors.New("no resume text to build a profile from")

const structurePrompt = `Analyze this resume and return ONLY valid JSON with this exact structure:

{
  "identity": {
    "name": "Full Name",
    "title": "Professional Title",
    "email": "email@example.com",
    "phone": "phone number",
    "location": "city, country"
  },
  "long_profile": "4-5 line professional summary",
  "experiences": [
    {
      "company": "Company Name",
      "location": "City",
      "role": "Job Title",
      "dates": "YYYY-YYYY",
      "missions": ["mission 1", "mission 2", "mission 3"]
    }
  ],
  "education": "Degree, School, YYYY-YYYY",
  "skills": {
    "technical": ["skill1", "skill2"],
    "soft": ["skill1", "skill2"]
  },
  "languages": ["Language (level)"]
}

RESUME:
%s

Return ONLY the JSON:`

// Builder turns extracted resume text into a canonical profile.
type Builder struct {
	client llm.Client
}

func New(client llm.Client) *Builder {
	return &Builder{client: client}
}

// BuildFromText structures the given resume text into a profile. Model
// failures are not fatal: when the backend errors, returns no JSON, or
// returns JSON without a name, the profile is built from text heuristics
// instead.
func (b *Builder) BuildFromText(ctx context.Context, text string) (profile.Profile, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return profile.Profile{}, ErrEmptyText
	}

	truncated := text
	if len(truncated) > maxPromptText {
		truncated = truncated[:maxPromptText]
	}

	response, err := b.client.Generate(ctx, fmt.Sprintf(structurePrompt, truncated))
	if err != nil {
		slog.Warn("model unavailable, building profile from heuristics", "backend", b.client.Name(), "error", err)
		return heuristicProfile(text), nil
	}

	obj, ok := jsonx.FirstObject(response)
	if !ok {
		slog.Warn("no JSON object in model response, building profile from heuristics")
		return heuristicProfile(text), nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(obj), &raw); err != nil {
		slog.Warn("unparseable model response, building profile from heuristics", "error", err)
		return heuristicProfile(text), nil
	}

	p := profile.Migrate(raw)
	if p.Identity.Name == "" {
		slog.Warn("model response missing required fields, building profile from heuristics")
		return heuristicProfile(text), nil
	}
	return p, nil
}
