package tailor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tailorcv/tailorcv/internal/profile"
)

// stubClient returns one canned response per prompt substring, or an error.
type stubClient struct {
	err       error
	responses map[string]string
}

func (s *stubClient) Generate(ctx context.Context, prompt string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	for needle, resp := range s.responses {
		if strings.Contains(prompt, needle) {
			return resp, nil
		}
	}
	return "", nil
}

func (s *stubClient) Name() string { return "stub" }

func testProfile() profile.Profile {
	return profile.Profile{
		Identity:    profile.Identity{Name: "Marie Dupont", Title: "Ingénieure Logiciel"},
		LongProfile: "Ten years building backend systems.",
		Experiences: []profile.Experience{
			{Company: "Acme", Location: "Paris", Role: "Senior Dev", Dates: "2018-2024", Missions: []string{"APIs"}},
			{Company: "Initech", Location: "Lyon", Role: "Dev", Dates: "2014-2018", Missions: []string{"Tooling"}},
			{Company: "Globex", Location: "Nice", Role: "Junior", Dates: "2012-2014", Missions: []string{"Support"}},
		},
		Skills:    profile.Skills{Technical: []string{"Go", "SQL"}, Secondary: []string{"Scrum"}},
		Education: profile.Education{Text: "Master Informatique, Lyon, 2012"},
		Languages: []string{"French", "English"},
	}
}

func TestDetectLanguage(t *testing.T) {
	cases := []struct {
		text string
		want Language
	}{
		{"We are hiring a backend engineer", English},
		{"Nous recherchons un développeur avec expérience et compétences solides", French},
		{"Buscamos analista con experiencia en datos y habilidades de comunicación", Spanish},
		{"", English},
	}
	for _, tc := range cases {
		if got := DetectLanguage(tc.text); got != tc.want {
			t.Errorf("DetectLanguage(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestSanitizeTitle(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Data Engineer", "Data Engineer"},
		{"  Data\nEngineer  ", "Data Engineer"},
		{`Engineer <Backend/Platform>: "Go"`, "Engineer BackendPlatform Go"},
		{strings.Repeat("a", 80), strings.Repeat("a", 50)},
		{"", ""},
	}
	for _, tc := range cases {
		if got := SanitizeTitle(tc.in); got != tc.want {
			t.Errorf("SanitizeTitle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestExtractJobTitle(t *testing.T) {
	a := NewAdapter(&stubClient{responses: map[string]string{"Job title:": "Backend Engineer\n"}}, testProfile(), English)
	if got := a.ExtractJobTitle(context.Background(), "offer text"); got != "Backend Engineer" {
		t.Errorf("title = %q", got)
	}
}

func TestExtractJobTitle_ModelDown(t *testing.T) {
	a := NewAdapter(&stubClient{err: errors.New("down")}, testProfile(), English)
	if got := a.ExtractJobTitle(context.Background(), "offer"); got != "" {
		t.Errorf("title = %q, want empty on failure", got)
	}
}

func TestAdaptSummary_Fallback(t *testing.T) {
	prof := testProfile()
	a := NewAdapter(&stubClient{err: errors.New("down")}, prof, English)
	if got := a.AdaptSummary(context.Background(), "offer"); got != prof.LongProfile {
		t.Errorf("summary = %q, want stored long profile", got)
	}
}

func TestSelectExperiences(t *testing.T) {
	resp := `[{"company": "Acme", "location": "Paris", "role": "Senior Dev", "dates": "2018-2024", "missions": ["Led API work"]}]`
	a := NewAdapter(&stubClient{responses: map[string]string{"CANDIDATE EXPERIENCES": resp}}, testProfile(), English)

	got := a.SelectExperiences(context.Background(), "offer")
	if len(got) != 1 || got[0].Missions[0] != "Led API work" {
		t.Errorf("experiences = %+v", got)
	}
}

func TestSelectExperiences_FallbackFirstTwo(t *testing.T) {
	a := NewAdapter(&stubClient{responses: map[string]string{"CANDIDATE EXPERIENCES": "no json here"}}, testProfile(), English)

	got := a.SelectExperiences(context.Background(), "offer")
	if len(got) != 2 || got[0].Company != "Acme" || got[1].Company != "Initech" {
		t.Errorf("fallback = %+v, want first two experiences", got)
	}
}

func TestSelectSkills_Structured(t *testing.T) {
	resp := `{"technical": ["Go"], "methodological": ["Scrum"]}`
	a := NewAdapter(&stubClient{responses: map[string]string{"CANDIDATE SKILLS": resp}}, testProfile(), English)

	got := a.SelectSkills(context.Background(), "offer")
	if len(got.Technical) != 1 || got.Technical[0] != "Go" {
		t.Errorf("skills = %+v", got)
	}
}

func TestSelectSkills_Fallback(t *testing.T) {
	prof := testProfile()
	a := NewAdapter(&stubClient{err: errors.New("down")}, prof, English)

	got := a.SelectSkills(context.Background(), "offer")
	if len(got.Technical) != len(prof.Skills.Technical) {
		t.Errorf("skills = %+v, want stored skills", got)
	}
}

func TestSelectSkillsMarkup_Fallback(t *testing.T) {
	a := NewAdapter(&stubClient{err: errors.New("down")}, testProfile(), English)

	got := a.SelectSkillsMarkup(context.Background(), "offer")
	if !strings.Contains(got, "<b>Technical:</b> Go, SQL") {
		t.Errorf("markup = %q", got)
	}
	if !strings.Contains(got, "Scrum") {
		t.Errorf("markup missing secondary skills: %q", got)
	}
}
