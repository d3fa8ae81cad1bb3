package builder

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tailorcv/tailorcv/internal/profile"
)

var (
	emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneRe = regexp.MustCompile(`(\+?1[-.\s]?)?\(?[0-9]{3}\)?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}`)
)

// titleWords mark a line as a job title rather than a person's name.
var titleWords = []string{"engineer", "developer", "manager", "analyst", "consultant", "specialist"}

// nameBlacklist adds section headers that must not be mistaken for a name.
var nameBlacklist = append([]string{"profil", "langues", "secteurs"}, titleWords...)

var techKeywords = []string{
	"python", "sql", "java", "javascript", "react", "node", "aws", "azure",
	"docker", "kubernetes", "git", "linux", "data", "analytics", "bi", "ai", "ml",
}

var softKeywords = []string{
	"communication", "leadership", "teamwork", "problem solving",
	"analytical", "creative", "adaptable",
}

// heuristicProfile builds a minimal profile from plain text parsing. The
// result always has a name and title so downstream stages have something to
// work with, even if it is just "Unknown" / "Professional".
func heuristicProfile(text string) profile.Profile {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	head := lines
	if len(head) > 10 {
		head = head[:10]
	}

	name := "Unknown"
	for _, line := range head {
		if looksLikeName(line) {
			name = line
			break
		}
	}

	title := "Professional"
	for _, line := range head {
		if containsAny(strings.ToLower(line), titleWords) {
			title = line
			break
		}
	}

	lower := strings.ToLower(text)
	p := profile.Profile{
		Identity: profile.Identity{
			Name:  name,
			Title: title,
			Email: emailRe.FindString(text),
			Phone: phoneRe.FindString(text),
		},
		LongProfile: fmt.Sprintf("Experienced %s with diverse professional background.", title),
		Skills: profile.Skills{
			Technical: matchKeywords(lower, techKeywords),
			Secondary: matchKeywords(lower, softKeywords),
		},
	}
	return p
}

// looksLikeName accepts a short capitalized line free of punctuation and of
// words that belong to titles or section headers.
func looksLikeName(line string) bool {
	if len(line) == 0 || len(line) >= 50 {
		return false
	}
	if line[0] < 'A' || line[0] > 'Z' {
		return false
	}
	if strings.ContainsAny(line, "@•:()—") {
		return false
	}
	return !containsAny(strings.ToLower(line), nameBlacklist)
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func matchKeywords(lowerText string, keywords []string) []string {
	var found []string
	for _, kw := range keywords {
		if strings.Contains(lowerText, kw) {
			found = append(found, titleCase(kw))
		}
	}
	return found
}

// titleCase uppercases the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
