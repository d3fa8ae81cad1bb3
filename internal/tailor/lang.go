package tailor

import "strings"

// Language is the language resumes and prompts are produced in.
type Language string

const (
	English Language = "en"
	French  Language = "fr"
	Spanish Language = "es"
)

var (
	spanishHints = []string{" el ", " la ", " los ", " las ", "experiencia", "habilidades", "idiomas"}
	frenchHints  = []string{" le ", " la ", " les ", "expérience", "compétences", "langues"}
)

// DetectLanguage gives a light language hint from common words in the offer
// text. English is the fallback. Spanish is checked first so shared articles
// like "la" do not shadow its more specific hints.
func DetectLanguage(text string) Language {
	lowered := strings.ToLower(text)
	for _, w := range spanishHints {
		if strings.Contains(lowered, w) {
			return Spanish
		}
	}
	for _, w := range frenchHints {
		if strings.Contains(lowered, w) {
			return French
		}
	}
	return English
}
