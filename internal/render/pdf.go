// Package render lays out tailored resumes as PDF files.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/tailorcv/tailorcv/internal/tailor"
)

// sectionLabels are the resume section headings per output language.
var sectionLabels = map[tailor.Language]struct {
	profile, experience, skills, education, languages, interests string
}{
	tailor.English: {"Profile", "Professional Experience", "Skills", "Education", "Languages", "Interests"},
	tailor.French:  {"Profil", "Expérience Professionnelle", "Compétences", "Formation", "Langues", "Centre d'intérêts"},
	tailor.Spanish: {"Perfil", "Experiencia Profesional", "Competencias", "Educación", "Idiomas", "Intereses"},
}

// PDF renders documents in a single-column A4 layout.
type PDF struct{}

func NewPDF() *PDF {
	return &PDF{}
}

// Render writes the resume PDF to path, creating parent directories as
// needed.
func (r *PDF) Render(doc tailor.Document, path string) error {
	labels, ok := sectionLabels[doc.Language]
	if !ok {
		labels = sectionLabels[tailor.English]
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// Header
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(26, 26, 26)
	pdf.MultiCell(0, 8, tr(doc.Identity.Name), "", "L", false)
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(68, 68, 68)
	pdf.MultiCell(0, 6, tr(doc.Identity.Title), "", "L", false)
	pdf.Ln(4)

	section := func(label string) {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetTextColor(44, 62, 80)
		pdf.MultiCell(0, 6, tr(label), "", "L", false)
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(26, 26, 26)
	}
	body := func(text string) {
		pdf.MultiCell(0, 5, tr(text), "", "L", false)
	}

	section(labels.profile)
	body(doc.Summary)

	section(labels.experience)
	for _, exp := range doc.Experiences {
		pdf.SetFont("Helvetica", "B", 10)
		heading := fmt.Sprintf("%s – %s | %s (%s)", exp.Company, exp.Location, exp.Role, exp.Dates)
		pdf.MultiCell(0, 5, tr(heading), "", "L", false)
		pdf.SetFont("Helvetica", "", 10)
		for _, m := range exp.Missions {
			body("• " + m)
		}
		pdf.Ln(3)
	}

	section(labels.skills)
	for _, line := range markupLines(doc.SkillsMarkup) {
		body(line)
	}

	section(labels.education)
	if doc.Education.Structured() {
		for _, e := range doc.Education.Entries {
			body(fmt.Sprintf("%s – %s (%s)", e.Degree, e.School, e.Dates))
		}
	} else {
		body(doc.Education.Text)
	}

	section(labels.languages)
	body(strings.Join(doc.Languages, " • "))

	if len(doc.Interests) > 0 {
		section(labels.interests)
		body(strings.Join(doc.Interests, ", "))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

// markupLines splits the skills markup on <br/> and strips the inline bold
// tags the prompt asks the model for.
func markupLines(markup string) []string {
	replacer := strings.NewReplacer("<b>", "", "</b>", "", "<br>", "\n", "<br/>", "\n", "<br />", "\n")
	var lines []string
	for _, line := range strings.Split(replacer.Replace(markup), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
