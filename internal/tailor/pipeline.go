package tailor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/tailorcv/tailorcv/internal/llm"
	"github.com/tailorcv/tailorcv/internal/profile"
)

// ErrEmptyOffer is returned when Run is called without offer text.
var ErrEmptyOffer = errors.New("job offer text is empty")

// Document is everything the renderer needs to lay out one resume.
type Document struct {
	Language     Language
	Identity     profile.Identity
	Summary      string
	Experiences  []profile.Experience
	SkillsMarkup string
	Education    profile.Education
	Languages    []string
	Interests    []string
}

// Renderer writes a Document to a file. The PDF layout lives behind this
// interface so the pipeline can be tested without producing real PDFs.
type Renderer interface {
	Render(doc Document, path string) error
}

// Result summarizes one completed tailoring run.
type Result struct {
	JobTitle   string
	Language   Language
	Summary    string
	OutputFile string
	Backend    string
}

// Pipeline drives the full offer-to-PDF flow.
type Pipeline struct {
	client   llm.Client
	store    *profile.Store
	renderer Renderer
	outDir   string
	now      func() time.Time
}

func NewPipeline(client llm.Client, store *profile.Store, renderer Renderer, outDir string) *Pipeline {
	return &Pipeline{
		client:   client,
		store:    store,
		renderer: renderer,
		outDir:   outDir,
		now:      time.Now,
	}
}

// Run tailors the stored profile to the offer and renders the resume PDF.
// A memory note is recorded under the extracted title so later runs can
// build on what was generated before.
func (p *Pipeline) Run(ctx context.Context, offer string) (Result, error) {
	if strings.TrimSpace(offer) == "" {
		return Result{}, ErrEmptyOffer
	}

	prof, err := p.store.Load()
	if err != nil {
		return Result{}, err
	}

	lang := DetectLanguage(offer)
	adapter := NewAdapter(p.client, prof, lang)

	title := adapter.ExtractJobTitle(ctx, offer)
	if title != "" {
		slog.Info("job title detected", "title", title)
	}

	doc := Document{
		Language:     lang,
		Identity:     prof.Identity,
		Summary:      adapter.AdaptSummary(ctx, offer),
		Experiences:  adapter.SelectExperiences(ctx, offer),
		SkillsMarkup: adapter.SelectSkillsMarkup(ctx, offer),
		Education:    prof.Education,
		Languages:    prof.Languages,
		Interests:    prof.Interests,
	}

	outFile := filepath.Join(p.outDir, Filename(title, prof.Identity.Name, p.now()))
	if err := p.renderer.Render(doc, outFile); err != nil {
		return Result{}, fmt.Errorf("rendering resume: %w", err)
	}

	if title != "" {
		note := fmt.Sprintf("Generated resume tailored for: %s", title)
		if err := p.store.RecordAdaptationNote(title, note); err != nil {
			slog.Warn("could not record adaptation note", "title", title, "error", err)
		}
	}

	return Result{
		JobTitle:   title,
		Language:   lang,
		Summary:    doc.Summary,
		OutputFile: outFile,
		Backend:    p.client.Name(),
	}, nil
}

// Filename names the output PDF after the job title, or after the candidate
// and date when no title was detected.
func Filename(jobTitle, candidateName string, now time.Time) string {
	var name string
	if jobTitle != "" {
		name = "Resume_" + jobTitle
	} else {
		name = fmt.Sprintf("Resume_%s_%s", strings.ReplaceAll(candidateName, " ", "_"), now.Format("20060102"))
	}
	return filenameUnsafe.ReplaceAllString(name, "") + ".pdf"
}
