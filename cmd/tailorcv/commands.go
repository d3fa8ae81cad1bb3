package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tailorcv/tailorcv/internal/builder"
	"github.com/tailorcv/tailorcv/internal/config"
	"github.com/tailorcv/tailorcv/internal/extract"
	"github.com/tailorcv/tailorcv/internal/history"
	"github.com/tailorcv/tailorcv/internal/llm"
	"github.com/tailorcv/tailorcv/internal/profile"
	"github.com/tailorcv/tailorcv/internal/render"
	"github.com/tailorcv/tailorcv/internal/tailor"
)

// --- prepare ---

var prepareCmd = &cobra.Command{
	Use:   "prepare [resume.pdf]",
	Short: "Build a reusable candidate profile from an existing resume",
	Long: `Build a reusable candidate profile from an existing resume.

The resume text is extracted from the PDF (falling back to OCR when the
file has no text layer) and structured into a profile by the configured
model. The profile is stored locally and reused by 'tailorcv generate'.

Examples:
  tailorcv prepare resume.pdf
  tailorcv prepare resume.pdf --ocr-lang fra
  tailorcv prepare --text-file resume.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		textFile, _ := cmd.Flags().GetString("text-file")
		ocrLang, _ := cmd.Flags().GetString("ocr-lang")

		if len(args) == 0 && textFile == "" {
			return fmt.Errorf("a resume PDF path or --text-file is required")
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		var text string
		if textFile != "" {
			data, err := os.ReadFile(textFile)
			if err != nil {
				return fmt.Errorf("reading text file: %w", err)
			}
			text = string(data)
		} else {
			printStep("Extracting text from %s", args[0])
			text, err = extract.Text(args[0], extract.Options{OCRLang: ocrLang})
			if err != nil {
				return err
			}
		}

		client, err := llm.FromConfig(cfg.LLM)
		if err != nil {
			return err
		}
		if o, ok := client.(*llm.Ollama); ok {
			if err := o.EnsureReady(cmd.Context(), os.Stderr); err != nil {
				return err
			}
		}

		printStep("Structuring profile with %s", client.Name())
		prof, err := builder.New(client).BuildFromText(cmd.Context(), text)
		if err != nil {
			return err
		}

		store := profile.NewStore(cfg.Storage.ProfilePath)
		if err := store.Save(prof); err != nil {
			return fmt.Errorf("saving profile: %w", err)
		}

		printSuccess("Profile saved to %s", store.Path())
		printStatus("Name", "%s", prof.Identity.Name)
		printStatus("Title", "%s", prof.Identity.Title)
		printStatus("Experiences", "%d", len(prof.Experiences))
		return nil
	},
}

// --- generate ---

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a tailored PDF resume for a job offer",
	Long: `Generate a tailored PDF resume for a job offer.

The offer text comes from --offer, --offer-file, or stdin (end input
with two blank lines, or EOF).

Examples:
  tailorcv generate --offer-file offer.txt
  tailorcv generate --offer "We are hiring a backend engineer..."
  cat offer.txt | tailorcv generate`,
	RunE: func(cmd *cobra.Command, args []string) error {
		offer, _ := cmd.Flags().GetString("offer")
		offerFile, _ := cmd.Flags().GetString("offer-file")
		outDir, _ := cmd.Flags().GetString("out")

		switch {
		case offer != "":
		case offerFile != "":
			data, err := os.ReadFile(offerFile)
			if err != nil {
				return fmt.Errorf("reading offer file: %w", err)
			}
			offer = string(data)
		default:
			printStep("Paste the job offer, then press Enter twice to finish")
			offer = readOfferFromStdin(os.Stdin)
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		client, err := llm.FromConfig(cfg.LLM)
		if err != nil {
			return err
		}
		if o, ok := client.(*llm.Ollama); ok {
			if err := o.EnsureReady(cmd.Context(), os.Stderr); err != nil {
				return err
			}
		}

		store := profile.NewStore(cfg.Storage.ProfilePath)
		pipe := tailor.NewPipeline(client, store, render.NewPDF(), outDir)

		printStep("Tailoring resume with %s", client.Name())
		res, err := pipe.Run(cmd.Context(), offer)
		if err != nil {
			return err
		}

		recordRun(cfg, res)

		printSuccess("Resume generated")
		if res.JobTitle != "" {
			printStatus("Job title", "%s", res.JobTitle)
		}
		printStatus("Language", "%s", res.Language)
		printStatus("Output", "%s", res.OutputFile)
		return nil
	},
}

// readOfferFromStdin reads lines until two consecutive blank lines or EOF.
func readOfferFromStdin(r io.Reader) string {
	var sb strings.Builder
	blanks := 0
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			blanks++
			if blanks >= 2 {
				break
			}
		} else {
			blanks = 0
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

// recordRun stores the run in local history. Failures are not fatal.
func recordRun(cfg config.Config, res tailor.Result) {
	store, err := history.Open(cfg.Storage.DataDir)
	if err != nil {
		printWarning("could not open run history: %v", err)
		return
	}
	defer store.Close()

	if _, err := store.RecordRun(history.Run{
		JobTitle:   res.JobTitle,
		Language:   string(res.Language),
		Backend:    res.Backend,
		Model:      cfg.LLM.Model,
		OutputFile: res.OutputFile,
	}); err != nil {
		printWarning("could not record run: %v", err)
	}
}

// --- profile ---

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the stored candidate profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored profile as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		prof, err := profile.NewStore(cfg.Storage.ProfilePath).Load()
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(prof, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

var profileNoteCmd = &cobra.Command{
	Use:   "note <job-title> <note>",
	Short: "Record an adaptation note for a job title",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		store := profile.NewStore(cfg.Storage.ProfilePath)
		if err := store.RecordAdaptationNote(args[0], args[1]); err != nil {
			return err
		}

		printSuccess("Note recorded for %q", args[0])
		return nil
	},
}

// --- runs ---

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect past tailoring runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List past tailoring runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		store, err := history.Open(cfg.Storage.DataDir)
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.ListRuns(limit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No runs recorded yet.")
			return nil
		}

		for _, r := range runs {
			title := r.JobTitle
			if title == "" {
				title = "(no title)"
			}
			fmt.Printf("%s  %-10s %-2s %-7s %s\n",
				r.CreatedAt.Local().Format("2006-01-02 15:04"),
				r.Backend, r.Language, title, r.OutputFile)
		}
		return nil
	},
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change tailorcv configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration values",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		for _, info := range config.ShowAll(cfg) {
			fmt.Printf("%-22s %-24s %s\n", info.Key, info.Value, colorize(colorCyan, info.EnvVar))
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: fmt.Sprintf(`Set a configuration value.

Valid keys:
  %s`, strings.Join(config.ValidKeys(), "\n  ")),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SetKey(args[0], args[1]); err != nil {
			return err
		}
		printSuccess("Set %s", args[0])
		return nil
	},
}

func init() {
	prepareCmd.Flags().String("text-file", "", "read resume text from a file instead of a PDF")
	prepareCmd.Flags().String("ocr-lang", "eng", "tesseract language for scanned PDFs")

	generateCmd.Flags().String("offer", "", "job offer text")
	generateCmd.Flags().String("offer-file", "", "read the job offer from a file")
	generateCmd.Flags().String("out", ".", "directory for the generated PDF")

	runsListCmd.Flags().Int("limit", 20, "maximum number of runs to list")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileNoteCmd)
	runsCmd.AddCommand(runsListCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
