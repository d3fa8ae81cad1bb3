package extract

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// tryOCR rasterizes the PDF with pdftoppm and runs tesseract on each page.
// Both tools must be on PATH; a missing tool yields "" without error so the
// caller can report the document as unreadable rather than the host as
// misconfigured.
func tryOCR(path, lang string) (string, error) {
	if lang == "" {
		lang = "eng"
	}
	pdftoppm, err := exec.LookPath("pdftoppm")
	if err != nil {
		return "", nil
	}
	tesseract, err := exec.LookPath("tesseract")
	if err != nil {
		return "", nil
	}

	tmpDir, err := os.MkdirTemp("", "tailorcv-ocr-*")
	if err != nil {
		return "", fmt.Errorf("creating OCR workspace: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	if out, err := exec.Command(pdftoppm, "-png", "-r", "300", path, prefix).CombinedOutput(); err != nil {
		return "", fmt.Errorf("rasterizing pdf: %w: %s", err, strings.TrimSpace(string(out)))
	}

	pages, err := filepath.Glob(prefix + "*.png")
	if err != nil || len(pages) == 0 {
		return "", nil
	}
	sort.Strings(pages)

	var sb strings.Builder
	for _, page := range pages {
		out, err := exec.Command(tesseract, page, "stdout", "-l", lang).Output()
		if err != nil {
			return "", fmt.Errorf("running tesseract on %s: %w", filepath.Base(page), err)
		}
		sb.Write(out)
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String()), nil
}
