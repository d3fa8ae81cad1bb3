// Package extract pulls plain text out of resume PDFs. It tries fast text
// layer readers first and falls back to OCR for scanned documents.
package extract

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strings"

	dslipak "github.com/dslipak/pdf"
	ledongthuc "github.com/ledongthuc/pdf"
)

// Options tweaks extraction behavior.
type Options struct {
	// OCRLang is the tesseract language code for the OCR fallback,
	// e.g. "eng" or "fra". Empty means "eng".
	OCRLang string
}

// Text extracts text from the PDF at path, trying each strategy in order.
// May return "" with a nil error when the document has no recoverable text;
// callers decide whether that is fatal.
func Text(path string, opts Options) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("pdf file: %w", err)
	}

	if text := tryTextLayer(path); text != "" {
		return text, nil
	}
	if text := tryRows(path); text != "" {
		return text, nil
	}

	slog.Info("no text layer found, trying OCR", "path", path)
	return tryOCR(path, opts.OCRLang)
}

// tryTextLayer walks the document page by page, tolerating pages that fail
// to decode.
func tryTextLayer(path string) string {
	f, r, err := ledongthuc.Open(path)
	if err != nil {
		slog.Debug("pdf text layer open failed", "path", path, "error", err)
		return ""
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

// tryRows uses a second reader implementation that recovers text from some
// PDFs the first one cannot decode.
func tryRows(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return ""
	}
	r, err := dslipak.NewReader(f, st.Size())
	if err != nil {
		slog.Debug("pdf alternate reader failed", "path", path, "error", err)
		return ""
	}

	plain, err := r.GetPlainText()
	if err != nil {
		return ""
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return ""
	}
	return strings.TrimSpace(buf.String())
}
