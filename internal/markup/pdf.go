package markup

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// PDFDecoder extracts per-page text under "## Page N" headings. The pdf
// library requires a ReadSeeker+size, so the body is staged in a temp
// file; if the pure-Go reader gets nothing, pdftotext is tried when
// available.
type PDFDecoder struct{}

func (PDFDecoder) Decode(r io.Reader, src string) (string, error) {
	tmp, err := os.CreateTemp("", "folio-*.pdf")
	if err != nil {
		return "", &DecodeError{Source: src, Err: fmt.Errorf("create temp file: %w", err)}
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", &DecodeError{Source: src, Err: fmt.Errorf("write temp file: %w", err)}
	}
	tmp.Close()

	out, err := extractPDFPages(tmpPath)
	if err != nil || out == "" {
		if alt := extractPdftotext(tmpPath); alt != "" {
			return alt, nil
		}
	}
	if err != nil {
		return "", &DecodeError{Source: src, Err: fmt.Errorf("extract pdf text: %w", err)}
	}
	if out == "" {
		return "", &DecodeError{Source: src, Err: errors.New("no extractable text")}
	}
	return out, nil
}

func extractPDFPages(path string) (string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		fmt.Fprintf(&b, "## Page %d\n\n%s\n\n", i, text)
	}
	return tidy(b.String()), nil
}

func extractPdftotext(path string) string {
	out, err := exec.Command("pdftotext", "-layout", path, "-").Output()
	if err != nil {
		return ""
	}
	return tidy(string(out))
}
