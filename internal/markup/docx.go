package markup

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
)

// DOCXDecoder maps Heading styles onto #-prefixed heading lines and keeps
// paragraph text as flow text.
type DOCXDecoder struct{}

func (DOCXDecoder) Decode(r io.Reader, src string) (string, error) {
	// go-docx needs a ReadSeeker+size, so write to a temp file.
	tmp, err := os.CreateTemp("", "folio-*.docx")
	if err != nil {
		return "", &DecodeError{Source: src, Err: fmt.Errorf("create temp file: %w", err)}
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return "", &DecodeError{Source: src, Err: fmt.Errorf("write temp file: %w", err)}
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return "", &DecodeError{Source: src, Err: fmt.Errorf("seek temp file: %w", err)}
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return "", &DecodeError{Source: src, Err: fmt.Errorf("parse docx: %w", err)}
	}

	var b strings.Builder
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := docxParagraphText(para)
		if text == "" {
			continue
		}
		if level := docxHeadingLevel(para); level > 0 {
			b.WriteString(strings.Repeat("#", level) + " " + text + "\n\n")
		} else {
			b.WriteString(text + "\n\n")
		}
	}

	out := tidy(b.String())
	if out == "" {
		return "", &DecodeError{Source: src, Err: errors.New("no textual content")}
	}
	return out, nil
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := para.Properties.Style.Val
	for level := 1; level <= 6; level++ {
		if strings.EqualFold(style, fmt.Sprintf("Heading%d", level)) ||
			strings.EqualFold(style, fmt.Sprintf("heading %d", level)) {
			return level
		}
	}
	return 0
}

func docxParagraphText(para *docx.Paragraph) string {
	var b strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				b.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(b.String())
}
