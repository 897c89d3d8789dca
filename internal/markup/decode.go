package markup

import (
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"
	"regexp"
	"strings"
)

// Decoder turns one retrieved body into canonical flow text: #-prefixed
// heading lines, blank-line paragraph separation, inline markup kept.
type Decoder interface {
	// Decode reads the raw body and returns flow text. src identifies the
	// origin (usually the URL) for error context and link resolution.
	Decode(r io.Reader, src string) (string, error)
}

// DecodeError reports markup that could not be turned into text: broken
// input, or input with no textual content at all.
type DecodeError struct {
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// The HTML converter pipeline is stateless per conversion, so one decoder
// serves all requests.
var htmlDec = NewHTMLDecoder()

// ForContent picks a decoder from the Content-Type header, falling back to
// the reference's file extension, and finally to HTML: intranet pages are
// HTML no matter what the upstream server labels them.
func ForContent(contentType, ref string) Decoder {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt = ""
	}
	switch mt {
	case "text/html", "application/xhtml+xml":
		return htmlDec
	case "text/plain", "text/markdown":
		return TextDecoder{}
	case "application/pdf":
		return PDFDecoder{}
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return DOCXDecoder{}
	case "text/csv":
		return CSVDecoder{}
	}
	switch strings.ToLower(path.Ext(refPath(ref))) {
	case ".txt", ".md", ".markdown":
		return TextDecoder{}
	case ".pdf":
		return PDFDecoder{}
	case ".docx":
		return DOCXDecoder{}
	case ".csv":
		return CSVDecoder{}
	}
	return htmlDec
}

func refPath(ref string) string {
	if u, err := url.Parse(ref); err == nil && u.Path != "" {
		return u.Path
	}
	return ref
}

var newlineRuns = regexp.MustCompile(`\n{3,}`)

// tidy normalizes line endings and outer whitespace without touching
// inline content: CRLF to LF, runs of three or more newlines down to one
// blank line.
func tidy(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = newlineRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
