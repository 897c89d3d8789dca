package pager

import (
	"bytes"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Document is an indexed, immutable snapshot of one normalized page. All
// offsets and lengths are rune offsets into Content.
type Document struct {
	Content  string
	Sections []Section

	runes []rune
}

// Section is one heading line in the document.
type Section struct {
	Title string // heading text, case preserved
	Level int    // 1 = top level
	Start int    // rune offset of the heading line start
}

// NewDocument indexes content once. The result is read-only afterwards and
// safe for concurrent use.
func NewDocument(content string) *Document {
	return &Document{
		Content:  content,
		Sections: indexSections(content),
		runes:    []rune(content),
	}
}

// Len returns the total character count of the document.
func (d *Document) Len() int { return len(d.runes) }

// indexSections parses the flow text and collects heading nodes from the
// top level of the AST. Parsing instead of line-scanning keeps # lines
// inside fenced code blocks out of the index.
func indexSections(content string) []Section {
	src := []byte(content)
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	var sections []Section
	prevByte, prevRune := 0, 0
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok || h.Lines().Len() == 0 {
			continue
		}
		title := string(h.Text(src))
		if title == "" {
			continue
		}
		// The first line segment covers the heading text; back up to the
		// start of the line so the offset includes the markers.
		seg := h.Lines().At(0)
		lineStart := bytes.LastIndexByte(src[:seg.Start], '\n') + 1

		// Headings arrive in document order, so the byte-to-rune
		// conversion can run incrementally.
		prevRune += utf8.RuneCount(src[prevByte:lineStart])
		prevByte = lineStart

		sections = append(sections, Section{
			Title: title,
			Level: h.Level,
			Start: prevRune,
		})
	}
	return sections
}
