package pager

import (
	"strings"
	"unicode"

	"github.com/xrash/smetrics"
)

// Resolve maps a section query to the start offset of the best-matching
// heading. Leading '#' characters and surrounding whitespace are stripped
// from the query first, so "## Setup" finds the "Setup" heading. Match
// tiers, strongest first:
//
//  1. exact case-insensitive title equality
//  2. case-insensitive substring containment, either direction
//  3. Jaro-Winkler similarity of the normalized strings at or above
//     opts.FuzzyThreshold
//
// Within a tier the earliest section in document order wins. A query no
// tier can satisfy returns a SectionNotFoundError.
func (d *Document) Resolve(name string, opts Options) (int, error) {
	// An all-marker or blank query matches nothing rather than everything.
	query := strings.TrimSpace(strings.TrimLeft(name, "#"))
	if query == "" {
		return 0, d.sectionNotFound(name)
	}

	for _, s := range d.Sections {
		if strings.EqualFold(s.Title, query) {
			return s.Start, nil
		}
	}

	lower := strings.ToLower(query)
	for _, s := range d.Sections {
		title := strings.ToLower(s.Title)
		if strings.Contains(title, lower) || strings.Contains(lower, title) {
			return s.Start, nil
		}
	}

	if want := normalizeTitle(query); want != "" {
		for _, s := range d.Sections {
			got := normalizeTitle(s.Title)
			if got == "" {
				continue
			}
			if smetrics.JaroWinkler(want, got, 0.7, 4) >= opts.FuzzyThreshold {
				return s.Start, nil
			}
		}
	}

	return 0, d.sectionNotFound(name)
}

func (d *Document) sectionNotFound(name string) *SectionNotFoundError {
	titles := make([]string, len(d.Sections))
	for i, s := range d.Sections {
		titles[i] = s.Title
	}
	return &SectionNotFoundError{Query: name, Titles: titles}
}

// normalizeTitle lowercases and squeezes every non-alphanumeric run down
// to a single space, so "API-Reference (v2)" and "api reference v2"
// compare equal.
func normalizeTitle(s string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pending = false
			b.WriteRune(r)
		} else {
			pending = true
		}
	}
	return b.String()
}
