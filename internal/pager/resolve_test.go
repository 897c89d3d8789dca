package pager

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func sectionDoc(t *testing.T) *Document {
	t.Helper()
	return NewDocument("# API Reference\n\nCore docs.\n\n# api-reference-v2\n\nNewer docs.\n\n# Troubleshooting\n\nFixes.\n")
}

func TestResolveExactCaseInsensitive(t *testing.T) {
	doc := sectionDoc(t)
	off, err := doc.Resolve("api reference", DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// "API Reference" wins at the exact tier even though
	// "api-reference-v2" would also match loosely.
	if off != doc.Sections[0].Start {
		t.Errorf("expected offset %d of the exact match, got %d", doc.Sections[0].Start, off)
	}
}

func TestResolveSubstring(t *testing.T) {
	doc := sectionDoc(t)
	off, err := doc.Resolve("troublesho", DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if off != doc.Sections[2].Start {
		t.Errorf("expected offset %d, got %d", doc.Sections[2].Start, off)
	}
}

func TestResolveFuzzyNormalized(t *testing.T) {
	doc := NewDocument("# Overview\n\nx\n\n# Installation Guide\n\ny\n")
	off, err := doc.Resolve("installation gide", DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if off != doc.Sections[1].Start {
		t.Errorf("expected Installation Guide offset %d, got %d", doc.Sections[1].Start, off)
	}
}

func TestResolveEarliestWins(t *testing.T) {
	doc := NewDocument("# Setup\n\none\n\n# Setup\n\ntwo\n")
	off, err := doc.Resolve("setup", DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if off != doc.Sections[0].Start {
		t.Errorf("expected the earliest match at %d, got %d", doc.Sections[0].Start, off)
	}
}

func TestResolveStripsHeadingMarkers(t *testing.T) {
	doc := sectionDoc(t)
	off, err := doc.Resolve("##  API Reference ", DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if off != doc.Sections[0].Start {
		t.Errorf("expected offset %d, got %d", doc.Sections[0].Start, off)
	}
}

func TestResolveMarkerOnlyQuery(t *testing.T) {
	doc := sectionDoc(t)
	_, err := doc.Resolve("##", DefaultOptions())
	var nf *SectionNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected SectionNotFoundError, got %v", err)
	}
}

func TestResolveNotFound(t *testing.T) {
	doc := sectionDoc(t)
	_, err := doc.Resolve("release calendar", DefaultOptions())
	var nf *SectionNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected SectionNotFoundError, got %v", err)
	}
	if nf.Query != "release calendar" {
		t.Errorf("expected the query echoed back, got %q", nf.Query)
	}
	want := `Section "release calendar" not found. ` +
		`Available sections: ["API Reference", "api-reference-v2", "Troubleshooting"]`
	if got := err.Error(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSectionNotFoundErrorTruncatesList(t *testing.T) {
	titles := make([]string, 12)
	for i := range titles {
		titles[i] = fmt.Sprintf("Section %d", i)
	}
	err := &SectionNotFoundError{Query: "Missing", Titles: titles}
	msg := err.Error()
	if !strings.Contains(msg, `"Section 9"`) {
		t.Errorf("expected the tenth title listed, got %s", msg)
	}
	if strings.Contains(msg, `"Section 10"`) {
		t.Errorf("expected the list capped at ten titles, got %s", msg)
	}
	if !strings.Contains(msg, "... and 2 more]") {
		t.Errorf("expected overflow note inside the brackets, got %s", msg)
	}
}

func TestSectionNotFoundErrorEmptyDocument(t *testing.T) {
	err := &SectionNotFoundError{Query: "Intro"}
	want := `Section "Intro" not found. Available sections: []`
	if got := err.Error(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestNormalizeTitle(t *testing.T) {
	cases := []struct{ in, want string }{
		{"API-Reference (v2)", "api reference v2"},
		{"  Spaced   Out  ", "spaced out"},
		{"plain", "plain"},
		{"!!!", ""},
	}
	for _, c := range cases {
		if got := normalizeTitle(c.in); got != c.want {
			t.Errorf("normalizeTitle(%q): expected %q, got %q", c.in, c.want, got)
		}
	}
}
