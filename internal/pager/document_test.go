package pager

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNewDocumentIndexesSections(t *testing.T) {
	content := "# Guide\n\nIntro text.\n\n## Setup\n\nSteps here.\n\n### Details\n\nMore.\n\n## Usage\n\nRun it.\n"
	doc := NewDocument(content)

	want := []struct {
		title string
		level int
	}{
		{"Guide", 1},
		{"Setup", 2},
		{"Details", 3},
		{"Usage", 2},
	}
	if len(doc.Sections) != len(want) {
		t.Fatalf("expected %d sections, got %d", len(want), len(doc.Sections))
	}
	for i, w := range want {
		s := doc.Sections[i]
		if s.Title != w.title || s.Level != w.level {
			t.Errorf("section %d: expected %q level %d, got %q level %d",
				i, w.title, w.level, s.Title, s.Level)
		}
	}
	for i, s := range doc.Sections {
		if !strings.HasPrefix(content[s.Start:], "#") {
			t.Errorf("section %d start %d does not point at a heading line", i, s.Start)
		}
		if i > 0 && s.Start <= doc.Sections[i-1].Start {
			t.Errorf("section offsets not strictly increasing at %d", i)
		}
	}
}

func TestSectionOffsetsCountRunes(t *testing.T) {
	prefix := "Héllo wörld 日本語 intro.\n\n"
	content := prefix + "# Títulos\n\nBody.\n"
	doc := NewDocument(content)

	if len(doc.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(doc.Sections))
	}
	wantStart := utf8.RuneCountInString(prefix)
	if doc.Sections[0].Start != wantStart {
		t.Errorf("expected start %d, got %d", wantStart, doc.Sections[0].Start)
	}
	runes := []rune(content)
	if runes[doc.Sections[0].Start] != '#' {
		t.Errorf("start offset does not land on the heading marker")
	}
	if doc.Len() != len(runes) {
		t.Errorf("expected length %d, got %d", len(runes), doc.Len())
	}
}

func TestCodeFenceLinesNotIndexed(t *testing.T) {
	content := "# Real\n\n```\n# not a heading\n## also not\n```\n\n## After\n\nText.\n"
	doc := NewDocument(content)
	if len(doc.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(doc.Sections))
	}
	if doc.Sections[0].Title != "Real" || doc.Sections[1].Title != "After" {
		t.Errorf("expected titles Real and After, got %q and %q",
			doc.Sections[0].Title, doc.Sections[1].Title)
	}
}

func TestDuplicateTitlesKeepDistinctOffsets(t *testing.T) {
	content := "# Notes\n\none\n\n# Notes\n\ntwo\n"
	doc := NewDocument(content)
	if len(doc.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(doc.Sections))
	}
	if doc.Sections[0].Start == doc.Sections[1].Start {
		t.Errorf("duplicate titles must keep distinct offsets")
	}
}

func TestEmptyDocument(t *testing.T) {
	doc := NewDocument("")
	if doc.Len() != 0 {
		t.Errorf("expected length 0, got %d", doc.Len())
	}
	if len(doc.Sections) != 0 {
		t.Errorf("expected no sections, got %d", len(doc.Sections))
	}
}
