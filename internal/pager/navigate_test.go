package pager

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNavigationNilWhenComplete(t *testing.T) {
	doc := NewDocument("all of it\n")
	w := doc.WindowAt(0, 100, DefaultOptions())
	if nav := doc.Navigation(w); nav != nil {
		t.Errorf("expected nil navigation for a complete window, got %+v", nav)
	}
}

func TestNavigationFields(t *testing.T) {
	content := strings.Repeat("a", 95) + "\n\n" + "# Later\n\n" + strings.Repeat("b", 100)
	doc := NewDocument(content)
	w := doc.WindowAt(0, 100, DefaultOptions())
	nav := doc.Navigation(w)
	if nav == nil {
		t.Fatalf("expected navigation for a truncated window")
	}
	if nav.TotalLength != doc.Len() {
		t.Errorf("expected total %d, got %d", doc.Len(), nav.TotalLength)
	}
	if nav.NextStartIndex != w.End {
		t.Errorf("expected next start %d, got %d", w.End, nav.NextStartIndex)
	}
	if nav.PercentShown != 47 {
		t.Errorf("expected 47 percent shown, got %d", nav.PercentShown)
	}
	if len(nav.RemainingSections) != 1 || nav.RemainingSections[0] != "Later" {
		t.Errorf("expected [Later] remaining, got %v", nav.RemainingSections)
	}
}

func TestRemainingSectionsShrinkAsSuffix(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 6; i++ {
		fmt.Fprintf(&b, "# Part %d\n\n%s\n\n", i, strings.Repeat("text ", 30))
	}
	doc := NewDocument(b.String())
	opts := DefaultOptions()

	all := make([]string, len(doc.Sections))
	for i, s := range doc.Sections {
		all[i] = s.Title
	}

	prev := all
	start := 0
	for {
		w := doc.WindowAt(start, 200, opts)
		if !w.Truncated {
			break
		}
		nav := doc.Navigation(w)
		rem := nav.RemainingSections
		if len(rem) > len(prev) {
			t.Fatalf("remaining sections grew from %d to %d", len(prev), len(rem))
		}
		if !isSuffix(all, rem) {
			t.Fatalf("remaining %v is not a suffix of %v", rem, all)
		}
		prev = rem
		start = nav.NextStartIndex
	}
}

func isSuffix(all, tail []string) bool {
	if len(tail) > len(all) {
		return false
	}
	off := len(all) - len(tail)
	for i, s := range tail {
		if all[off+i] != s {
			return false
		}
	}
	return true
}

func TestCurrentPathAtCut(t *testing.T) {
	content := "# Docs\n\nintro\n\n## API\n\n" + strings.Repeat("body text here. ", 30) + "\n\n## Other\n\nrest\n"
	doc := NewDocument(content)
	w := doc.WindowAt(0, 100, DefaultOptions())
	nav := doc.Navigation(w)
	if nav == nil {
		t.Fatalf("expected truncated window")
	}
	want := "Docs > API"
	if got := strings.Join(nav.CurrentPath, " > "); got != want {
		t.Errorf("expected path %q, got %q", want, got)
	}
}

func TestRenderRejectsDualCursor(t *testing.T) {
	doc := sectionDoc(t)
	zero := 0
	_, err := Render(doc, Request{Start: &zero, Section: "Troubleshooting", MaxLength: 100}, DefaultOptions())
	var ae *ArgumentError
	if !errors.As(err, &ae) {
		t.Fatalf("expected ArgumentError, got %v", err)
	}
	want := "Cannot use both 'section' and 'start_index' parameters. " +
		"Use 'section' to jump to a named section, or 'start_index' for offset-based continuation."
	if ae.Msg != want {
		t.Errorf("expected %q, got %q", want, ae.Msg)
	}
}

func TestRenderRejectsNonPositiveMaxLength(t *testing.T) {
	doc := sectionDoc(t)
	for _, n := range []int{0, -5} {
		_, err := Render(doc, Request{MaxLength: n}, DefaultOptions())
		var ae *ArgumentError
		if !errors.As(err, &ae) {
			t.Fatalf("max_length %d: expected ArgumentError, got %v", n, err)
		}
	}
}

func TestRenderRejectsNegativeStart(t *testing.T) {
	doc := sectionDoc(t)
	neg := -1
	_, err := Render(doc, Request{Start: &neg, MaxLength: 100}, DefaultOptions())
	var ae *ArgumentError
	if !errors.As(err, &ae) {
		t.Fatalf("expected ArgumentError, got %v", err)
	}
}

func TestRenderSectionJump(t *testing.T) {
	doc := sectionDoc(t)
	res, err := Render(doc, Request{Section: "troubleshooting", MaxLength: 1000}, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Window.Start != doc.Sections[2].Start {
		t.Errorf("expected window to start at the section offset %d, got %d",
			doc.Sections[2].Start, res.Window.Start)
	}
	if !strings.HasPrefix(res.Window.Text, "# Troubleshooting") {
		t.Errorf("expected window to begin at the heading line, got %q", res.Window.Text)
	}
}

func TestRenderStartPastEndIsEmpty(t *testing.T) {
	doc := sectionDoc(t)
	far := doc.Len() + 500
	res, err := Render(doc, Request{Start: &far, MaxLength: 100}, DefaultOptions())
	if err != nil {
		t.Fatalf("expected no error for an offset past the end, got %v", err)
	}
	if res.Window.Text != "" || res.Window.Truncated || res.Nav != nil {
		t.Errorf("expected empty final window, got %+v", res.Window)
	}
}
