package pager

import "math"

// Navigation tells the caller how to continue reading a truncated
// document. NextStartIndex feeds straight back into WindowAt.
type Navigation struct {
	TotalLength       int
	PercentShown      int
	RemainingSections []string
	NextStartIndex    int
	CurrentPath       []string
}

// Navigation builds continuation metadata for w, or nil when the window
// already reaches the end of what was asked for.
func (d *Document) Navigation(w Window) *Navigation {
	if !w.Truncated {
		return nil
	}
	nav := &Navigation{
		TotalLength:    len(d.runes),
		NextStartIndex: w.End,
		CurrentPath:    d.pathAt(w.End),
	}
	if nav.TotalLength > 0 {
		shown := float64(w.End-w.Start) / float64(nav.TotalLength)
		nav.PercentShown = int(math.Round(shown * 100))
	}
	// Only sections that start at or after the cut remain; a heading
	// inside the window is already shown.
	for _, s := range d.Sections {
		if s.Start >= w.End {
			nav.RemainingSections = append(nav.RemainingSections, s.Title)
		}
	}
	return nav
}

// pathAt is the heading breadcrumb in effect at offset: the stack of open
// headings, outermost first, considering every section before the offset.
func (d *Document) pathAt(offset int) []string {
	var stack []Section
	for _, s := range d.Sections {
		if s.Start >= offset {
			break
		}
		for len(stack) > 0 && stack[len(stack)-1].Level >= s.Level {
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, s)
	}
	if len(stack) == 0 {
		return nil
	}
	path := make([]string, len(stack))
	for i, s := range stack {
		path[i] = s.Title
	}
	return path
}
