package pager

import "unicode"

// Boundary identifies what ended a window.
type Boundary int

const (
	// BoundaryEnd means the window reaches the end of the document.
	BoundaryEnd Boundary = iota
	// BoundaryParagraph means the window ends after a blank line.
	BoundaryParagraph
	// BoundarySentence means the window ends after terminator punctuation
	// and one whitespace rune.
	BoundarySentence
	// BoundaryWord means the window ends after a whitespace rune.
	BoundaryWord
	// BoundaryHard means no boundary was in reach and the window was cut
	// at the exact length limit, possibly mid-word.
	BoundaryHard
)

func (b Boundary) String() string {
	switch b {
	case BoundaryEnd:
		return "end"
	case BoundaryParagraph:
		return "paragraph"
	case BoundarySentence:
		return "sentence"
	case BoundaryWord:
		return "word"
	case BoundaryHard:
		return "hard"
	}
	return "unknown"
}

// Window is one contiguous slice of a document.
type Window struct {
	Text      string
	Start     int // rune offset of the first character
	End       int // rune offset one past the last character
	Truncated bool
	Boundary  Boundary
}

// WindowAt slices up to maxLength characters starting at start, pulling
// the end back to the most natural boundary available. Cuts land after
// boundary characters, so windows chained through NextStartIndex tile the
// document with no gaps or overlaps.
//
// A start at or past the end of the document yields an empty, untruncated
// window rather than an error.
func (d *Document) WindowAt(start, maxLength int, opts Options) Window {
	total := len(d.runes)
	if start >= total {
		return Window{Start: total, End: total, Boundary: BoundaryEnd}
	}
	if start < 0 {
		start = 0
	}
	cand := start + maxLength
	if cand >= total {
		return Window{
			Text:     string(d.runes[start:]),
			Start:    start,
			End:      total,
			Boundary: BoundaryEnd,
		}
	}

	end, boundary := d.cutPoint(start, cand, maxLength, opts)
	return Window{
		Text:      string(d.runes[start:end]),
		Start:     start,
		End:       end,
		Truncated: true,
		Boundary:  boundary,
	}
}

// cutPoint scans backward from cand for the best cut, never further back
// than the lookback floor. Tier order: blank line, sentence end, then any
// whitespace; the first tier with a hit wins, and within a tier the hit
// closest to cand wins. With no hit at all the cut stays at cand.
func (d *Document) cutPoint(start, cand, maxLength int, opts Options) (int, Boundary) {
	lookback := int(float64(maxLength) * opts.LookbackRatio)
	if lookback < 1 {
		lookback = 1
	}
	floor := cand - lookback
	if floor < start {
		floor = start
	}

	for i := cand - 2; i >= floor; i-- {
		if d.runes[i] == '\n' && d.runes[i+1] == '\n' {
			return i + 2, BoundaryParagraph
		}
	}
	for i := cand - 2; i >= floor; i-- {
		if isTerminator(d.runes[i], opts.SentenceTerminators) && unicode.IsSpace(d.runes[i+1]) {
			return i + 2, BoundarySentence
		}
	}
	for i := cand - 1; i >= floor; i-- {
		if unicode.IsSpace(d.runes[i]) {
			return i + 1, BoundaryWord
		}
	}
	return cand, BoundaryHard
}

func isTerminator(r rune, set []rune) bool {
	for _, t := range set {
		if r == t {
			return true
		}
	}
	return false
}
