package pager

import "fmt"

// Request is one read of a document as it arrives at the tool boundary.
// Start is nil when the caller sent no explicit offset; presence matters
// because an explicit offset conflicts with a section jump even at zero.
type Request struct {
	Start     *int
	Section   string
	MaxLength int
}

// Result pairs a window with its continuation metadata. Nav is nil when
// the window is not truncated.
type Result struct {
	Window Window
	Nav    *Navigation
}

// Validate rejects parameter combinations no window can serve. Callers may
// check a request before going to the trouble of loading the document.
func (req Request) Validate() error {
	if req.MaxLength <= 0 {
		return &ArgumentError{
			Msg: fmt.Sprintf("max_length must be positive, got %d", req.MaxLength),
		}
	}
	if req.Start != nil && req.Section != "" {
		return &ArgumentError{
			Msg: "Cannot use both 'section' and 'start_index' parameters. " +
				"Use 'section' to jump to a named section, or 'start_index' for offset-based continuation.",
		}
	}
	if req.Start != nil && *req.Start < 0 {
		return &ArgumentError{
			Msg: fmt.Sprintf("start_index must not be negative, got %d", *req.Start),
		}
	}
	return nil
}

// Render validates the request, resolves any section jump, and windows the
// document. It is a pure function of its inputs: no request mutates the
// document, so one document serves concurrent readers.
func Render(d *Document, req Request, opts Options) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}

	start := 0
	if req.Start != nil {
		start = *req.Start
	}
	if req.Section != "" {
		off, err := d.Resolve(req.Section, opts)
		if err != nil {
			return Result{}, err
		}
		start = off
	}

	w := d.WindowAt(start, req.MaxLength, opts)
	return Result{Window: w, Nav: d.Navigation(w)}, nil
}
