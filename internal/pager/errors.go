package pager

import (
	"fmt"
	"strings"
)

// ArgumentError reports a request the engine refuses outright: conflicting
// cursor parameters, a negative offset, or a non-positive length limit.
type ArgumentError struct {
	Msg string
}

func (e *ArgumentError) Error() string { return e.Msg }

// maxListedTitles caps how many section titles a not-found error names.
const maxListedTitles = 10

// SectionNotFoundError reports that no section title matched the query at
// any match tier. It carries the full title list so callers can suggest
// alternatives.
type SectionNotFoundError struct {
	Query  string
	Titles []string
}

func (e *SectionNotFoundError) Error() string {
	listed := e.Titles
	suffix := ""
	if len(listed) > maxListedTitles {
		suffix = fmt.Sprintf(" ... and %d more", len(listed)-maxListedTitles)
		listed = listed[:maxListedTitles]
	}
	quoted := make([]string, len(listed))
	for i, t := range listed {
		quoted[i] = `"` + t + `"`
	}
	return fmt.Sprintf(`Section "%s" not found. Available sections: [%s%s]`,
		e.Query, strings.Join(quoted, ", "), suffix)
}
