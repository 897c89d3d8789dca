package pager

// Options tunes boundary detection and section matching. The zero value is
// not useful; start from DefaultOptions and override fields as needed.
type Options struct {
	// SentenceTerminators are the runes treated as sentence-ending
	// punctuation when followed by whitespace. The default set covers
	// Latin prose; scripts with their own terminators need their own set.
	SentenceTerminators []rune

	// LookbackRatio bounds how far back from the candidate end the
	// boundary scan may go, as a fraction of the requested window length.
	LookbackRatio float64

	// FuzzyThreshold is the minimum Jaro-Winkler similarity for the
	// normalized section-match tier.
	FuzzyThreshold float64
}

// DefaultOptions returns the standard tuning.
func DefaultOptions() Options {
	return Options{
		SentenceTerminators: []rune{'.', '!', '?'},
		LookbackRatio:       0.15,
		FuzzyThreshold:      0.85,
	}
}
