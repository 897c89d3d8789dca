package markup

import (
	"errors"
	"io"
)

// TextDecoder passes plain text and markdown through untouched apart from
// newline normalization. Markdown already is flow text.
type TextDecoder struct{}

func (TextDecoder) Decode(r io.Reader, src string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", &DecodeError{Source: src, Err: err}
	}
	out := tidy(string(data))
	if out == "" {
		return "", &DecodeError{Source: src, Err: errors.New("no textual content")}
	}
	return out, nil
}
