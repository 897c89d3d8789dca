package markup

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// CSVDecoder renders tabular data as labeled row batches, so large sheets
// stay navigable section by section.
type CSVDecoder struct{}

const csvBatchSize = 20

func (CSVDecoder) Decode(r io.Reader, src string) (string, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return "", &DecodeError{Source: src, Err: fmt.Errorf("parse csv: %w", err)}
	}
	if len(records) == 0 {
		return "", &DecodeError{Source: src, Err: errors.New("no textual content")}
	}

	// First row is headers.
	headers := records[0]
	rows := records[1:]

	var b strings.Builder
	b.WriteString("Headers: " + strings.Join(headers, ", ") + "\n")
	for i := 0; i < len(rows); i += csvBatchSize {
		end := min(i+csvBatchSize, len(rows))
		// 1-indexed spreadsheet rows, skipping the header.
		fmt.Fprintf(&b, "\n## Rows %d-%d\n\n", i+2, end+1)
		for _, row := range rows[i:end] {
			for j, cell := range row {
				if j < len(headers) {
					b.WriteString(headers[j] + ": " + cell)
				} else {
					b.WriteString(cell)
				}
				if j < len(row)-1 {
					b.WriteString(", ")
				}
			}
			b.WriteString("\n")
		}
	}
	return tidy(b.String()), nil
}
