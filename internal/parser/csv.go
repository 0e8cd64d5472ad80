package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVParser handles CSV files. Rows are grouped into batches, each under a
// marked heading, so tabular data gets a navigable tree.
type CSVParser struct{}

const csvBatchSize = 20

func (p *CSVParser) Parse(r io.Reader, filename string) (*Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	title := titleFromFilename(filename)
	if len(records) == 0 {
		return &Document{Title: title}, nil
	}

	headers := records[0]
	dataRows := records[1:]

	var b strings.Builder
	for i := 0; i < len(dataRows); i += csvBatchSize {
		end := i + csvBatchSize
		if end > len(dataRows) {
			end = len(dataRows)
		}

		// 1-indexed file rows, skipping the header.
		fmt.Fprintf(&b, "## Rows %d-%d\n\n", i+2, end+1)
		b.WriteString("Headers: " + strings.Join(headers, ", ") + "\n\n")
		for _, row := range dataRows[i:end] {
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
		b.WriteString("\n")
	}

	return &Document{
		Title: title,
		Text:  strings.TrimSpace(b.String()),
	}, nil
}
