package ingest

import (
	"fmt"
	"strings"

	"github.com/cognicore/tidytext/pkg/tidytext/internalerr"
	"github.com/cognicore/tidytext/pkg/tidytext/table"
)

// Column names of the table built by Documents.
const (
	DocumentColumn = "document"
	LineColumn     = "line"
	TextColumn     = "text"
)

// Document is one source text, kept as its original lines.
type Document struct {
	Key   string
	Lines []string
}

// Validate checks if the document can be turned into rows
func (d *Document) Validate() error {
	if strings.TrimSpace(d.Key) == "" {
		return fmt.Errorf("document key is required: %w", internalerr.ErrInvalidInput)
	}
	return nil
}

// SplitDocument builds a Document from a text blob, one entry per line.
func SplitDocument(key, text string) Document {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return Document{Key: key, Lines: strings.Split(text, "\n")}
}

// DocumentSchema is the (document, line, text) layout produced by Documents.
func DocumentSchema() table.Schema {
	return table.Schema{table.Str(DocumentColumn), table.I64(LineColumn), table.Str(TextColumn)}
}

// Documents lays documents out as (document, line, text) rows; line is 1-based
// within each document. Duplicate keys are allowed and keep their own line
// numbering.
func Documents(docs []Document) (*table.Table, error) {
	b, err := table.NewBuilder(DocumentSchema())
	if err != nil {
		return nil, err
	}
	for i := range docs {
		d := &docs[i]
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		for n, line := range d.Lines {
			if err := b.Append(d.Key, int64(n+1), line); err != nil {
				return nil, err
			}
		}
	}
	return b.Build(), nil
}
