// Package sentiment scores tokenized text against sentiment lexicons.
package sentiment

import (
	"fmt"

	"github.com/cognicore/tidytext/pkg/tidytext/internalerr"
	"github.com/cognicore/tidytext/pkg/tidytext/lexicon"
	"github.com/cognicore/tidytext/pkg/tidytext/table"
)

// Output column names.
const (
	IndexColumn     = "index"
	SentimentColumn = "sentiment"
	Positive        = "positive"
	Negative        = "negative"
)

// IndexSpec names the token table columns and the chunk width for Index.
type IndexSpec struct {
	Document string // default "document"
	Line     string // default "line"
	Word     string // default "word"
	Width    int    // lines per chunk, default 80
}

func (s IndexSpec) withDefaults() IndexSpec {
	if s.Document == "" {
		s.Document = "document"
	}
	if s.Line == "" {
		s.Line = "line"
	}
	if s.Word == "" {
		s.Word = lexicon.WordColumn
	}
	if s.Width == 0 {
		s.Width = 80
	}
	return s
}

// join matches tokens to lexicon entries on the word column.
func join(tokens *table.Table, lex *lexicon.Lexicon, word string) (*table.Table, error) {
	return tokens.InnerJoin(lex.Table(), table.On{Left: word, Right: lexicon.WordColumn})
}

// Index tracks sentiment through a narrative: tokens are matched against a
// label lexicon, binned into chunks of Width lines (index = line / Width),
// counted per (document, index, label) and pivoted wide with zeros for absent
// labels. A final sentiment column holds positive minus negative.
func Index(tokens *table.Table, lex *lexicon.Lexicon, spec IndexSpec) (*table.Table, error) {
	spec = spec.withDefaults()
	if lex.Scored() {
		return nil, fmt.Errorf("index needs a label lexicon, %q is scored: %w", lex.Name(), internalerr.ErrInvalidInput)
	}
	if spec.Width < 1 {
		return nil, fmt.Errorf("index width %d must be positive: %w", spec.Width, internalerr.ErrInvalidInput)
	}
	if c, ok := tokens.Schema().Lookup(spec.Line); !ok || c.Kind != table.Int {
		return nil, fmt.Errorf("line column %q must be int: %w", spec.Line, internalerr.ErrSchemaMismatch)
	}

	joined, err := join(tokens, lex, spec.Word)
	if err != nil {
		return nil, err
	}
	width := int64(spec.Width)
	binned, err := joined.Mutate(table.I64(IndexColumn), func(r table.Row) table.Value {
		return r.Int(spec.Line) / width
	})
	if err != nil {
		return nil, err
	}
	counts, err := binned.GroupCount([]string{spec.Document, IndexColumn, lexicon.SentimentColumn})
	if err != nil {
		return nil, err
	}
	wide, err := counts.PivotWider(table.PivotSpec{
		IDs:    []string{spec.Document, IndexColumn},
		Names:  lexicon.SentimentColumn,
		Values: table.CountColumn,
		Fill:   int64(0),
	})
	if err != nil {
		return nil, err
	}
	for _, c := range []string{Positive, Negative} {
		if wide.Has(c) {
			continue
		}
		if wide, err = wide.Mutate(table.I64(c), func(table.Row) table.Value { return int64(0) }); err != nil {
			return nil, err
		}
	}
	return wide.Mutate(table.I64(SentimentColumn), func(r table.Row) table.Value {
		return r.Int(Positive) - r.Int(Negative)
	})
}

// Score sums the values of a scored lexicon per docCol group into a
// sentiment column. Documents without any scored word are absent.
func Score(tokens *table.Table, lex *lexicon.Lexicon, docCol, wordCol string) (*table.Table, error) {
	if !lex.Scored() {
		return nil, fmt.Errorf("score needs a scored lexicon, %q has labels: %w", lex.Name(), internalerr.ErrInvalidInput)
	}
	joined, err := join(tokens, lex, wordCol)
	if err != nil {
		return nil, err
	}
	return joined.GroupSum([]string{docCol}, lexicon.ValueColumn, SentimentColumn)
}

// Contributions counts how often each lexicon word occurs with each label,
// most frequent first.
func Contributions(tokens *table.Table, lex *lexicon.Lexicon, wordCol string) (*table.Table, error) {
	joined, err := join(tokens, lex, wordCol)
	if err != nil {
		return nil, err
	}
	if lex.Scored() {
		return joined.GroupCount([]string{wordCol, lexicon.ValueColumn}, table.Sorted())
	}
	return joined.GroupCount([]string{wordCol, lexicon.SentimentColumn}, table.Sorted())
}
