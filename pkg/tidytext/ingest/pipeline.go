package ingest

import (
	"context"
	"fmt"

	"github.com/cognicore/tidytext/pkg/tidytext/internalerr"
	"github.com/cognicore/tidytext/pkg/tidytext/table"
)

// WordColumn is the token column written by the pipeline.
const WordColumn = "word"

// Pipeline orchestrates the usual flow:
// (document, line, text) -> tokens -> stopword removal -> (document, word, n)
type Pipeline struct {
	tokenizer *Tokenizer
	stopwords *table.Table
	workers   int
}

// NewPipeline creates a pipeline. stopwords must carry a String "word" column
// and may be nil to keep every token.
func NewPipeline(tokenizer *Tokenizer, stopwords *table.Table) (*Pipeline, error) {
	if tokenizer == nil {
		return nil, fmt.Errorf("pipeline needs a tokenizer: %w", internalerr.ErrInvalidInput)
	}
	if stopwords != nil {
		c, ok := stopwords.Schema().Lookup(WordColumn)
		if !ok || c.Kind != table.String {
			return nil, fmt.Errorf("stopword table needs a string %q column: %w", WordColumn, internalerr.ErrSchemaMismatch)
		}
	}
	return &Pipeline{tokenizer: tokenizer, stopwords: stopwords, workers: 1}, nil
}

// SetWorkers sets how many goroutines tokenize rows; values below 1 mean 1.
func (p *Pipeline) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	p.workers = n
}

// Tokenizer returns the pipeline tokenizer.
func (p *Pipeline) Tokenizer() *Tokenizer { return p.tokenizer }

// Terms unnests the text column into words and drops stopwords.
func (p *Pipeline) Terms(ctx context.Context, docs *table.Table) (*table.Table, error) {
	tokens, err := p.tokenizer.ParallelUnnest(ctx, docs, TextColumn, WordColumn, p.workers)
	if err != nil {
		return nil, err
	}
	if p.stopwords == nil {
		return tokens, nil
	}
	return tokens.AntiJoin(p.stopwords, WordColumn)
}

// Counts returns (document, word, n) in first-occurrence order.
func (p *Pipeline) Counts(ctx context.Context, docs *table.Table) (*table.Table, error) {
	terms, err := p.Terms(ctx, docs)
	if err != nil {
		return nil, err
	}
	return terms.GroupCount([]string{DocumentColumn, WordColumn})
}
