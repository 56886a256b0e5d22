// Package store persists reference data (stopword lists, lexicons) and named
// tidy tables such as fitted topic model output.
package store

import (
	"context"

	"github.com/cognicore/tidytext/pkg/tidytext/table"
)

// Store is the persistence interface. Put operations replace whatever was
// stored under the same name; lookups of absent names wrap
// internalerr.ErrNotFound.
type Store interface {
	Close() error

	// Stopwords
	PutStopwords(ctx context.Context, name string, terms []string) error
	Stopwords(ctx context.Context, name string) ([]string, error)
	StopwordNames(ctx context.Context) ([]string, error)

	// Lexicons
	PutLexicon(ctx context.Context, lex Lexicon) error
	Lexicon(ctx context.Context, name string) (Lexicon, error)
	LexiconNames(ctx context.Context) ([]string, error)

	// Tidy tables
	SaveTable(ctx context.Context, name string, t *table.Table) error
	LoadTable(ctx context.Context, name string) (*table.Table, error)
	TableNames(ctx context.Context) ([]string, error)
}

// Lexicon is the stored form of a sentiment lexicon.
type Lexicon struct {
	Name    string
	Scored  bool
	Entries []LexiconEntry
}

// LexiconEntry is one stored word association.
type LexiconEntry struct {
	Word      string
	Sentiment string
	Value     int64
}

// ModelTableName names the stored beta or gamma table of a model.
func ModelTableName(modelID, part string) string {
	return "model/" + modelID + "/" + part
}
