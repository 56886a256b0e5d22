package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/tidytext/pkg/tidytext/internalerr"
	"github.com/cognicore/tidytext/pkg/tidytext/store"
	"github.com/cognicore/tidytext/pkg/tidytext/table"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu        sync.RWMutex
	stopwords map[string][]string
	lexicons  map[string]store.Lexicon
	tables    map[string]*table.Table
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		stopwords: make(map[string][]string),
		lexicons:  make(map[string]store.Lexicon),
		tables:    make(map[string]*table.Table),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// PutStopwords replaces the named list. An empty list removes it.
func (s *Store) PutStopwords(ctx context.Context, name string, terms []string) error {
	if name == "" {
		return fmt.Errorf("stopwords need a name: %w", internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	terms = uniqueSorted(terms)
	if len(terms) == 0 {
		delete(s.stopwords, name)
		return nil
	}
	s.stopwords[name] = terms
	return nil
}

// Stopwords returns the named list, sorted.
func (s *Store) Stopwords(ctx context.Context, name string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	terms, ok := s.stopwords[name]
	if !ok {
		return nil, fmt.Errorf("stopwords %q: %w", name, internalerr.ErrNotFound)
	}
	return append([]string(nil), terms...), nil
}

// StopwordNames lists stored stopword lists.
func (s *Store) StopwordNames(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.stopwords), nil
}

// PutLexicon replaces the named lexicon.
func (s *Store) PutLexicon(ctx context.Context, lex store.Lexicon) error {
	if lex.Name == "" {
		return fmt.Errorf("lexicon needs a name: %w", internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	lex.Entries = append([]store.LexiconEntry(nil), lex.Entries...)
	s.lexicons[lex.Name] = lex
	return nil
}

// Lexicon returns the named lexicon.
func (s *Store) Lexicon(ctx context.Context, name string) (store.Lexicon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lex, ok := s.lexicons[name]
	if !ok {
		return store.Lexicon{}, fmt.Errorf("lexicon %q: %w", name, internalerr.ErrNotFound)
	}
	lex.Entries = append([]store.LexiconEntry(nil), lex.Entries...)
	return lex, nil
}

// LexiconNames lists stored lexicons.
func (s *Store) LexiconNames(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.lexicons), nil
}

// SaveTable stores t under name. Tables are immutable, so no copy is made.
func (s *Store) SaveTable(ctx context.Context, name string, t *table.Table) error {
	if name == "" || t == nil {
		return fmt.Errorf("save table needs a name and a table: %w", internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[name] = t
	return nil
}

// LoadTable returns the table stored under name.
func (s *Store) LoadTable(ctx context.Context, name string) (*table.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tables[name]
	if !ok {
		return nil, fmt.Errorf("table %q: %w", name, internalerr.ErrNotFound)
	}
	return t, nil
}

// TableNames lists stored tables.
func (s *Store) TableNames(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.tables), nil
}

func uniqueSorted(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

var _ store.Store = (*Store)(nil)
