package lexicon

import (
	"fmt"
	"sort"

	"github.com/cognicore/tidytext/pkg/tidytext/internalerr"
	"github.com/cognicore/tidytext/pkg/tidytext/table"
)

// Store is a read-only registry of lexicons, safe for concurrent reads.
type Store struct {
	byName map[string]*Lexicon
}

// NewStore registers lexicons under their names, which must be unique and non-empty.
func NewStore(lexicons ...*Lexicon) (*Store, error) {
	st := &Store{byName: make(map[string]*Lexicon, len(lexicons))}
	for _, l := range lexicons {
		if l == nil || l.name == "" {
			return nil, fmt.Errorf("lexicon without a name: %w", internalerr.ErrInvalidInput)
		}
		if _, dup := st.byName[l.name]; dup {
			return nil, fmt.Errorf("lexicon %q: %w", l.name, internalerr.ErrDuplicateKey)
		}
		st.byName[l.name] = l
	}
	return st, nil
}

// Builtin returns a store with the compiled-in bing, afinn and nrc samples.
func Builtin() *Store {
	entries, err := builtinFS.ReadDir("data")
	if err != nil {
		panic(err)
	}
	var lexicons []*Lexicon
	for _, e := range entries {
		data, err := builtinFS.ReadFile("data/" + e.Name())
		if err != nil {
			panic(err)
		}
		l, err := ParseYAML(data)
		if err != nil {
			panic(fmt.Sprintf("builtin lexicon %s: %v", e.Name(), err))
		}
		lexicons = append(lexicons, l)
	}
	st, err := NewStore(lexicons...)
	if err != nil {
		panic(err)
	}
	return st
}

// Lexicon returns the named lexicon.
func (st *Store) Lexicon(name string) (*Lexicon, error) {
	l, ok := st.byName[name]
	if !ok {
		return nil, fmt.Errorf("lexicon %q (have %v): %w", name, st.Names(), internalerr.ErrUnknownLexicon)
	}
	return l, nil
}

// Load returns the entries of the named lexicon.
func (st *Store) Load(name string) ([]Entry, error) {
	l, err := st.Lexicon(name)
	if err != nil {
		return nil, err
	}
	return l.Entries(), nil
}

// Table returns the named lexicon as a tidy table.
func (st *Store) Table(name string) (*table.Table, error) {
	l, err := st.Lexicon(name)
	if err != nil {
		return nil, err
	}
	return l.Table(), nil
}

// Names returns the registered names, sorted.
func (st *Store) Names() []string {
	out := make([]string, 0, len(st.byName))
	for name := range st.byName {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// With returns a new store with l added, replacing a lexicon of the same name.
func (st *Store) With(l *Lexicon) *Store {
	out := &Store{byName: make(map[string]*Lexicon, len(st.byName)+1)}
	for name, lex := range st.byName {
		out.byName[name] = lex
	}
	out.byName[l.name] = l
	return out
}
