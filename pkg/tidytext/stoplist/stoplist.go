// Package stoplist holds named stopword lists and exposes them as tidy tables
// for anti-joins.
package stoplist

import (
	"embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/tidytext/pkg/tidytext/internalerr"
	"github.com/cognicore/tidytext/pkg/tidytext/table"
)

// Column names of stopword tables.
const (
	WordColumn    = "word"
	LexiconColumn = "lexicon"
)

//go:embed data/*.yaml
var builtinFS embed.FS

// Set is a named, immutable list of stopwords.
type Set struct {
	name  string
	terms map[string]struct{}
}

// NewSet builds a set; terms are lowercased and trimmed, blanks dropped.
func NewSet(name string, terms []string) Set {
	s := Set{name: name, terms: make(map[string]struct{}, len(terms))}
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" {
			s.terms[term] = struct{}{}
		}
	}
	return s
}

// Name returns the list name.
func (s Set) Name() string { return s.name }

// Contains checks if a token is a stopword
func (s Set) Contains(token string) bool {
	_, ok := s.terms[token]
	return ok
}

// Len returns the number of terms.
func (s Set) Len() int { return len(s.terms) }

// Terms returns all stopwords, sorted.
func (s Set) Terms() []string {
	out := make([]string, 0, len(s.terms))
	for term := range s.terms {
		out = append(out, term)
	}
	sort.Strings(out)
	return out
}

// With returns a copy of the set extended by extra terms.
func (s Set) With(extra ...string) Set {
	return NewSet(s.name, append(s.Terms(), extra...))
}

// Without returns a copy of the set minus the given terms.
func (s Set) Without(terms ...string) Set {
	out := NewSet(s.name, s.Terms())
	for _, term := range terms {
		delete(out.terms, strings.ToLower(strings.TrimSpace(term)))
	}
	return out
}

// Schema is the (word, lexicon) layout of stopword tables.
func Schema() table.Schema {
	return table.Schema{table.Str(WordColumn), table.Str(LexiconColumn)}
}

// Table returns the set as sorted (word, lexicon) rows.
func (s Set) Table() *table.Table {
	rows := make([][]table.Value, 0, len(s.terms))
	for _, term := range s.Terms() {
		rows = append(rows, []table.Value{term, s.name})
	}
	// two string cells per row always fit Schema
	return table.MustNew(Schema(), rows)
}

// Store is a read-only collection of sets, keyed by name. It is safe for
// concurrent reads once built.
type Store struct {
	sets map[string]Set
}

// NewStore builds a store from sets; names must be unique and non-empty.
func NewStore(sets ...Set) (*Store, error) {
	st := &Store{sets: make(map[string]Set, len(sets))}
	for _, s := range sets {
		if s.name == "" {
			return nil, fmt.Errorf("stopword set without a name: %w", internalerr.ErrInvalidInput)
		}
		if _, dup := st.sets[s.name]; dup {
			return nil, fmt.Errorf("stopword set %q: %w", s.name, internalerr.ErrDuplicateKey)
		}
		st.sets[s.name] = s
	}
	return st, nil
}

// Builtin returns a store with the compiled-in "snowball" and "minimal" lists.
func Builtin() *Store {
	entries, err := builtinFS.ReadDir("data")
	if err != nil {
		panic(err)
	}
	var sets []Set
	for _, e := range entries {
		data, err := builtinFS.ReadFile("data/" + e.Name())
		if err != nil {
			panic(err)
		}
		s, err := ParseYAML(data)
		if err != nil {
			panic(fmt.Sprintf("builtin stopwords %s: %v", e.Name(), err))
		}
		sets = append(sets, s)
	}
	st, err := NewStore(sets...)
	if err != nil {
		panic(err)
	}
	return st
}

// Load returns the named set.
func (st *Store) Load(name string) (Set, error) {
	s, ok := st.sets[name]
	if !ok {
		return Set{}, fmt.Errorf("stopwords %q (have %v): %w", name, st.Names(), internalerr.ErrUnknownLexicon)
	}
	return s, nil
}

// Names returns the set names, sorted.
func (st *Store) Names() []string {
	out := make([]string, 0, len(st.sets))
	for name := range st.sets {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Table returns every set as (word, lexicon) rows, sets in name order.
func (st *Store) Table() *table.Table {
	var rows [][]table.Value
	for _, name := range st.Names() {
		for _, term := range st.sets[name].Terms() {
			rows = append(rows, []table.Value{term, name})
		}
	}
	return table.MustNew(Schema(), rows)
}

// With returns a new store holding the receiver's sets plus s, replacing a
// set of the same name.
func (st *Store) With(s Set) *Store {
	out := &Store{sets: make(map[string]Set, len(st.sets)+1)}
	for name, set := range st.sets {
		out.sets[name] = set
	}
	out.sets[s.name] = s
	return out
}

// ParseYAML reads a list of the form
//
//	name: custom
//	terms: [foo, bar]
func ParseYAML(data []byte) (Set, error) {
	var doc struct {
		Name  string   `yaml:"name"`
		Terms []string `yaml:"terms"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Set{}, fmt.Errorf("parse stopwords: %v: %w", err, internalerr.ErrInvalidInput)
	}
	if strings.TrimSpace(doc.Name) == "" {
		return Set{}, fmt.Errorf("stopwords need a name: %w", internalerr.ErrInvalidInput)
	}
	return NewSet(doc.Name, doc.Terms), nil
}

// LoadYAML reads a stopword list from a file in ParseYAML's format.
func LoadYAML(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Set{}, err
	}
	s, err := ParseYAML(data)
	if err != nil {
		return Set{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
