// Package lexicon stores word-level sentiment lexicons and exposes them as
// tidy tables ready to join against tokens.
//
// Two shapes are supported:
//   - label lexicons (bing, nrc): one row per (word, sentiment) association
//   - scored lexicons (afinn): one integer value per word
package lexicon

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

// Column names of lexicon tables.
const (
	WordColumn      = "word"
	SentimentColumn = "sentiment"
	ValueColumn     = "value"
)

//go:embed data/*.yaml
var builtinFS embed.FS

// Entry is one word association of a lexicon.
type Entry struct {
	Word      string
	Lexicon   string
	Sentiment string // label lexicons only
	Value     int64  // scored lexicons only
	Scored    bool
}

// Lexicon is an immutable, named set of entries, sorted by word then sentiment.
type Lexicon struct {
	name    string
	scored  bool
	entries []Entry
}

// NewLabeled builds a label lexicon from sentiment -> words.
func NewLabeled(name string, labels map[string][]string) *Lexicon {
	l := &Lexicon{name: name}
	seen := make(map[[2]string]struct{})
	for sentiment, words := range labels {
		sentiment = normalize(sentiment)
		for _, w := range words {
			w = normalize(w)
			if w == "" || sentiment == "" {
				continue
			}
			k := [2]string{w, sentiment}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			l.entries = append(l.entries, Entry{Word: w, Lexicon: name, Sentiment: sentiment})
		}
	}
	l.sort()
	return l
}

// NewScored builds a scored lexicon from word -> value.
func NewScored(name string, scores map[string]int64) *Lexicon {
	l := &Lexicon{name: name, scored: true}
	merged := make(map[string]int64, len(scores))
	for w, v := range scores {
		if w = normalize(w); w != "" {
			merged[w] = v
		}
	}
	for w, v := range merged {
		l.entries = append(l.entries, Entry{Word: w, Lexicon: name, Value: v, Scored: true})
	}
	l.sort()
	return l
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (l *Lexicon) sort() {
	sort.Slice(l.entries, func(i, j int) bool {
		a, b := l.entries[i], l.entries[j]
		if a.Word != b.Word {
			return a.Word < b.Word
		}
		return a.Sentiment < b.Sentiment
	})
}

// Name returns the lexicon name.
func (l *Lexicon) Name() string { return l.name }

// Scored reports whether the lexicon carries values rather than labels.
func (l *Lexicon) Scored() bool { return l.scored }

// Len returns the number of entries.
func (l *Lexicon) Len() int { return len(l.entries) }

// Entries returns a copy of the entries.
func (l *Lexicon) Entries() []Entry {
	return append([]Entry(nil), l.entries...)
}

// Sentiments returns the distinct labels, sorted. Scored lexicons have none.
func (l *Lexicon) Sentiments() []string {
	set := make(map[string]struct{})
	for _, e := range l.entries {
		if e.Sentiment != "" {
			set[e.Sentiment] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Schema returns (word, sentiment) for label lexicons and (word, value) for
// scored ones.
func (l *Lexicon) Schema() table.Schema {
	if l.scored {
		return table.Schema{table.Str(WordColumn), table.I64(ValueColumn)}
	}
	return table.Schema{table.Str(WordColumn), table.Str(SentimentColumn)}
}

// Table returns the lexicon as a tidy table in entry order.
func (l *Lexicon) Table() *table.Table {
	rows := make([][]table.Value, len(l.entries))
	for i, e := range l.entries {
		if l.scored {
			rows[i] = []table.Value{e.Word, e.Value}
		} else {
			rows[i] = []table.Value{e.Word, e.Sentiment}
		}
	}
	// entries are built by NewLabeled/NewScored and always match Schema
	return table.MustNew(l.Schema(), rows)
}

// Filter returns a label lexicon restricted to the given sentiments, e.g. the
// "joy" words of nrc.
func (l *Lexicon) Filter(sentiments ...string) *Lexicon {
	keep := make(map[string]struct{}, len(sentiments))
	for _, s := range sentiments {
		keep[normalize(s)] = struct{}{}
	}
	out := &Lexicon{name: l.name, scored: l.scored}
	for _, e := range l.entries {
		if _, ok := keep[e.Sentiment]; ok || l.scored {
			out.entries = append(out.entries, e)
		}
	}
	return out
}

type yamlLexicon struct {
	Name   string              `yaml:"name"`
	Labels map[string][]string `yaml:"labels"`
	Scores map[string]int64    `yaml:"scores"`
}

// ParseYAML reads a lexicon file.
//
// Expected format, one of:
//
//	name: mine
//	labels:
//	  positive: [good, great]
//	  negative: [bad]
//
//	name: mine
//	scores:
//	  good: 3
//	  bad: -3
func ParseYAML(data []byte) (*Lexicon, error) {
	var doc yamlLexicon
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse lexicon: %v: %w", err, internalerr.ErrInvalidInput)
	}
	name := strings.TrimSpace(doc.Name)
	switch {
	case name == "":
		return nil, fmt.Errorf("lexicon needs a name: %w", internalerr.ErrInvalidInput)
	case len(doc.Labels) > 0 && len(doc.Scores) > 0:
		return nil, fmt.Errorf("lexicon %q has both labels and scores: %w", name, internalerr.ErrInvalidInput)
	case len(doc.Scores) > 0:
		return NewScored(name, doc.Scores), nil
	case len(doc.Labels) > 0:
		return NewLabeled(name, doc.Labels), nil
	}
	return nil, fmt.Errorf("lexicon %q is empty: %w", name, internalerr.ErrInvalidInput)
}

// LoadYAML reads a lexicon from a file in ParseYAML's format.
func LoadYAML(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	l, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}
