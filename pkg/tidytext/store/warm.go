package store

import (
	"context"

	"github.com/cognicore/tidytext/pkg/tidytext/lexicon"
	"github.com/cognicore/tidytext/pkg/tidytext/stoplist"
)

// Warm copies every stopword list and lexicon of the given stores into st.
func Warm(ctx context.Context, st Store, stops *stoplist.Store, lexicons *lexicon.Store) error {
	if stops != nil {
		for _, name := range stops.Names() {
			set, err := stops.Load(name)
			if err != nil {
				return err
			}
			if err := st.PutStopwords(ctx, name, set.Terms()); err != nil {
				return err
			}
		}
	}
	if lexicons != nil {
		for _, name := range lexicons.Names() {
			l, err := lexicons.Lexicon(name)
			if err != nil {
				return err
			}
			if err := st.PutLexicon(ctx, FromLexicon(l)); err != nil {
				return err
			}
		}
	}
	return nil
}

// FromLexicon converts a lexicon into its stored form.
func FromLexicon(l *lexicon.Lexicon) Lexicon {
	out := Lexicon{Name: l.Name(), Scored: l.Scored()}
	for _, e := range l.Entries() {
		out.Entries = append(out.Entries, LexiconEntry{Word: e.Word, Sentiment: e.Sentiment, Value: e.Value})
	}
	return out
}

// ToLexicon rebuilds a lexicon from its stored form.
func ToLexicon(s Lexicon) *lexicon.Lexicon {
	if s.Scored {
		scores := make(map[string]int64, len(s.Entries))
		for _, e := range s.Entries {
			scores[e.Word] = e.Value
		}
		return lexicon.NewScored(s.Name, scores)
	}
	labels := make(map[string][]string)
	for _, e := range s.Entries {
		labels[e.Sentiment] = append(labels[e.Sentiment], e.Word)
	}
	return lexicon.NewLabeled(s.Name, labels)
}

// Stoplist rebuilds a read-only stopword store from everything in st.
func Stoplist(ctx context.Context, st Store) (*stoplist.Store, error) {
	names, err := st.StopwordNames(ctx)
	if err != nil {
		return nil, err
	}
	sets := make([]stoplist.Set, 0, len(names))
	for _, name := range names {
		terms, err := st.Stopwords(ctx, name)
		if err != nil {
			return nil, err
		}
		sets = append(sets, stoplist.NewSet(name, terms))
	}
	return stoplist.NewStore(sets...)
}

// Lexicons rebuilds a read-only lexicon store from everything in st.
func Lexicons(ctx context.Context, st Store) (*lexicon.Store, error) {
	names, err := st.LexiconNames(ctx)
	if err != nil {
		return nil, err
	}
	lexicons := make([]*lexicon.Lexicon, 0, len(names))
	for _, name := range names {
		s, err := st.Lexicon(ctx, name)
		if err != nil {
			return nil, err
		}
		lexicons = append(lexicons, ToLexicon(s))
	}
	return lexicon.NewStore(lexicons...)
}
