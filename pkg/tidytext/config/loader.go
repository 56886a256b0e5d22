package config

import (
	"context"
	"fmt"

	"github.com/cognicore/tidytext/pkg/tidytext/ingest"
	"github.com/cognicore/tidytext/pkg/tidytext/internalerr"
	"github.com/cognicore/tidytext/pkg/tidytext/lexicon"
	"github.com/cognicore/tidytext/pkg/tidytext/stoplist"
	"github.com/cognicore/tidytext/pkg/tidytext/store"
	"github.com/cognicore/tidytext/pkg/tidytext/table"
	"github.com/cognicore/tidytext/pkg/tidytext/topics"
)

// Loader builds components from a configuration. Store is optional; when
// set, its stopword lists and lexicons are layered over the builtin ones.
type Loader struct {
	Config *Config
	Store  store.Store
}

// Components holds everything a command needs.
type Components struct {
	Tokenizer *ingest.Tokenizer
	Stoplists *stoplist.Store
	Stopwords *table.Table // nil when disabled
	Lexicons  *lexicon.Store
	Pipeline  *ingest.Pipeline
	Fitter    topics.Fitter
}

// Load reads every referenced file and returns initialized components.
func (l *Loader) Load(ctx context.Context) (*Components, error) {
	cfg := l.config()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	comp := &Components{}

	tc, err := cfg.TokenizerConfig()
	if err != nil {
		return nil, err
	}
	comp.Tokenizer, err = ingest.NewTokenizer(tc)
	if err != nil {
		return nil, err
	}
	if cfg.Phrases != "" {
		phrases, err := ingest.LoadPhrasesYAML(cfg.Phrases)
		if err != nil {
			return nil, fmt.Errorf("load phrases: %w", err)
		}
		comp.Tokenizer = comp.Tokenizer.WithPhrases(ingest.NewPhraseParser(phrases))
	}

	comp.Stoplists, comp.Lexicons, err = l.reference(ctx)
	if err != nil {
		return nil, err
	}

	for _, lf := range cfg.Lexicons {
		lex, err := lexicon.LoadYAML(lf.Path)
		if err != nil {
			return nil, fmt.Errorf("load lexicon %s: %w", lf.Path, err)
		}
		if lf.Name != "" && lf.Name != lex.Name() {
			return nil, fmt.Errorf("lexicon %s is named %q, config says %q: %w", lf.Path, lex.Name(), lf.Name, internalerr.ErrInvalidConfig)
		}
		comp.Lexicons = comp.Lexicons.With(lex)
	}

	if !cfg.Stopwords.Disabled {
		set, err := l.stopwordSet(comp.Stoplists)
		if err != nil {
			return nil, err
		}
		comp.Stopwords = set.Table()
	}

	comp.Pipeline, err = ingest.NewPipeline(comp.Tokenizer, comp.Stopwords)
	if err != nil {
		return nil, err
	}
	comp.Pipeline.SetWorkers(cfg.Workers)

	comp.Fitter = topics.LDA{
		Iterations:           cfg.Topics.Iterations,
		TransformationPasses: cfg.Topics.Passes,
		Processes:            cfg.Topics.Processes,
	}
	return comp, nil
}

// reference returns the builtin stores, overlaid with the persisted ones.
func (l *Loader) reference(ctx context.Context) (*stoplist.Store, *lexicon.Store, error) {
	stops := stoplist.Builtin()
	lexicons := lexicon.Builtin()
	if l.Store == nil {
		return stops, lexicons, nil
	}

	saved, err := store.Stoplist(ctx, l.Store)
	if err != nil {
		return nil, nil, fmt.Errorf("load stored stopwords: %w", err)
	}
	for _, name := range saved.Names() {
		set, _ := saved.Load(name)
		stops = stops.With(set)
	}
	savedLex, err := store.Lexicons(ctx, l.Store)
	if err != nil {
		return nil, nil, fmt.Errorf("load stored lexicons: %w", err)
	}
	for _, name := range savedLex.Names() {
		lex, _ := savedLex.Lexicon(name)
		lexicons = lexicons.With(lex)
	}
	return stops, lexicons, nil
}

func (l *Loader) stopwordSet(stops *stoplist.Store) (stoplist.Set, error) {
	sw := l.config().Stopwords
	var (
		set stoplist.Set
		err error
	)
	if sw.Path != "" {
		set, err = stoplist.LoadYAML(sw.Path)
		if err != nil {
			return stoplist.Set{}, fmt.Errorf("load stopwords: %w", err)
		}
	} else {
		set, err = stops.Load(sw.Source)
		if err != nil {
			return stoplist.Set{}, err
		}
	}
	if len(sw.Extra) > 0 {
		set = set.With(sw.Extra...)
	}
	return set, nil
}

func (l *Loader) config() *Config {
	if l.Config == nil {
		return Default()
	}
	return l.Config
}
