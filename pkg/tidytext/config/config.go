// Package config reads the tidytext YAML configuration and turns it into
// ready-to-use components.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/tidytext/pkg/tidytext/ingest"
	"github.com/cognicore/tidytext/pkg/tidytext/internalerr"
)

// Config is the top-level configuration file.
type Config struct {
	Tokenize  Tokenize      `yaml:"tokenize"`
	Stopwords Stopwords     `yaml:"stopwords"`
	Lexicons  []LexiconFile `yaml:"lexicons"`
	Phrases   string        `yaml:"phrases"`
	Topics    Topics        `yaml:"topics"`
	Sentiment Sentiment     `yaml:"sentiment"`
	Store     Store         `yaml:"store"`
	Workers   int           `yaml:"workers"`
}

// Tokenize mirrors ingest.Config. Zero lengths and unset flags or skip
// distance fall back to the unit defaults.
type Tokenize struct {
	Unit         string `yaml:"unit"`
	N            int    `yaml:"n"`
	NMin         int    `yaml:"n_min"`
	K            *int   `yaml:"k"`
	Pattern      string `yaml:"pattern"`
	Lowercase    *bool  `yaml:"lowercase"`
	StripPunct   *bool  `yaml:"strip_punct"`
	StripNumeric *bool  `yaml:"strip_numeric"`
}

// Stopwords selects the stopword list. Path, when set, wins over Source.
type Stopwords struct {
	Source   string   `yaml:"source"`
	Path     string   `yaml:"path"`
	Extra    []string `yaml:"extra"`
	Disabled bool     `yaml:"disabled"`
}

// LexiconFile registers an extra lexicon. Name, when set, must match the name
// inside the file.
type LexiconFile struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// Topics configures the LDA fitter.
type Topics struct {
	K          int    `yaml:"k"`
	Seed       uint64 `yaml:"seed"`
	Iterations int    `yaml:"iterations"`
	Passes     int    `yaml:"passes"`
	Processes  int    `yaml:"processes"`
}

// Sentiment configures the sentiment index.
type Sentiment struct {
	Lexicon string `yaml:"lexicon"`
	Width   int    `yaml:"width"`
}

// Store points at the optional sqlite cache.
type Store struct {
	Path string `yaml:"path"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Tokenize:  Tokenize{Unit: ingest.Words.String()},
		Stopwords: Stopwords{Source: "snowball"},
		Topics:    Topics{K: 4, Seed: 1234, Iterations: 100},
		Sentiment: Sentiment{Lexicon: "bing", Width: 80},
		Workers:   1,
	}
}

// Load reads a YAML file on top of Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %v: %w", err, internalerr.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// TokenizerConfig resolves the tokenize section against the unit defaults.
func (c *Config) TokenizerConfig() (ingest.Config, error) {
	unit, err := ingest.ParseUnit(c.Tokenize.Unit)
	if err != nil {
		return ingest.Config{}, err
	}
	tc := ingest.DefaultConfig(unit)
	t := c.Tokenize
	if t.N > 0 {
		tc.N = t.N
		if tc.NMin > tc.N || unit == ingest.NGrams {
			tc.NMin = tc.N
		}
	}
	if t.NMin > 0 {
		tc.NMin = t.NMin
	}
	if t.K != nil {
		tc.K = *t.K
	}
	tc.Pattern = t.Pattern
	if t.Lowercase != nil {
		tc.Lowercase = *t.Lowercase
	}
	if t.StripPunct != nil {
		tc.StripPunct = *t.StripPunct
	}
	if t.StripNumeric != nil {
		tc.StripNumeric = *t.StripNumeric
	}
	return tc, nil
}

// Validate checks every section; failures wrap ErrInvalidConfig.
func (c *Config) Validate() error {
	tc, err := c.TokenizerConfig()
	if err == nil {
		err = tc.Validate()
	}
	if err != nil {
		return fmt.Errorf("tokenize: %w: %w", err, internalerr.ErrInvalidConfig)
	}
	if !c.Stopwords.Disabled && c.Stopwords.Source == "" && c.Stopwords.Path == "" {
		return fmt.Errorf("stopwords: need a source or a path: %w", internalerr.ErrInvalidConfig)
	}
	for i, l := range c.Lexicons {
		if l.Path == "" {
			return fmt.Errorf("lexicons[%d]: empty path: %w", i, internalerr.ErrInvalidConfig)
		}
	}
	if c.Topics.K < 1 {
		return fmt.Errorf("topics: k=%d, must be >= 1: %w", c.Topics.K, internalerr.ErrInvalidConfig)
	}
	if c.Topics.Iterations < 0 || c.Topics.Passes < 0 || c.Topics.Processes < 0 {
		return fmt.Errorf("topics: negative iterations, passes or processes: %w", internalerr.ErrInvalidConfig)
	}
	if c.Sentiment.Width < 1 {
		return fmt.Errorf("sentiment: width=%d, must be >= 1: %w", c.Sentiment.Width, internalerr.ErrInvalidConfig)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers=%d: %w", c.Workers, internalerr.ErrInvalidConfig)
	}
	return nil
}
