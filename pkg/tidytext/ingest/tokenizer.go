package ingest

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/cognicore/tidytext/pkg/tidytext/internalerr"
)

// Unit selects what a token is.
type Unit int

const (
	Words Unit = iota
	Characters
	CharacterShingles
	NGrams
	SkipNGrams
	Sentences
	Lines
	Paragraphs
	Regex
)

var unitNames = map[Unit]string{
	Words:             "words",
	Characters:        "characters",
	CharacterShingles: "character_shingles",
	NGrams:            "ngrams",
	SkipNGrams:        "skip_ngrams",
	Sentences:         "sentences",
	Lines:             "lines",
	Paragraphs:        "paragraphs",
	Regex:             "regex",
}

func (u Unit) String() string {
	if s, ok := unitNames[u]; ok {
		return s
	}
	return fmt.Sprintf("unit(%d)", int(u))
}

// ParseUnit maps a unit name ("words", "ngrams", ...) to its Unit.
func ParseUnit(s string) (Unit, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for u, name := range unitNames {
		if name == s || strings.TrimSuffix(name, "s") == s {
			return u, nil
		}
	}
	return 0, fmt.Errorf("unit %q: %w", s, internalerr.ErrInvalidUnitConfiguration)
}

// Config controls tokenization. Use DefaultConfig to get the defaults of a unit.
type Config struct {
	Unit Unit

	N    int // n-gram, skip-gram and shingle length
	NMin int // shortest n-gram emitted; defaults to N for NGrams and 1 for SkipNGrams
	K    int // largest skip distance for SkipNGrams

	Pattern string // separator regexp for Regex

	Lowercase    bool
	StripPunct   bool
	StripNumeric bool
}

// DefaultConfig returns the defaults for a unit: lowercased output for every
// unit, punctuation stripped for word and character based units.
func DefaultConfig(unit Unit) Config {
	cfg := Config{Unit: unit, Lowercase: true}
	switch unit {
	case Words, Characters:
		cfg.StripPunct = true
	case CharacterShingles:
		cfg.StripPunct = true
		cfg.N = 3
	case NGrams:
		cfg.StripPunct = true
		cfg.N, cfg.NMin = 2, 2
	case SkipNGrams:
		cfg.StripPunct = true
		cfg.N, cfg.NMin, cfg.K = 3, 1, 1
	}
	return cfg
}

// Validate checks unit parameters.
func (c Config) Validate() error {
	switch c.Unit {
	case Words, Characters, Sentences, Lines, Paragraphs:
		return nil
	case CharacterShingles, NGrams, SkipNGrams:
		if c.N < 1 {
			return fmt.Errorf("%s: n=%d, must be >= 1: %w", c.Unit, c.N, internalerr.ErrInvalidUnitConfiguration)
		}
		if c.Unit == CharacterShingles {
			return nil
		}
		if c.NMin < 1 || c.NMin > c.N {
			return fmt.Errorf("%s: n_min=%d, must be in [1, %d]: %w", c.Unit, c.NMin, c.N, internalerr.ErrInvalidUnitConfiguration)
		}
		if c.K < 0 {
			return fmt.Errorf("%s: k=%d, must be >= 0: %w", c.Unit, c.K, internalerr.ErrInvalidUnitConfiguration)
		}
		return nil
	case Regex:
		if c.Pattern == "" {
			return fmt.Errorf("regex unit needs a pattern: %w", internalerr.ErrInvalidUnitConfiguration)
		}
		if _, err := regexp.Compile(c.Pattern); err != nil {
			return fmt.Errorf("regex %q: %v: %w", c.Pattern, err, internalerr.ErrInvalidUnitConfiguration)
		}
		return nil
	}
	return fmt.Errorf("%s: %w", c.Unit, internalerr.ErrInvalidUnitConfiguration)
}

// Tokenizer splits text into tokens of one unit. It holds no mutable state and
// is safe for concurrent use.
type Tokenizer struct {
	cfg     Config
	re      *regexp.Regexp
	phrases *PhraseParser
}

var paragraphBreak = regexp.MustCompile(`\n[ \t\r]*\n`)

// NewTokenizer validates cfg and returns a tokenizer for it.
func NewTokenizer(cfg Config) (*Tokenizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	t := &Tokenizer{cfg: cfg}
	if cfg.Unit == Regex {
		t.re = regexp.MustCompile(cfg.Pattern)
	}
	return t, nil
}

// WithPhrases returns a copy of the tokenizer that merges known phrases in
// word output. Other units are unaffected.
func (t *Tokenizer) WithPhrases(p *PhraseParser) *Tokenizer {
	c := *t
	c.phrases = p
	return &c
}

// Config returns the tokenizer configuration.
func (t *Tokenizer) Config() Config { return t.cfg }

// Tokenize splits text into tokens in source order. Empty text yields no tokens.
// Case folding runs on the segmented tokens, so sentence boundaries still see
// the original capitalization.
func (t *Tokenizer) Tokenize(text string) []string {
	text = norm.NFC.String(text)

	switch t.cfg.Unit {
	case Words:
		return t.phrases.Parse(t.lower(t.words(text)))
	case Characters:
		return t.lower(t.characters(text))
	case CharacterShingles:
		return shingles(t.lower(t.characters(text)), t.cfg.N)
	case NGrams:
		return ngrams(t.lower(t.words(text)), t.cfg.NMin, t.cfg.N)
	case SkipNGrams:
		return skipNGrams(t.lower(t.words(text)), t.cfg.NMin, t.cfg.N, t.cfg.K)
	case Sentences:
		return t.lower(sentences(text))
	case Lines:
		return t.lower(nonEmpty(strings.Split(text, "\n")))
	case Paragraphs:
		return t.lower(paragraphs(text))
	case Regex:
		return t.lower(nonEmpty(t.re.Split(text, -1)))
	}
	return nil
}

func (t *Tokenizer) lower(toks []string) []string {
	if !t.cfg.Lowercase || len(toks) == 0 {
		return toks
	}
	// a Caser is stateful, so one per call
	c := cases.Lower(language.Und)
	for i, tok := range toks {
		toks[i] = c.String(tok)
	}
	return toks
}

// words segments on UAX #29 word boundaries.
func (t *Tokenizer) words(text string) []string {
	var (
		out   []string
		word  string
		state = -1
	)
	for len(text) > 0 {
		word, text, state = uniseg.FirstWordInString(text, state)
		if strings.TrimSpace(word) == "" {
			continue
		}
		if t.cfg.StripPunct && !hasLetterOrDigit(word) {
			continue
		}
		if t.cfg.StripNumeric && isNumericOnly(word) {
			continue
		}
		out = append(out, word)
	}
	return out
}

// characters splits into codepoints, not bytes or grapheme clusters.
func (t *Tokenizer) characters(text string) []string {
	out := make([]string, 0, len(text))
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		if t.cfg.StripPunct && !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			continue
		}
		if t.cfg.StripNumeric && unicode.IsNumber(r) {
			continue
		}
		out = append(out, string(r))
	}
	return out
}

func shingles(chars []string, n int) []string {
	if len(chars) < n {
		return nil
	}
	out := make([]string, 0, len(chars)-n+1)
	for i := 0; i+n <= len(chars); i++ {
		out = append(out, strings.Join(chars[i:i+n], ""))
	}
	return out
}

// ngrams emits, for every start position, the n-grams of length nMin..n.
func ngrams(words []string, nMin, n int) []string {
	var out []string
	for i := range words {
		for m := nMin; m <= n && i+m <= len(words); m++ {
			out = append(out, strings.Join(words[i:i+m], " "))
		}
	}
	return out
}

// skipNGrams emits, for every start position and length m in nMin..n, the
// sequences whose consecutive words sit g+1 apart for each gap g in 0..k.
func skipNGrams(words []string, nMin, n, k int) []string {
	var out []string
	buf := make([]string, 0, n)
	for i := range words {
		for m := nMin; m <= n; m++ {
			for g := 0; g <= k; g++ {
				if m == 1 && g > 0 {
					break
				}
				last := i + (m-1)*(g+1)
				if last >= len(words) {
					break
				}
				buf = buf[:0]
				for j := i; j <= last; j += g + 1 {
					buf = append(buf, words[j])
				}
				out = append(out, strings.Join(buf, " "))
			}
		}
	}
	return out
}

// sentences segments each paragraph on UAX #29 sentence boundaries. Single
// line breaks inside a paragraph are read as spaces.
func sentences(text string) []string {
	var out []string
	for _, para := range paragraphs(text) {
		var (
			sent  string
			state = -1
		)
		for len(para) > 0 {
			sent, para, state = uniseg.FirstSentenceInString(para, state)
			if s := strings.TrimSpace(sent); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func paragraphs(text string) []string {
	parts := paragraphBreak.Split(text, -1)
	for i, p := range parts {
		parts[i] = strings.Join(strings.Fields(p), " ")
	}
	return nonEmpty(parts)
}

func nonEmpty(parts []string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func hasLetterOrDigit(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return true
		}
	}
	return false
}

// isNumericOnly reports whether the token holds only digits and number punctuation.
func isNumericOnly(s string) bool {
	digits := false
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			digits = true
		case r == '.' || r == ',' || r == '-':
		default:
			return false
		}
	}
	return digits
}
