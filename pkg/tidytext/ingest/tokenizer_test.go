package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cognicore/tidytext/pkg/tidytext/internalerr"
)

func mustTokenizer(t *testing.T, cfg Config) *Tokenizer {
	t.Helper()
	tok, err := NewTokenizer(cfg)
	if err != nil {
		t.Fatalf("NewTokenizer(%+v): %v", cfg, err)
	}
	return tok
}

func TestTokenizeWords(t *testing.T) {
	tok := mustTokenizer(t, DefaultConfig(Words))

	got := tok.Tokenize("The quick brown fox, jumps!")
	want := []string{"the", "quick", "brown", "fox", "jumps"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("words mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeWordsKeepsContractions(t *testing.T) {
	tok := mustTokenizer(t, DefaultConfig(Words))

	got := tok.Tokenize("Don't stop")
	want := []string{"don't", "stop"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("contraction mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeNoLowercase(t *testing.T) {
	cfg := DefaultConfig(Words)
	cfg.Lowercase = false
	tok := mustTokenizer(t, cfg)

	got := tok.Tokenize("Hello World")
	want := []string{"Hello", "World"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("case mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeStripNumeric(t *testing.T) {
	cfg := DefaultConfig(Words)
	cfg.StripNumeric = true
	tok := mustTokenizer(t, cfg)

	got := tok.Tokenize("call 911 now")
	want := []string{"call", "now"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("numeric mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeEmpty(t *testing.T) {
	for _, unit := range []Unit{Words, Characters, CharacterShingles, NGrams, SkipNGrams, Sentences, Lines, Paragraphs} {
		tok := mustTokenizer(t, DefaultConfig(unit))
		if got := tok.Tokenize(""); len(got) != 0 {
			t.Errorf("%s: empty text produced %v", unit, got)
		}
	}
}

func TestTokenizeCharactersAndShingles(t *testing.T) {
	chars := mustTokenizer(t, DefaultConfig(Characters))
	if diff := cmp.Diff([]string{"a", "b", "c"}, chars.Tokenize("Ab, c")); diff != "" {
		t.Errorf("characters mismatch (-want +got):\n%s", diff)
	}

	sh := mustTokenizer(t, DefaultConfig(CharacterShingles))
	if diff := cmp.Diff([]string{"abc", "bcd"}, sh.Tokenize("abcd")); diff != "" {
		t.Errorf("shingles mismatch (-want +got):\n%s", diff)
	}
	if got := sh.Tokenize("ab"); len(got) != 0 {
		t.Errorf("text shorter than the shingle produced %v", got)
	}
}

func TestTokenizeNGrams(t *testing.T) {
	tok := mustTokenizer(t, DefaultConfig(NGrams))
	if diff := cmp.Diff([]string{"a b", "b c"}, tok.Tokenize("a b c")); diff != "" {
		t.Errorf("bigrams mismatch (-want +got):\n%s", diff)
	}
	if got := tok.Tokenize("alone"); len(got) != 0 {
		t.Errorf("single word produced bigrams %v", got)
	}

	cfg := DefaultConfig(NGrams)
	cfg.NMin = 1
	tok = mustTokenizer(t, cfg)
	want := []string{"a", "a b", "b", "b c", "c"}
	if diff := cmp.Diff(want, tok.Tokenize("a b c")); diff != "" {
		t.Errorf("n_min=1 mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeSkipNGrams(t *testing.T) {
	cfg := Config{Unit: SkipNGrams, N: 2, NMin: 2, K: 1, Lowercase: true, StripPunct: true}
	tok := mustTokenizer(t, cfg)

	want := []string{"a b", "a c", "b c"}
	if diff := cmp.Diff(want, tok.Tokenize("a b c")); diff != "" {
		t.Errorf("skip-grams mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeLinesParagraphsRegex(t *testing.T) {
	lines := mustTokenizer(t, DefaultConfig(Lines))
	if diff := cmp.Diff([]string{"one", "two"}, lines.Tokenize("One\n\ntwo")); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}

	paras := mustTokenizer(t, DefaultConfig(Paragraphs))
	if diff := cmp.Diff([]string{"a b", "c"}, paras.Tokenize("a\nb\n\nc")); diff != "" {
		t.Errorf("paragraphs mismatch (-want +got):\n%s", diff)
	}

	cfg := DefaultConfig(Regex)
	cfg.Pattern = "[,;]"
	re := mustTokenizer(t, cfg)
	if diff := cmp.Diff([]string{"x", "y", "z"}, re.Tokenize("x, y;z")); diff != "" {
		t.Errorf("regex mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeSentences(t *testing.T) {
	tok := mustTokenizer(t, DefaultConfig(Sentences))

	got := tok.Tokenize("Hello there. How are you?")
	want := []string{"hello there.", "how are you?"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sentences mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizerValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero n", Config{Unit: NGrams, N: 0, NMin: 1}},
		{"n_min above n", Config{Unit: NGrams, N: 2, NMin: 3}},
		{"negative k", Config{Unit: SkipNGrams, N: 2, NMin: 1, K: -1}},
		{"zero shingle", Config{Unit: CharacterShingles}},
		{"empty regex", Config{Unit: Regex}},
		{"bad regex", Config{Unit: Regex, Pattern: "("}},
		{"unknown unit", Config{Unit: Unit(99)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTokenizer(tt.cfg)
			if !errors.Is(err, internalerr.ErrInvalidUnitConfiguration) {
				t.Errorf("expected ErrInvalidUnitConfiguration, got %v", err)
			}
		})
	}
}

func TestParseUnit(t *testing.T) {
	for in, want := range map[string]Unit{
		"words":       Words,
		"word":        Words,
		"ngrams":      NGrams,
		"ngram":       NGrams,
		"Skip_Ngrams": SkipNGrams,
		"regex":       Regex,
	} {
		got, err := ParseUnit(in)
		if err != nil || got != want {
			t.Errorf("ParseUnit(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseUnit("bogus"); !errors.Is(err, internalerr.ErrInvalidUnitConfiguration) {
		t.Errorf("expected ErrInvalidUnitConfiguration, got %v", err)
	}
}

func TestPhraseParser(t *testing.T) {
	parser := NewPhraseParser([]Phrase{
		{Canonical: "new york", Variants: []string{"nyc"}},
		{Canonical: "new york city"},
	})
	tok := mustTokenizer(t, DefaultConfig(Words)).WithPhrases(parser)

	got := tok.Tokenize("I love New York City and NYC")
	want := []string{"i", "love", "new york city", "and", "new york"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("phrases mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadPhrasesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phrases.yaml")
	doc := "phrases:\n  - canonical: Machine Learning\n    variants: [ml]\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	phrases, err := LoadPhrasesYAML(path)
	if err != nil {
		t.Fatalf("LoadPhrasesYAML: %v", err)
	}
	got := NewPhraseParser(phrases).Parse([]string{"ml", "and", "machine", "learning"})
	want := []string{"machine learning", "and", "machine learning"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parse mismatch (-want +got):\n%s", diff)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("phrases:\n  - variants: [x]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPhrasesYAML(bad); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
