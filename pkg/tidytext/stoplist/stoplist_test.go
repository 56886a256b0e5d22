package stoplist

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cognicore/tidytext/pkg/tidytext/internalerr"
	"github.com/cognicore/tidytext/pkg/tidytext/table"
)

func TestBuiltin(t *testing.T) {
	st := Builtin()

	if diff := cmp.Diff([]string{"minimal", "snowball"}, st.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}

	snow, err := st.Load("snowball")
	if err != nil {
		t.Fatalf("Load(snowball): %v", err)
	}
	for _, w := range []string{"the", "and", "don't", "no", "off"} {
		if !snow.Contains(w) {
			t.Errorf("snowball should contain %q", w)
		}
	}
	if snow.Contains("cat") {
		t.Error("'cat' should not be a stopword")
	}

	minimal, _ := st.Load("minimal")
	if minimal.Len() >= snow.Len() {
		t.Errorf("minimal (%d) should be shorter than snowball (%d)", minimal.Len(), snow.Len())
	}
}

func TestLoadUnknown(t *testing.T) {
	_, err := Builtin().Load("klingon")
	if !errors.Is(err, internalerr.ErrUnknownLexicon) {
		t.Errorf("expected ErrUnknownLexicon, got %v", err)
	}
}

func TestSetTable(t *testing.T) {
	s := NewSet("tiny", []string{"The", " a ", "", "the"})

	want := table.MustNew(Schema(), [][]table.Value{{"a", "tiny"}, {"the", "tiny"}})
	if got := s.Table(); !want.Equal(got) {
		t.Errorf("table mismatch:\nwant\n%s\ngot\n%s", want, got)
	}
}

func TestEmptySetTable(t *testing.T) {
	got := NewSet("none", nil).Table()
	if got.Len() != 0 || !got.Schema().Equal(Schema()) {
		t.Errorf("expected an empty (word, lexicon) table, got %v with %d rows", got.Schema().Names(), got.Len())
	}
}

func TestSetWithWithout(t *testing.T) {
	s := NewSet("x", []string{"a"})
	more := s.With("B")
	if !more.Contains("b") || s.Contains("b") {
		t.Error("With should return an extended copy")
	}
	less := more.Without("a")
	if less.Contains("a") || !more.Contains("a") {
		t.Error("Without should return a reduced copy")
	}
}

func TestStoreTableAndDuplicates(t *testing.T) {
	st, err := NewStore(NewSet("b", []string{"y"}), NewSet("a", []string{"x"}))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	want := table.MustNew(Schema(), [][]table.Value{{"x", "a"}, {"y", "b"}})
	if got := st.Table(); !want.Equal(got) {
		t.Errorf("store table mismatch:\nwant\n%s\ngot\n%s", want, got)
	}

	if _, err := NewStore(NewSet("a", nil), NewSet("a", nil)); !errors.Is(err, internalerr.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}

	replaced := st.With(NewSet("a", []string{"z"}))
	s, _ := replaced.Load("a")
	if !s.Contains("z") {
		t.Error("With should replace same-named set")
	}
	orig, _ := st.Load("a")
	if orig.Contains("z") {
		t.Error("With must not modify the receiver")
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("name: custom\nterms: [Foo, bar]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := LoadYAML(path)
	if err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	if s.Name() != "custom" || !s.Contains("foo") || s.Len() != 2 {
		t.Errorf("unexpected set %q with %v", s.Name(), s.Terms())
	}

	if _, err := ParseYAML([]byte("terms: [a]")); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("nameless list: expected ErrInvalidInput, got %v", err)
	}
}

func TestSuggest(t *testing.T) {
	terms := table.MustNew(
		table.Schema{table.Str("document"), table.Str("word")},
		[][]table.Value{
			{"d1", "said"}, {"d1", "solar"}, {"d1", "the"},
			{"d2", "said"}, {"d2", "said"}, {"d2", "the"},
			{"d3", "said"}, {"d3", "wind"},
			{"d4", "said"}, {"d4", "the"},
		},
	)
	stats, err := DocumentFrequency(terms, "document", "word")
	if err != nil {
		t.Fatalf("DocumentFrequency: %v", err)
	}
	if stats[0].Token != "said" || stats[0].DF != 4 || stats[0].DFPercent != 100 {
		t.Errorf("unexpected said stats %+v", stats[0])
	}

	set := NewSet("base", []string{"the"})
	got, err := set.Suggest(stats, 4, Thresholds{DFPercent: 75})
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(got) != 1 || got[0].Token != "said" {
		t.Errorf("expected only 'said', got %+v", got)
	}

	if got, _ := set.Suggest(stats, 4, Thresholds{DFPercent: 75, MinDocs: 10}); len(got) != 0 {
		t.Errorf("small corpus should yield nothing, got %+v", got)
	}
	if _, err := set.Suggest(stats, 4, Thresholds{}); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
