package table

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cognicore/tidytext/pkg/tidytext/internalerr"
)

func tokens(t *testing.T, pairs ...string) *Table {
	t.Helper()
	b, err := NewBuilder(Schema{Str("document"), Str("word")})
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := b.Append(pairs[i], pairs[i+1]); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	return b.Build()
}

func TestNewValidatesKinds(t *testing.T) {
	_, err := New(Schema{Str("word"), I64("n")}, [][]Value{{"fox", "two"}})
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	_, err = New(Schema{Str("word"), Str("word")}, nil)
	if !errors.Is(err, internalerr.ErrSchemaMismatch) {
		t.Fatalf("duplicate column: expected ErrSchemaMismatch, got %v", err)
	}

	tbl, err := New(Schema{I64("n"), F64("w")}, [][]Value{{3, 2}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := tbl.Row(0).Value("n"); got != int64(3) {
		t.Errorf("int cell should be widened to int64, got %T", got)
	}
	if got := tbl.Row(0).Value("w"); got != float64(2) {
		t.Errorf("int in float column should become float64, got %T", got)
	}
}

func TestGroupCount(t *testing.T) {
	tbl := tokens(t, "d1", "a", "d1", "a", "d1", "b")

	got, err := tbl.GroupCount([]string{"document", "word"})
	if err != nil {
		t.Fatalf("GroupCount: %v", err)
	}
	want := [][]Value{
		{"d1", "a", int64(2)},
		{"d1", "b", int64(1)},
	}
	if diff := cmp.Diff(want, got.Records()); diff != "" {
		t.Errorf("GroupCount mismatch (-want +got):\n%s", diff)
	}
	if names := got.Schema().Names(); strings.Join(names, ",") != "document,word,n" {
		t.Errorf("unexpected columns %v", names)
	}
}

func TestGroupCountFirstOccurrenceOrder(t *testing.T) {
	tbl := tokens(t, "d1", "zebra", "d1", "apple", "d1", "zebra")
	got, err := tbl.GroupCount([]string{"word"})
	if err != nil {
		t.Fatalf("GroupCount: %v", err)
	}
	words, _ := got.Strings("word")
	if diff := cmp.Diff([]string{"zebra", "apple"}, words); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupCountSortedTieBreak(t *testing.T) {
	tbl := tokens(t,
		"d1", "pear",
		"d1", "fig",
		"d1", "apple",
		"d1", "fig",
		"d1", "pear",
		"d1", "kiwi",
	)
	got, err := tbl.GroupCount([]string{"word"}, Sorted())
	if err != nil {
		t.Fatalf("GroupCount: %v", err)
	}
	want := [][]Value{
		{"fig", int64(2)},
		{"pear", int64(2)},
		{"apple", int64(1)},
		{"kiwi", int64(1)},
	}
	if diff := cmp.Diff(want, got.Records()); diff != "" {
		t.Errorf("sorted count mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupCountWeighted(t *testing.T) {
	tbl := MustNew(Schema{Str("word"), I64("value")}, [][]Value{
		{"good", 3}, {"bad", -3}, {"good", 3},
	})
	got, err := tbl.GroupSum([]string{"word"}, "value", "score")
	if err != nil {
		t.Fatalf("GroupSum: %v", err)
	}
	want := [][]Value{{"good", int64(6)}, {"bad", int64(-3)}}
	if diff := cmp.Diff(want, got.Records()); diff != "" {
		t.Errorf("GroupSum mismatch (-want +got):\n%s", diff)
	}

	if _, err := tbl.GroupCount([]string{"word"}, Weight("word")); !errors.Is(err, internalerr.ErrSchemaMismatch) {
		t.Errorf("string weight should fail with ErrSchemaMismatch, got %v", err)
	}
}

func TestGroupCountMissingColumn(t *testing.T) {
	tbl := tokens(t, "d1", "a")
	if _, err := tbl.GroupCount([]string{"term"}); !errors.Is(err, internalerr.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestAntiJoinStopwords(t *testing.T) {
	tbl := tokens(t, "d1", "the", "d1", "fox", "d1", "the", "d1", "dog")
	stops := MustNew(Schema{Str("word")}, [][]Value{{"the"}})

	got, err := tbl.AntiJoin(stops, "word")
	if err != nil {
		t.Fatalf("AntiJoin: %v", err)
	}
	words, _ := got.Strings("word")
	if diff := cmp.Diff([]string{"fox", "dog"}, words); diff != "" {
		t.Errorf("AntiJoin mismatch (-want +got):\n%s", diff)
	}

	kept, err := tbl.SemiJoin(stops, "word")
	if err != nil {
		t.Fatalf("SemiJoin: %v", err)
	}
	if kept.Len() != 2 {
		t.Errorf("SemiJoin should keep both 'the' rows, got %d", kept.Len())
	}
}

func TestAntiJoinSchemaMismatch(t *testing.T) {
	tbl := tokens(t, "d1", "the")
	stops := MustNew(Schema{Str("term")}, [][]Value{{"the"}})
	if _, err := tbl.AntiJoin(stops, "word"); !errors.Is(err, internalerr.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
	numeric := MustNew(Schema{I64("word")}, [][]Value{{1}})
	if _, err := tbl.AntiJoin(numeric, "word"); !errors.Is(err, internalerr.ErrSchemaMismatch) {
		t.Fatalf("kind mismatch: expected ErrSchemaMismatch, got %v", err)
	}
}

func TestInnerJoinCrossProduct(t *testing.T) {
	tbl := tokens(t, "d1", "cold", "d2", "happy", "d2", "cold")
	lex := MustNew(Schema{Str("term"), Str("sentiment")}, [][]Value{
		{"cold", "negative"},
		{"cold", "sadness"},
		{"happy", "positive"},
	})

	got, err := tbl.InnerJoin(lex, On{Left: "word", Right: "term"})
	if err != nil {
		t.Fatalf("InnerJoin: %v", err)
	}
	want := [][]Value{
		{"d1", "cold", "negative"},
		{"d1", "cold", "sadness"},
		{"d2", "happy", "positive"},
		{"d2", "cold", "negative"},
		{"d2", "cold", "sadness"},
	}
	if diff := cmp.Diff(want, got.Records()); diff != "" {
		t.Errorf("InnerJoin mismatch (-want +got):\n%s", diff)
	}
}

func TestInnerJoinSuffixesClashes(t *testing.T) {
	left := MustNew(Schema{Str("word"), I64("n")}, [][]Value{{"a", 1}})
	right := MustNew(Schema{Str("word"), I64("n")}, [][]Value{{"a", 7}})
	got, err := left.InnerJoin(right, Key("word"))
	if err != nil {
		t.Fatalf("InnerJoin: %v", err)
	}
	if names := strings.Join(got.Schema().Names(), ","); names != "word,n,n_y" {
		t.Errorf("columns = %s, want word,n,n_y", names)
	}
}

func TestInnerJoinMissingKey(t *testing.T) {
	tbl := tokens(t, "d1", "a")
	lex := MustNew(Schema{Str("word")}, nil)
	if _, err := tbl.InnerJoin(lex, On{Left: "term", Right: "word"}); !errors.Is(err, internalerr.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
	if _, err := tbl.InnerJoin(lex); !errors.Is(err, internalerr.ErrSchemaMismatch) {
		t.Fatalf("no keys: expected ErrSchemaMismatch, got %v", err)
	}
}

func TestPivotWider(t *testing.T) {
	long := MustNew(Schema{Str("book"), I64("index"), Str("sentiment"), I64("n")}, [][]Value{
		{"emma", 0, "positive", 5},
		{"emma", 0, "negative", 2},
		{"emma", 1, "negative", 4},
	})
	wide, err := long.PivotWider(PivotSpec{
		IDs:    []string{"book", "index"},
		Names:  "sentiment",
		Values: "n",
		Fill:   0,
	})
	if err != nil {
		t.Fatalf("PivotWider: %v", err)
	}
	if names := strings.Join(wide.Schema().Names(), ","); names != "book,index,positive,negative" {
		t.Errorf("columns = %s", names)
	}
	want := [][]Value{
		{"emma", int64(0), int64(5), int64(2)},
		{"emma", int64(1), int64(0), int64(4)},
	}
	if diff := cmp.Diff(want, wide.Records()); diff != "" {
		t.Errorf("PivotWider mismatch (-want +got):\n%s", diff)
	}
}

func TestPivotWiderDuplicateKey(t *testing.T) {
	long := MustNew(Schema{Str("id"), Str("name"), I64("v")}, [][]Value{
		{"x", "a", 1},
		{"x", "a", 2},
	})
	spec := PivotSpec{IDs: []string{"id"}, Names: "name", Values: "v"}
	if _, err := long.PivotWider(spec); !errors.Is(err, internalerr.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}

	spec.Agg = SumAgg
	wide, err := long.PivotWider(spec)
	if err != nil {
		t.Fatalf("PivotWider with SumAgg: %v", err)
	}
	if got := wide.Row(0).Int("a"); got != 3 {
		t.Errorf("aggregated cell = %d, want 3", got)
	}
}

func TestPivotLongerInverts(t *testing.T) {
	wide := MustNew(Schema{Str("id"), I64("a"), I64("b")}, [][]Value{{"x", 1, 2}})
	long, err := wide.PivotLonger([]string{"a", "b"}, "name", "v")
	if err != nil {
		t.Fatalf("PivotLonger: %v", err)
	}
	want := [][]Value{{"x", "a", int64(1)}, {"x", "b", int64(2)}}
	if diff := cmp.Diff(want, long.Records()); diff != "" {
		t.Errorf("PivotLonger mismatch (-want +got):\n%s", diff)
	}
	back, err := long.PivotWider(PivotSpec{IDs: []string{"id"}, Names: "name", Values: "v"})
	if err != nil {
		t.Fatalf("PivotWider: %v", err)
	}
	if !back.Equal(wide) {
		t.Errorf("round trip changed the table:\n%s\nvs\n%s", back, wide)
	}
}

func TestTopNIncludesTies(t *testing.T) {
	tbl := MustNew(Schema{Str("word"), I64("n")}, [][]Value{
		{"a", 5}, {"b", 5}, {"c", 5}, {"d", 3}, {"e", 2},
	})
	got, err := tbl.TopN(2, "n")
	if err != nil {
		t.Fatalf("TopN: %v", err)
	}
	words, _ := got.Strings("word")
	if diff := cmp.Diff([]string{"a", "b", "c"}, words); diff != "" {
		t.Errorf("TopN mismatch (-want +got):\n%s", diff)
	}
}

func TestTopNPerGroup(t *testing.T) {
	tbl := MustNew(Schema{I64("topic"), Str("term"), F64("beta")}, [][]Value{
		{1, "a", 0.1}, {1, "b", 0.6}, {1, "c", 0.3},
		{2, "a", 0.7}, {2, "b", 0.2}, {2, "c", 0.1},
	})
	got, err := tbl.TopN(2, "beta", "topic")
	if err != nil {
		t.Fatalf("TopN: %v", err)
	}
	want := [][]Value{
		{int64(1), "b", 0.6}, {int64(1), "c", 0.3},
		{int64(2), "a", 0.7}, {int64(2), "b", 0.2},
	}
	if diff := cmp.Diff(want, got.Records()); diff != "" {
		t.Errorf("TopN mismatch (-want +got):\n%s", diff)
	}

	if _, err := tbl.TopN(0, "beta"); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("n=0 should fail with ErrInvalidInput, got %v", err)
	}
}

func TestFilterIdempotent(t *testing.T) {
	tbl := tokens(t, "d1", "fox", "d1", "a", "d2", "dog", "d2", "an")
	long := func(r Row) bool { return len(r.Str("word")) > 2 }

	once := tbl.Filter(long)
	twice := once.Filter(long)
	if !once.Equal(twice) {
		t.Errorf("filter is not idempotent:\n%s\nvs\n%s", once, twice)
	}
	if once.Len() != 2 {
		t.Errorf("expected 2 rows, got %d", once.Len())
	}
	if tbl.Len() != 4 {
		t.Errorf("input table must not change, has %d rows", tbl.Len())
	}
}

func TestSeparateAndUnite(t *testing.T) {
	tbl := MustNew(Schema{Str("document"), I64("n")}, [][]Value{
		{"Great Expectations_57", 12},
		{"Pride and Prejudice_3", 4},
	})
	split, err := tbl.Separate("document", []string{"title", "chapter"}, "_")
	if err != nil {
		t.Fatalf("Separate: %v", err)
	}
	want := [][]Value{
		{"Great Expectations", "57", int64(12)},
		{"Pride and Prejudice", "3", int64(4)},
	}
	if diff := cmp.Diff(want, split.Records()); diff != "" {
		t.Errorf("Separate mismatch (-want +got):\n%s", diff)
	}

	joined, err := split.Unite("document", []string{"title", "chapter"}, "_")
	if err != nil {
		t.Fatalf("Unite: %v", err)
	}
	if !joined.Equal(tbl) {
		t.Errorf("Unite did not restore the original:\n%s", joined)
	}

	bad := MustNew(Schema{Str("document")}, [][]Value{{"no separator"}})
	if _, err := bad.Separate("document", []string{"a", "b"}, "_"); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMutateAndArrange(t *testing.T) {
	tbl := MustNew(Schema{Str("word"), I64("n")}, [][]Value{{"b", 1}, {"a", 3}, {"c", 3}})
	doubled, err := tbl.Mutate(I64("n2"), func(r Row) Value { return r.Int("n") * 2 })
	if err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if got := doubled.Row(1).Int("n2"); got != 6 {
		t.Errorf("n2 = %d, want 6", got)
	}

	if _, err := tbl.Mutate(I64("bad"), func(r Row) Value { return "x" }); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("wrong kind from Mutate should fail, got %v", err)
	}

	sorted, err := tbl.Arrange(Desc("n"), Asc("word"))
	if err != nil {
		t.Fatalf("Arrange: %v", err)
	}
	words, _ := sorted.Strings("word")
	if diff := cmp.Diff([]string{"a", "c", "b"}, words); diff != "" {
		t.Errorf("Arrange mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectDropRenameDistinct(t *testing.T) {
	tbl := tokens(t, "d1", "a", "d1", "a", "d2", "b")
	sel, err := tbl.Select("word")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if sel.Len() != 3 || len(sel.Schema()) != 1 {
		t.Errorf("unexpected selection %s", sel)
	}
	if _, err := tbl.Drop("nope"); !errors.Is(err, internalerr.ErrSchemaMismatch) {
		t.Errorf("Drop unknown column: got %v", err)
	}
	ren, err := tbl.Rename("word", "term")
	if err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if !ren.Has("term") || ren.Has("word") {
		t.Errorf("rename failed: %v", ren.Schema().Names())
	}
	if _, err := tbl.Rename("word", "document"); !errors.Is(err, internalerr.ErrSchemaMismatch) {
		t.Errorf("rename onto existing column should fail, got %v", err)
	}
	dist, err := tbl.Distinct("document", "word")
	if err != nil {
		t.Fatalf("Distinct: %v", err)
	}
	if dist.Len() != 2 {
		t.Errorf("expected 2 distinct rows, got %d", dist.Len())
	}
}

func TestBind(t *testing.T) {
	a := tokens(t, "d1", "a")
	b := tokens(t, "d2", "b")
	both, err := a.Bind(b)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if both.Len() != 2 {
		t.Errorf("expected 2 rows, got %d", both.Len())
	}
	other := MustNew(Schema{Str("word")}, nil)
	if _, err := a.Bind(other); !errors.Is(err, internalerr.ErrSchemaMismatch) {
		t.Errorf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestBindTFIDF(t *testing.T) {
	counts := MustNew(Schema{Str("document"), Str("word"), I64("n")}, [][]Value{
		{"d1", "the", 2},
		{"d1", "fox", 2},
		{"d2", "the", 1},
	})
	got, err := counts.BindTFIDF("word", "document", "n")
	if err != nil {
		t.Fatalf("BindTFIDF: %v", err)
	}
	const eps = 1e-12
	// "the" occurs in both documents: idf = ln(2/2) = 0
	if idf := got.Row(0).Float("idf"); math.Abs(idf) > eps {
		t.Errorf("idf(the) = %v, want 0", idf)
	}
	if tf := got.Row(1).Float("tf"); math.Abs(tf-0.5) > eps {
		t.Errorf("tf(fox|d1) = %v, want 0.5", tf)
	}
	if v := got.Row(1).Float("tf_idf"); math.Abs(v-0.5*math.Log(2)) > eps {
		t.Errorf("tf_idf(fox|d1) = %v, want %v", v, 0.5*math.Log(2))
	}
	if _, err := got.BindTFIDF("word", "document", "n"); !errors.Is(err, internalerr.ErrSchemaMismatch) {
		t.Errorf("second BindTFIDF should refuse to overwrite, got %v", err)
	}
}

func TestCompositeKeysKeepSeparatorBytes(t *testing.T) {
	tbl := MustNew(Schema{Str("a"), Str("b")}, [][]Value{
		{"x\x1fy", "z"},
		{"x", "y\x1fz"},
	})
	got, err := tbl.GroupCount([]string{"a", "b"})
	if err != nil {
		t.Fatalf("GroupCount: %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("expected 2 groups, got\n%s", got)
	}

	other := MustNew(Schema{Str("a"), Str("b")}, [][]Value{{"x", "y\x1fz"}})
	anti, err := tbl.AntiJoin(other, "a", "b")
	if err != nil {
		t.Fatalf("AntiJoin: %v", err)
	}
	if anti.Len() != 1 || anti.Row(0).Str("a") != "x\x1fy" {
		t.Errorf("anti join should keep the first row, got\n%s", anti)
	}
	semi, err := tbl.SemiJoin(other, "a", "b")
	if err != nil {
		t.Fatalf("SemiJoin: %v", err)
	}
	if semi.Len() != 1 || semi.Row(0).Str("a") != "x" {
		t.Errorf("semi join should keep the second row, got\n%s", semi)
	}

	if CompositeKey("ab", "c") == CompositeKey("a", "bc") {
		t.Error("CompositeKey collides on shifted boundaries")
	}
}

func TestNegativeZeroGroupsWithZero(t *testing.T) {
	tbl := MustNew(Schema{F64("w"), Str("s")}, [][]Value{
		{0.0, "a"},
		{math.Copysign(0, -1), "a"},
	})
	got, err := tbl.GroupCount([]string{"w", "s"})
	if err != nil {
		t.Fatalf("GroupCount: %v", err)
	}
	if got.Len() != 1 || got.Row(0).Int(CountColumn) != 2 {
		t.Errorf("expected one group of 2, got\n%s", got)
	}
	if Format(math.Copysign(0, -1)) != "0" {
		t.Errorf("Format(-0) = %q, want \"0\"", Format(math.Copysign(0, -1)))
	}
}
