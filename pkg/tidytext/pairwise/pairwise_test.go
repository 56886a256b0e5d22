package pairwise

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/cognicore/tidytext/pkg/tidytext/internalerr"
	"github.com/cognicore/tidytext/pkg/tidytext/table"
)

var schema = table.Schema{table.Str("document"), table.Str("word")}

func words() *table.Table {
	return table.MustNew(schema, [][]table.Value{
		{"d1", "a"}, {"d1", "b"}, {"d1", "c"}, {"d1", "a"},
		{"d2", "a"}, {"d2", "b"},
		{"d3", "a"},
	})
}

func TestCounter(t *testing.T) {
	c, err := Count(words(), "word", "document")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if c.N != 3 {
		t.Errorf("expected 3 features, got %d", c.N)
	}
	if got := c.ItemCount("a"); got != 3 {
		t.Errorf("a should be in 3 features, got %d", got)
	}
	if got := c.PairCount("b", "a"); got != 2 {
		t.Errorf("PairCount(b, a) = %d, want 2", got)
	}
	if got := c.PairCount("a", "zzz"); got != 0 {
		t.Errorf("unknown pair should count 0, got %d", got)
	}
}

func TestCountsUpper(t *testing.T) {
	got, err := Counts(words(), "word", "document", Upper())
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	want := table.MustNew(
		table.Schema{table.Str(Item1Column), table.Str(Item2Column), table.I64(table.CountColumn)},
		[][]table.Value{{"a", "b", 2}, {"a", "c", 1}, {"b", "c", 1}},
	)
	if !want.Equal(got) {
		t.Errorf("counts mismatch:\nwant\n%s\ngot\n%s", want, got)
	}
}

func TestCountsBothOrientations(t *testing.T) {
	got, err := Counts(words(), "word", "document", MinCount(2))
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	want := table.MustNew(
		table.Schema{table.Str(Item1Column), table.Str(Item2Column), table.I64(table.CountColumn)},
		[][]table.Value{{"a", "b", 2}, {"b", "a", 2}},
	)
	if !want.Equal(got) {
		t.Errorf("counts mismatch:\nwant\n%s\ngot\n%s", want, got)
	}
}

func separated() *table.Table {
	return table.MustNew(schema, [][]table.Value{
		{"d1", "a"}, {"d1", "b"},
		{"d2", "a"}, {"d2", "b"},
		{"d3", "c"},
		{"d4", "c"},
	})
}

func TestCorrelation(t *testing.T) {
	got, err := Correlation(separated(), "word", "document", Upper())
	if err != nil {
		t.Fatalf("Correlation: %v", err)
	}
	want := []struct {
		a, b string
		r    float64
	}{
		{"a", "b", 1},
		{"a", "c", -1},
		{"b", "c", -1},
	}
	if got.Len() != len(want) {
		t.Fatalf("expected %d pairs, got\n%s", len(want), got)
	}
	for i, w := range want {
		r := got.Row(i)
		if r.Str(Item1Column) != w.a || r.Str(Item2Column) != w.b || math.Abs(r.Float(CorrelationColumn)-w.r) > 1e-12 {
			t.Errorf("row %d: expected (%s, %s, %g), got %v", i, w.a, w.b, w.r, r.Values())
		}
	}

	shared, err := Correlation(separated(), "word", "document", Upper(), MinCount(1))
	if err != nil {
		t.Fatalf("Correlation: %v", err)
	}
	if shared.Len() != 1 || shared.Row(0).Str(Item2Column) != "b" {
		t.Errorf("MinCount(1) should keep only (a, b), got\n%s", shared)
	}
}

func TestPMI(t *testing.T) {
	got, err := PMI(separated(), "word", "document", Upper())
	if err != nil {
		t.Fatalf("PMI: %v", err)
	}
	if names := got.Schema().Names(); strings.Join(names, ",") != "item1,item2,pmi,npmi" {
		t.Fatalf("schema = %v", names)
	}
	if got.Len() != 1 {
		t.Fatalf("expected one co-occurring pair, got\n%s", got)
	}
	want := math.Log(4.0 / 3.0)
	if v := got.Row(0).Float(PMIColumn); math.Abs(v-want) > 1e-12 {
		t.Errorf("pmi = %f, want %f", v, want)
	}
	// p(a,b) = 3/4 smoothed, so npmi = ln(4/3) / -ln(3/4) = 1
	if v := got.Row(0).Float(NPMIColumn); math.Abs(v-1) > 1e-12 {
		t.Errorf("npmi = %f, want 1", v)
	}
}

func TestAllPairs(t *testing.T) {
	c, err := Count(separated(), "word", "document")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	got := c.AllPairs()
	want := []Pair{{"a", "b"}, {"a", "c"}, {"b", "c"}}
	if len(got) != len(want) {
		t.Fatalf("AllPairs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("AllPairs[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCalculator(t *testing.T) {
	calc := NewCalculator(1.0)
	if pmi := calc.PMI(8, 10, 10, 20); pmi <= 0 {
		t.Errorf("PMI for strong association should be positive, got %f", pmi)
	}
	if pmi := calc.PMI(5, 50, 50, 100); pmi >= 0 {
		t.Errorf("PMI for anti-correlated items should be negative, got %f", pmi)
	}
	if npmi := calc.NPMI(8, 10, 10, 20); npmi < -1 || npmi > 1 {
		t.Errorf("NPMI out of range: %f", npmi)
	}
	if calc.PMI(1, 1, 1, 0) != 0 || calc.NPMI(0, 1, 1, 10) != 0 {
		t.Error("degenerate counts should score 0")
	}
	if Phi(3, 3, 3, 3) != 0 {
		t.Error("phi with an always-present item should be 0")
	}
}

func TestCountRejectsNumericItems(t *testing.T) {
	tbl := table.MustNew(table.Schema{table.Str("document"), table.I64("word")}, nil)
	if _, err := Count(tbl, "word", "document"); !errors.Is(err, internalerr.ErrSchemaMismatch) {
		t.Errorf("expected ErrSchemaMismatch, got %v", err)
	}
}
