// Package pairwise counts and scores item co-occurrence within features of a
// tidy table, e.g. words appearing in the same document or section.
package pairwise

import (
	"fmt"

	"github.com/cognicore/tidytext/pkg/tidytext/internalerr"
	"github.com/cognicore/tidytext/pkg/tidytext/table"
)

// Output column names.
const (
	Item1Column       = "item1"
	Item2Column       = "item2"
	CorrelationColumn = "correlation"
	PMIColumn         = "pmi"
	NPMIColumn        = "npmi"
)

type options struct {
	upper   bool
	epsilon float64
	minN    int64
}

// Option tunes the pairwise functions.
type Option func(*options)

// Upper emits each pair once with item1 < item2 instead of both orientations.
func Upper() Option { return func(o *options) { o.upper = true } }

// Epsilon sets the PMI smoothing constant.
func Epsilon(e float64) Option { return func(o *options) { o.epsilon = e } }

// MinCount drops pairs sharing fewer than n features.
func MinCount(n int64) Option { return func(o *options) { o.minN = n } }

// Count builds a Counter with one feature per distinct value of feature and
// the distinct item values seen with it.
func Count(t *table.Table, item, feature string) (*Counter, error) {
	if c, ok := t.Schema().Lookup(item); !ok || c.Kind != table.String {
		return nil, fmt.Errorf("item column %q must be a string column: %w", item, internalerr.ErrSchemaMismatch)
	}
	pairs, err := t.Distinct(feature, item)
	if err != nil {
		return nil, err
	}
	byFeature := make(map[string][]string)
	var order []string
	pairs.Each(func(_ int, r table.Row) {
		f := r.Str(feature)
		if _, ok := byFeature[f]; !ok {
			order = append(order, f)
		}
		byFeature[f] = append(byFeature[f], r.Str(item))
	})
	c := NewCounter()
	for _, f := range order {
		c.AddFeature(byFeature[f])
	}
	return c, nil
}

// scored emits (item1, item2, cols...) rows in pair order. Pairs come from
// Counter.Pairs, or Counter.AllPairs when all is set.
func scored(t *table.Table, item, feature string, all bool, cols []table.Column, score func(c *Counter, p Pair) []table.Value, opts []Option) (*table.Table, error) {
	o := options{epsilon: 1}
	for _, opt := range opts {
		opt(&o)
	}
	c, err := Count(t, item, feature)
	if err != nil {
		return nil, err
	}
	schema := append(table.Schema{table.Str(Item1Column), table.Str(Item2Column)}, cols...)
	b, err := table.NewBuilder(schema)
	if err != nil {
		return nil, err
	}
	pairs := c.Pairs()
	if all {
		pairs = c.AllPairs()
	}
	for _, p := range pairs {
		if c.Nxy[p] < o.minN {
			continue
		}
		vals := score(c, p)
		if err := b.Append(append([]table.Value{p.A, p.B}, vals...)...); err != nil {
			return nil, err
		}
		if !o.upper {
			if err := b.Append(append([]table.Value{p.B, p.A}, vals...)...); err != nil {
				return nil, err
			}
		}
	}
	return b.Build(), nil
}

// Counts returns (item1, item2, n): the number of features holding both
// items, sorted by n descending then item names.
func Counts(t *table.Table, item, feature string, opts ...Option) (*table.Table, error) {
	out, err := scored(t, item, feature, false, []table.Column{table.I64(table.CountColumn)}, func(c *Counter, p Pair) []table.Value {
		return []table.Value{c.Nxy[p]}
	}, opts)
	if err != nil {
		return nil, err
	}
	return out.Arrange(table.Desc(table.CountColumn), table.Asc(Item1Column), table.Asc(Item2Column))
}

// PMI returns (item1, item2, pmi, npmi) using the smoothed PMI of co-occurring
// pairs.
func PMI(t *table.Table, item, feature string, opts ...Option) (*table.Table, error) {
	o := options{epsilon: 1}
	for _, opt := range opts {
		opt(&o)
	}
	calc := NewCalculator(o.epsilon)
	cols := []table.Column{table.F64(PMIColumn), table.F64(NPMIColumn)}
	return scored(t, item, feature, false, cols, func(c *Counter, p Pair) []table.Value {
		nab, na, nb := c.Nxy[p], c.Nx[p.A], c.Nx[p.B]
		return []table.Value{calc.PMI(nab, na, nb, c.N), calc.NPMI(nab, na, nb, c.N)}
	}, opts)
}

// Correlation returns (item1, item2, correlation), the phi coefficient of item
// presence across features. Every pair of items is scored, so items that never
// share a feature show up with their negative correlation; MinCount(1)
// restricts the output to co-occurring pairs.
func Correlation(t *table.Table, item, feature string, opts ...Option) (*table.Table, error) {
	out, err := scored(t, item, feature, true, []table.Column{table.F64(CorrelationColumn)}, func(c *Counter, p Pair) []table.Value {
		return []table.Value{Phi(c.Nxy[p], c.Nx[p.A], c.Nx[p.B], c.N)}
	}, opts)
	if err != nil {
		return nil, err
	}
	return out.Arrange(table.Desc(CorrelationColumn), table.Asc(Item1Column), table.Asc(Item2Column))
}
