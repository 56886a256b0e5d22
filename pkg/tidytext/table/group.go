package table

import (
	"fmt"
	"sort"

	"github.com/cognicore/tidytext/pkg/tidytext/internalerr"
)

// CountColumn is the default name of the count column.
const CountColumn = "n"

type countOptions struct {
	name   string
	weight string
	sorted bool
}

// CountOption tunes GroupCount.
type CountOption func(*countOptions)

// Sorted orders groups by descending count; equal counts fall back to the key
// columns ascending.
func Sorted() CountOption {
	return func(o *countOptions) { o.sorted = true }
}

// Weight sums the given numeric column instead of counting rows.
func Weight(col string) CountOption {
	return func(o *countOptions) { o.weight = col }
}

// Name overrides the output column name (default "n").
func Name(col string) CountOption {
	return func(o *countOptions) { o.name = col }
}

type group struct {
	first []Value
	rows  []int
}

// groupRows buckets row positions by key, in first-occurrence order.
func (t *Table) groupRows(idxs []int) []*group {
	byKey := make(map[string]*group)
	var order []*group
	for i, r := range t.rows {
		k := keyOf(r, idxs)
		g, ok := byKey[k]
		if !ok {
			g = &group{first: r}
			byKey[k] = g
			order = append(order, g)
		}
		g.rows = append(g.rows, i)
	}
	return order
}

// GroupCount emits one row per distinct combination of keys followed by a
// count column. Groups appear in first-occurrence order unless Sorted is
// given.
func (t *Table) GroupCount(keys []string, opts ...CountOption) (*Table, error) {
	o := countOptions{name: CountColumn}
	for _, opt := range opts {
		opt(&o)
	}
	idxs, err := t.colIndexes(keys)
	if err != nil {
		return nil, err
	}

	nKind := Int
	wIdx := -1
	if o.weight != "" {
		wIdx, err = t.colNumeric(o.weight)
		if err != nil {
			return nil, err
		}
		nKind = t.schema[wIdx].Kind
	}

	schema := make(Schema, 0, len(keys)+1)
	for _, idx := range idxs {
		schema = append(schema, t.schema[idx])
	}
	schema = append(schema, Column{Name: o.name, Kind: nKind})
	if err := schema.validate(); err != nil {
		return nil, err
	}

	groups := t.groupRows(idxs)
	out := &Table{schema: schema, rows: make([][]Value, 0, len(groups))}
	for _, g := range groups {
		row := make([]Value, 0, len(schema))
		for _, idx := range idxs {
			row = append(row, g.first[idx])
		}
		row = append(row, t.total(g.rows, wIdx, nKind))
		out.rows = append(out.rows, row)
	}

	if o.sorted {
		nPos := len(idxs)
		sort.SliceStable(out.rows, func(a, b int) bool {
			ra, rb := out.rows[a], out.rows[b]
			if c := compare(ra[nPos], rb[nPos]); c != 0 {
				return c > 0
			}
			for i := 0; i < nPos; i++ {
				if c := compare(ra[i], rb[i]); c != 0 {
					return c < 0
				}
			}
			return false
		})
	}
	return out, nil
}

func (t *Table) total(rows []int, wIdx int, kind Kind) Value {
	if wIdx < 0 {
		return int64(len(rows))
	}
	if kind == Int {
		var s int64
		for _, i := range rows {
			s += t.rows[i][wIdx].(int64)
		}
		return s
	}
	var s float64
	for _, i := range rows {
		s += t.rows[i][wIdx].(float64)
	}
	return s
}

// GroupSum sums a numeric column per group of keys into out, keeping the
// column's kind. Groups appear in first-occurrence order.
func (t *Table) GroupSum(keys []string, valueCol, out string) (*Table, error) {
	return t.GroupCount(keys, Weight(valueCol), Name(out))
}

// TopN keeps, per group, the n rows with the largest orderCol. Rows tying with
// the n-th value are all kept, so a group may return more than n rows. Groups
// keep first-occurrence order; rows within a group are ordered by descending
// orderCol, stable for ties.
func (t *Table) TopN(n int, orderCol string, groups ...string) (*Table, error) {
	if n < 1 {
		return nil, fmt.Errorf("top %d: n must be positive: %w", n, internalerr.ErrInvalidInput)
	}
	oIdx, err := t.colIndex(orderCol)
	if err != nil {
		return nil, err
	}
	gIdxs, err := t.colIndexes(groups)
	if err != nil {
		return nil, err
	}

	out := &Table{schema: t.schema}
	for _, g := range t.groupRows(gIdxs) {
		rows := make([][]Value, len(g.rows))
		for i, ri := range g.rows {
			rows[i] = t.rows[ri]
		}
		sort.SliceStable(rows, func(a, b int) bool {
			return compare(rows[a][oIdx], rows[b][oIdx]) > 0
		})
		if len(rows) <= n {
			out.rows = append(out.rows, rows...)
			continue
		}
		cutoff := rows[n-1][oIdx]
		for _, r := range rows {
			if compare(r[oIdx], cutoff) < 0 {
				break
			}
			out.rows = append(out.rows, r)
		}
	}
	return out, nil
}
