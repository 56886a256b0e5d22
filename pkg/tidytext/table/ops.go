package table

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cognicore/tidytext/pkg/tidytext/internalerr"
)

// Filter keeps the rows satisfying pred, preserving order.
func (t *Table) Filter(pred func(Row) bool) *Table {
	out := &Table{schema: t.schema}
	for _, vals := range t.rows {
		if pred(Row{schema: t.schema, vals: vals}) {
			out.rows = append(out.rows, vals)
		}
	}
	return out
}

// Select projects the named columns in the given order.
func (t *Table) Select(cols ...string) (*Table, error) {
	idxs, err := t.colIndexes(cols)
	if err != nil {
		return nil, err
	}
	schema := make(Schema, len(idxs))
	for i, idx := range idxs {
		schema[i] = t.schema[idx]
	}
	if err := schema.validate(); err != nil {
		return nil, err
	}
	return t.project(schema, idxs), nil
}

// Drop removes the named columns.
func (t *Table) Drop(cols ...string) (*Table, error) {
	drop := make(map[int]struct{}, len(cols))
	for _, c := range cols {
		idx, err := t.colIndex(c)
		if err != nil {
			return nil, err
		}
		drop[idx] = struct{}{}
	}
	var (
		schema Schema
		idxs   []int
	)
	for i, c := range t.schema {
		if _, ok := drop[i]; ok {
			continue
		}
		schema = append(schema, c)
		idxs = append(idxs, i)
	}
	return t.project(schema, idxs), nil
}

func (t *Table) project(schema Schema, idxs []int) *Table {
	out := &Table{schema: schema, rows: make([][]Value, len(t.rows))}
	for i, r := range t.rows {
		nr := make([]Value, len(idxs))
		for j, idx := range idxs {
			nr[j] = r[idx]
		}
		out.rows[i] = nr
	}
	return out
}

// Rename changes a column name.
func (t *Table) Rename(from, to string) (*Table, error) {
	idx, err := t.colIndex(from)
	if err != nil {
		return nil, err
	}
	schema := copySchema(t.schema)
	schema[idx].Name = to
	if err := schema.validate(); err != nil {
		return nil, err
	}
	return &Table{schema: schema, rows: t.rows}, nil
}

// Mutate adds col computed by fn, or replaces it when a column of that name
// exists. Values returned by fn are checked against col.Kind.
func (t *Table) Mutate(col Column, fn func(Row) Value) (*Table, error) {
	schema := copySchema(t.schema)
	pos := schema.Index(col.Name)
	if pos < 0 {
		schema = append(schema, col)
		pos = len(schema) - 1
	} else {
		schema[pos] = col
	}
	if err := schema.validate(); err != nil {
		return nil, err
	}
	b := &Builder{schema: schema, rows: make([][]Value, 0, len(t.rows))}
	for _, r := range t.rows {
		v, err := coerce(col, fn(Row{schema: t.schema, vals: r}))
		if err != nil {
			return nil, err
		}
		nr := make([]Value, len(schema))
		copy(nr, r)
		nr[pos] = v
		b.appendTrusted(nr)
	}
	return b.Build(), nil
}

// SortKey orders rows by one column.
type SortKey struct {
	Column string
	Desc   bool
}

// Asc and Desc build sort keys.
func Asc(col string) SortKey { return SortKey{Column: col} }
func Desc(col string) SortKey { return SortKey{Column: col, Desc: true} }

// Arrange sorts rows by the keys; the sort is stable.
func (t *Table) Arrange(keys ...SortKey) (*Table, error) {
	idxs := make([]int, len(keys))
	for i, k := range keys {
		idx, err := t.colIndex(k.Column)
		if err != nil {
			return nil, err
		}
		idxs[i] = idx
	}
	rows := append([][]Value(nil), t.rows...)
	sort.SliceStable(rows, func(a, b int) bool {
		for i, k := range keys {
			c := compare(rows[a][idxs[i]], rows[b][idxs[i]])
			if c == 0 {
				continue
			}
			if k.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	return &Table{schema: t.schema, rows: rows}, nil
}

// Distinct keeps the first row of every distinct combination of cols,
// projected onto cols.
func (t *Table) Distinct(cols ...string) (*Table, error) {
	proj, err := t.Select(cols...)
	if err != nil {
		return nil, err
	}
	all := make([]int, len(cols))
	for i := range all {
		all[i] = i
	}
	seen := make(map[string]struct{}, proj.Len())
	out := &Table{schema: proj.schema}
	for _, r := range proj.rows {
		k := keyOf(r, all)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out.rows = append(out.rows, r)
	}
	return out, nil
}

// Bind concatenates the rows of tables sharing this table's schema.
func (t *Table) Bind(others ...*Table) (*Table, error) {
	rows := append([][]Value(nil), t.rows...)
	for _, o := range others {
		if !t.schema.Equal(o.schema) {
			return nil, fmt.Errorf("bind %v onto %v: %w", o.schema.Names(), t.schema.Names(), internalerr.ErrSchemaMismatch)
		}
		rows = append(rows, o.rows...)
	}
	return &Table{schema: t.schema, rows: rows}, nil
}

// Separate splits a String column holding a composite key into several String
// columns that take its place. Every value must yield len(into) parts; the
// last column keeps any remainder.
func (t *Table) Separate(col string, into []string, sep string) (*Table, error) {
	idx, err := t.colKind(col, String)
	if err != nil {
		return nil, err
	}
	if len(into) == 0 || sep == "" {
		return nil, fmt.Errorf("separate %q needs target columns and a separator: %w", col, internalerr.ErrInvalidInput)
	}
	schema := make(Schema, 0, len(t.schema)+len(into)-1)
	schema = append(schema, t.schema[:idx]...)
	for _, name := range into {
		schema = append(schema, Str(name))
	}
	schema = append(schema, t.schema[idx+1:]...)
	if err := schema.validate(); err != nil {
		return nil, err
	}

	out := &Table{schema: schema, rows: make([][]Value, len(t.rows))}
	for i, r := range t.rows {
		parts := strings.SplitN(r[idx].(string), sep, len(into))
		if len(parts) != len(into) {
			return nil, fmt.Errorf("row %d: %q splits into %d parts on %q, want %d: %w",
				i, r[idx], len(parts), sep, len(into), internalerr.ErrInvalidInput)
		}
		nr := make([]Value, 0, len(schema))
		nr = append(nr, r[:idx]...)
		for _, p := range parts {
			nr = append(nr, p)
		}
		nr = append(nr, r[idx+1:]...)
		out.rows[i] = nr
	}
	return out, nil
}

// Unite joins cols into one String column named into, placed where the first
// of cols was.
func (t *Table) Unite(into string, cols []string, sep string) (*Table, error) {
	idxs, err := t.colIndexes(cols)
	if err != nil {
		return nil, err
	}
	if len(idxs) == 0 {
		return nil, fmt.Errorf("unite %q needs source columns: %w", into, internalerr.ErrInvalidInput)
	}
	drop := make(map[int]struct{}, len(idxs))
	for _, idx := range idxs {
		drop[idx] = struct{}{}
	}
	first := idxs[0]

	var schema Schema
	var keep []int
	for i, c := range t.schema {
		if i == first {
			schema = append(schema, Str(into))
			keep = append(keep, -1)
			continue
		}
		if _, ok := drop[i]; ok {
			continue
		}
		schema = append(schema, c)
		keep = append(keep, i)
	}
	if err := schema.validate(); err != nil {
		return nil, err
	}

	out := &Table{schema: schema, rows: make([][]Value, len(t.rows))}
	parts := make([]string, len(idxs))
	for i, r := range t.rows {
		for j, idx := range idxs {
			parts[j] = Format(r[idx])
		}
		nr := make([]Value, len(keep))
		for j, src := range keep {
			if src < 0 {
				nr[j] = strings.Join(parts, sep)
			} else {
				nr[j] = r[src]
			}
		}
		out.rows[i] = nr
	}
	return out, nil
}

// Slice returns rows [i, j) under the same schema. Bounds are clamped.
func (t *Table) Slice(i, j int) *Table {
	if i < 0 {
		i = 0
	}
	if j > len(t.rows) {
		j = len(t.rows)
	}
	if i > j {
		i = j
	}
	return &Table{schema: t.schema, rows: t.rows[i:j:j]}
}
