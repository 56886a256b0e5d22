package table

import (
	"fmt"

	"github.com/cognicore/tidytext/pkg/tidytext/internalerr"
)

// On pairs a key column of the left table with one of the right table.
type On struct {
	Left, Right string
}

// Key joins on a column that has the same name on both sides.
func Key(col string) On { return On{Left: col, Right: col} }

// JoinSuffix is appended to right-hand columns whose names clash with the left.
const JoinSuffix = "_y"

func (t *Table) joinIndexes(other *Table, on []On) (left, right []int, err error) {
	if len(on) == 0 {
		return nil, nil, fmt.Errorf("join needs at least one key: %w", internalerr.ErrSchemaMismatch)
	}
	left = make([]int, len(on))
	right = make([]int, len(on))
	for i, k := range on {
		li := t.schema.Index(k.Left)
		if li < 0 {
			return nil, nil, fmt.Errorf("join key %q missing on left (have %v): %w", k.Left, t.schema.Names(), internalerr.ErrSchemaMismatch)
		}
		ri := other.schema.Index(k.Right)
		if ri < 0 {
			return nil, nil, fmt.Errorf("join key %q missing on right (have %v): %w", k.Right, other.schema.Names(), internalerr.ErrSchemaMismatch)
		}
		if t.schema[li].Kind != other.schema[ri].Kind {
			return nil, nil, fmt.Errorf("join key %q (%s) vs %q (%s): %w",
				k.Left, t.schema[li].Kind, k.Right, other.schema[ri].Kind, internalerr.ErrSchemaMismatch)
		}
		left[i], right[i] = li, ri
	}
	return left, right, nil
}

func keysToOn(cols []string) []On {
	on := make([]On, len(cols))
	for i, c := range cols {
		on[i] = Key(c)
	}
	return on
}

func (t *Table) keySet(idxs []int) map[string]struct{} {
	set := make(map[string]struct{}, len(t.rows))
	for _, r := range t.rows {
		set[keyOf(r, idxs)] = struct{}{}
	}
	return set
}

// AntiJoin keeps the rows whose key on the named columns does not appear in other.
func (t *Table) AntiJoin(other *Table, on ...string) (*Table, error) {
	return t.filterJoin(other, keysToOn(on), false)
}

// SemiJoin keeps the rows whose key on the named columns appears in other.
func (t *Table) SemiJoin(other *Table, on ...string) (*Table, error) {
	return t.filterJoin(other, keysToOn(on), true)
}

func (t *Table) filterJoin(other *Table, on []On, keep bool) (*Table, error) {
	li, ri, err := t.joinIndexes(other, on)
	if err != nil {
		return nil, err
	}
	set := other.keySet(ri)
	out := &Table{schema: t.schema}
	for _, r := range t.rows {
		if _, ok := set[keyOf(r, li)]; ok == keep {
			out.rows = append(out.rows, r)
		}
	}
	return out, nil
}

// InnerJoin keeps row pairs whose keys match. Duplicate keys on either side
// produce the cross product; left order is outer and right order inner. The
// result carries the left columns followed by the right non-key columns.
func (t *Table) InnerJoin(other *Table, on ...On) (*Table, error) {
	li, ri, err := t.joinIndexes(other, on)
	if err != nil {
		return nil, err
	}

	isKey := make(map[int]struct{}, len(ri))
	for _, idx := range ri {
		isKey[idx] = struct{}{}
	}
	schema := copySchema(t.schema)
	var extra []int
	for i, c := range other.schema {
		if _, ok := isKey[i]; ok {
			continue
		}
		if schema.Index(c.Name) >= 0 {
			c.Name += JoinSuffix
		}
		schema = append(schema, c)
		extra = append(extra, i)
	}
	if err := schema.validate(); err != nil {
		return nil, err
	}

	index := make(map[string][]int, len(other.rows))
	for i, r := range other.rows {
		k := keyOf(r, ri)
		index[k] = append(index[k], i)
	}

	out := &Table{schema: schema}
	for _, lr := range t.rows {
		for _, j := range index[keyOf(lr, li)] {
			rr := other.rows[j]
			row := make([]Value, 0, len(schema))
			row = append(row, lr...)
			for _, idx := range extra {
				row = append(row, rr[idx])
			}
			out.rows = append(out.rows, row)
		}
	}
	return out, nil
}
