package table

import (
	"fmt"

	"github.com/cognicore/tidytext/pkg/tidytext/internalerr"
)

// Aggregator folds the values that land on one pivot cell. It must return a
// value of the value column's kind.
type Aggregator func(vals []Value) Value

// SumAgg adds numeric cells, keeping their kind.
func SumAgg(vals []Value) Value {
	if len(vals) == 0 {
		return nil
	}
	if _, ok := vals[0].(int64); ok {
		var s int64
		for _, v := range vals {
			s += v.(int64)
		}
		return s
	}
	var s float64
	for _, v := range vals {
		s += toFloat(v)
	}
	return s
}

// PivotSpec describes a long-to-wide reshape.
type PivotSpec struct {
	IDs    []string // columns identifying an output row
	Names  string   // column whose values become new column names
	Values string   // column whose values fill the new columns
	Fill   Value    // value for missing combinations; zero of the value kind when nil
	Agg    Aggregator
}

// PivotWider reshapes long rows into one row per distinct ID combination and
// one column per distinct name, both in first-occurrence order. Without Agg,
// two rows landing on the same cell fail with ErrDuplicateKey.
func (t *Table) PivotWider(spec PivotSpec) (*Table, error) {
	idIdxs, err := t.colIndexes(spec.IDs)
	if err != nil {
		return nil, err
	}
	nIdx, err := t.colIndex(spec.Names)
	if err != nil {
		return nil, err
	}
	vIdx, err := t.colIndex(spec.Values)
	if err != nil {
		return nil, err
	}
	vCol := t.schema[vIdx]

	fill := spec.Fill
	if fill == nil {
		fill = zeroOf(vCol.Kind)
	}
	fill, err = coerce(Column{Name: spec.Values, Kind: vCol.Kind}, fill)
	if err != nil {
		return nil, err
	}

	// new column names, first occurrence order
	nameAt := make(map[string]int)
	var names []string
	for _, r := range t.rows {
		n := Format(r[nIdx])
		if _, ok := nameAt[n]; !ok {
			nameAt[n] = len(names)
			names = append(names, n)
		}
	}

	schema := make(Schema, 0, len(idIdxs)+len(names))
	for _, idx := range idIdxs {
		schema = append(schema, t.schema[idx])
	}
	for _, n := range names {
		schema = append(schema, Column{Name: n, Kind: vCol.Kind})
	}
	if err := schema.validate(); err != nil {
		return nil, err
	}

	type cell struct{ vals []Value }
	groups := t.groupRows(idIdxs)
	out := &Table{schema: schema, rows: make([][]Value, 0, len(groups))}
	for _, g := range groups {
		cells := make([]*cell, len(names))
		for _, ri := range g.rows {
			r := t.rows[ri]
			pos := nameAt[Format(r[nIdx])]
			if cells[pos] == nil {
				cells[pos] = &cell{}
			} else if spec.Agg == nil {
				return nil, fmt.Errorf("pivot cell (%s, %s=%s) has several values: %w",
					describeKey(r, idIdxs), spec.Names, names[pos], internalerr.ErrDuplicateKey)
			}
			cells[pos].vals = append(cells[pos].vals, r[vIdx])
		}

		row := make([]Value, 0, len(schema))
		for _, idx := range idIdxs {
			row = append(row, g.first[idx])
		}
		for i, c := range cells {
			switch {
			case c == nil:
				row = append(row, fill)
			case spec.Agg == nil:
				row = append(row, c.vals[0])
			default:
				v, err := coerce(schema[len(idIdxs)+i], spec.Agg(c.vals))
				if err != nil {
					return nil, err
				}
				row = append(row, v)
			}
		}
		out.rows = append(out.rows, row)
	}
	return out, nil
}

// PivotLonger turns cols into (nameCol, valueCol) pairs, one output row per
// input row and column. All cols must share a kind.
func (t *Table) PivotLonger(cols []string, nameCol, valueCol string) (*Table, error) {
	idxs, err := t.colIndexes(cols)
	if err != nil {
		return nil, err
	}
	if len(idxs) == 0 {
		return nil, fmt.Errorf("pivot longer needs columns: %w", internalerr.ErrInvalidInput)
	}
	kind := t.schema[idxs[0]].Kind
	pivoted := make(map[int]struct{}, len(idxs))
	for _, idx := range idxs {
		if t.schema[idx].Kind != kind {
			return nil, fmt.Errorf("column %q is %s, want %s: %w", t.schema[idx].Name, t.schema[idx].Kind, kind, internalerr.ErrSchemaMismatch)
		}
		pivoted[idx] = struct{}{}
	}

	var schema Schema
	var keep []int
	for i, c := range t.schema {
		if _, ok := pivoted[i]; ok {
			continue
		}
		schema = append(schema, c)
		keep = append(keep, i)
	}
	schema = append(schema, Str(nameCol), Column{Name: valueCol, Kind: kind})
	if err := schema.validate(); err != nil {
		return nil, err
	}

	out := &Table{schema: schema, rows: make([][]Value, 0, len(t.rows)*len(idxs))}
	for _, r := range t.rows {
		for _, idx := range idxs {
			row := make([]Value, 0, len(schema))
			for _, k := range keep {
				row = append(row, r[k])
			}
			row = append(row, t.schema[idx].Name, r[idx])
			out.rows = append(out.rows, row)
		}
	}
	return out, nil
}

func zeroOf(k Kind) Value {
	switch k {
	case Int:
		return int64(0)
	case Float:
		return float64(0)
	}
	return ""
}
