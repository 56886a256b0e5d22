package ingest

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/cognicore/tidytext/pkg/tidytext/internalerr"
	"github.com/cognicore/tidytext/pkg/tidytext/table"
)

// PositionColumn is the default name of the token position column.
const PositionColumn = "position"

type unnestOptions struct {
	position string
	collapse []string
}

// UnnestOption tunes Unnest.
type UnnestOption func(*unnestOptions)

// Position adds a 1-based Int column numbering tokens within each input row.
// An empty name means PositionColumn.
func Position(col string) UnnestOption {
	if col == "" {
		col = PositionColumn
	}
	return func(o *unnestOptions) { o.position = col }
}

// Collapse joins the text of all rows sharing the given key columns, newline
// separated and in row order, before tokenizing. The result keeps only the key
// columns and the token column, so sentences and paragraphs can span lines.
func Collapse(keys ...string) UnnestOption {
	return func(o *unnestOptions) { o.collapse = keys }
}

// Unnest splits the String column input of t into one row per token, stored
// in the String column output. Every other column is carried along unchanged;
// the input column is dropped unless output reuses its name. Rows yielding no
// tokens disappear. Token order follows row order, then source order.
func (t *Tokenizer) Unnest(tbl *table.Table, input, output string, opts ...UnnestOption) (*table.Table, error) {
	var o unnestOptions
	for _, opt := range opts {
		opt(&o)
	}

	src := tbl
	if len(o.collapse) > 0 {
		var err error
		src, err = collapse(tbl, o.collapse, input)
		if err != nil {
			return nil, err
		}
	}

	schema, carry, inIdx, err := unnestSchema(src.Schema(), input, output, o.position)
	if err != nil {
		return nil, err
	}
	b, err := table.NewBuilder(schema)
	if err != nil {
		return nil, err
	}

	var appendErr error
	src.Each(func(_ int, r table.Row) {
		if appendErr != nil {
			return
		}
		vals := r.Values()
		for pos, tok := range t.Tokenize(vals[inIdx].(string)) {
			row := make([]table.Value, 0, len(schema))
			for _, c := range carry {
				row = append(row, vals[c])
			}
			row = append(row, tok)
			if o.position != "" {
				row = append(row, int64(pos+1))
			}
			if err := b.Append(row...); err != nil {
				appendErr = err
				return
			}
		}
	})
	if appendErr != nil {
		return nil, appendErr
	}
	return b.Build(), nil
}

// unnestSchema returns the output schema and the positions of the carried columns.
func unnestSchema(in table.Schema, input, output, position string) (table.Schema, []int, int, error) {
	inIdx := in.Index(input)
	if inIdx < 0 {
		return nil, nil, -1, fmt.Errorf("input column %q not found (have %v): %w", input, in.Names(), internalerr.ErrSchemaMismatch)
	}
	if in[inIdx].Kind != table.String {
		return nil, nil, -1, fmt.Errorf("input column %q is %s, want string: %w", input, in[inIdx].Kind, internalerr.ErrSchemaMismatch)
	}
	if output == "" {
		return nil, nil, -1, fmt.Errorf("empty output column: %w", internalerr.ErrSchemaMismatch)
	}

	var (
		schema table.Schema
		carry  []int
	)
	for i, c := range in {
		if i == inIdx {
			continue
		}
		schema = append(schema, c)
		carry = append(carry, i)
	}
	schema = append(schema, table.Str(output))
	if position != "" {
		schema = append(schema, table.I64(position))
	}
	return schema, carry, inIdx, nil
}

func collapse(tbl *table.Table, keys []string, input string) (*table.Table, error) {
	sel, err := tbl.Select(append(append([]string(nil), keys...), input)...)
	if err != nil {
		return nil, err
	}
	schema := sel.Schema()
	textIdx := len(keys)
	if schema[textIdx].Kind != table.String {
		return nil, fmt.Errorf("input column %q is %s, want string: %w", input, schema[textIdx].Kind, internalerr.ErrSchemaMismatch)
	}

	type acc struct {
		key   []table.Value
		lines []string
	}
	var order []*acc
	byKey := make(map[string]*acc)
	sel.Each(func(_ int, r table.Row) {
		vals := r.Values()
		k := table.CompositeKey(vals[:textIdx]...)
		a, ok := byKey[k]
		if !ok {
			a = &acc{key: vals[:textIdx]}
			byKey[k] = a
			order = append(order, a)
		}
		a.lines = append(a.lines, vals[textIdx].(string))
	})

	b, err := table.NewBuilder(schema)
	if err != nil {
		return nil, err
	}
	for _, a := range order {
		row := append(append([]table.Value(nil), a.key...), strings.Join(a.lines, "\n"))
		if err := b.Append(row...); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

// ParallelUnnest is Unnest spread over workers goroutines. Rows are split into
// contiguous chunks and the chunk results are bound back in input order, so
// the output equals Unnest's. Collapse is not supported here.
func (t *Tokenizer) ParallelUnnest(ctx context.Context, tbl *table.Table, input, output string, workers int, opts ...UnnestOption) (*table.Table, error) {
	var o unnestOptions
	for _, opt := range opts {
		opt(&o)
	}
	if len(o.collapse) > 0 {
		return nil, fmt.Errorf("collapse needs the whole table: %w", internalerr.ErrInvalidInput)
	}
	if workers < 1 {
		workers = 1
	}
	if workers == 1 || tbl.Len() < 2*workers {
		return t.Unnest(tbl, input, output, opts...)
	}

	chunk := (tbl.Len() + workers - 1) / workers
	parts := make([]*table.Table, workers)
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := t.Unnest(tbl.Slice(w*chunk, (w+1)*chunk), input, output, opts...)
			if err != nil {
				return err
			}
			parts[w] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return parts[0].Bind(parts[1:]...)
}
