// Package dtm converts between tidy (document, term, value) tables and sparse
// document-term matrices.
package dtm

import (
	"fmt"
	"math"
	"sort"

	"github.com/e-gun/sparse"
	"gonum.org/v1/gonum/mat"

	"github.com/cognicore/tidytext/pkg/tidytext/internalerr"
	"github.com/cognicore/tidytext/pkg/tidytext/table"
)

// Matrix is a documents x terms sparse matrix with its row and column indexes.
// Cells hold counts (Int) or weights (Float); absent cells are zero.
type Matrix struct {
	docs  *Index
	terms *Index
	kind  table.Kind
	nnz   int
	csr   *sparse.CSR // nil when either dimension is zero
}

// cell is one stored entry.
type cell struct {
	row, col int
	val      float64
}

func build(docs, terms *Index, kind table.Kind, cells []cell) *Matrix {
	sort.Slice(cells, func(a, b int) bool {
		if cells[a].row != cells[b].row {
			return cells[a].row < cells[b].row
		}
		return cells[a].col < cells[b].col
	})
	m := &Matrix{docs: docs, terms: terms, kind: kind, nnz: len(cells)}
	if docs.Len() == 0 || terms.Len() == 0 {
		return m
	}
	ia := make([]int, len(cells))
	ja := make([]int, len(cells))
	data := make([]float64, len(cells))
	for i, c := range cells {
		ia[i], ja[i], data[i] = c.row, c.col, c.val
	}
	m.csr = sparse.NewCOO(docs.Len(), terms.Len(), ia, ja, data).ToCSR()
	return m
}

// Cast builds a matrix from a table holding docCol, termCol and a numeric
// valueCol. Documents and terms are indexed in first-occurrence order. Each
// (document, term) pair may appear once; negative values are rejected and zero
// values claim index slots without storing a cell.
func Cast(t *table.Table, docCol, termCol, valueCol string) (*Matrix, error) {
	schema := t.Schema()
	vc, ok := schema.Lookup(valueCol)
	if !ok {
		return nil, fmt.Errorf("value column %q not found (have %v): %w", valueCol, schema.Names(), internalerr.ErrSchemaMismatch)
	}
	if !vc.Kind.Numeric() {
		return nil, fmt.Errorf("value column %q is %s, want numeric: %w", valueCol, vc.Kind, internalerr.ErrSchemaMismatch)
	}
	for _, c := range []string{docCol, termCol} {
		if !t.Has(c) {
			return nil, fmt.Errorf("column %q not found (have %v): %w", c, schema.Names(), internalerr.ErrSchemaMismatch)
		}
	}

	docs, terms := newIndex(), newIndex()
	seen := make(map[[2]int]struct{}, t.Len())
	cells := make([]cell, 0, t.Len())
	var castErr error
	t.Each(func(i int, r table.Row) {
		if castErr != nil {
			return
		}
		d, term := r.Str(docCol), r.Str(termCol)
		v := r.Float(valueCol)
		if v < 0 || math.IsNaN(v) {
			castErr = fmt.Errorf("row %d (%s, %s): value %v: %w", i, d, term, v, internalerr.ErrInvalidInput)
			return
		}
		k := [2]int{docs.add(d), terms.add(term)}
		if _, dup := seen[k]; dup {
			castErr = fmt.Errorf("row %d: (%s, %s) repeated: %w", i, d, term, internalerr.ErrDuplicateKey)
			return
		}
		seen[k] = struct{}{}
		if v != 0 {
			cells = append(cells, cell{row: k[0], col: k[1], val: v})
		}
	})
	if castErr != nil {
		return nil, castErr
	}
	return build(docs, terms, vc.Kind, cells), nil
}

// Tidy emits one (docCol, termCol, valueCol) row per stored cell in row-major
// order. The value column is Int when the matrix holds counts.
func (m *Matrix) Tidy(docCol, termCol, valueCol string) (*table.Table, error) {
	b, err := table.NewBuilder(table.Schema{table.Str(docCol), table.Str(termCol), {Name: valueCol, Kind: m.kind}})
	if err != nil {
		return nil, err
	}
	var appendErr error
	m.each(func(i, j int, v float64) {
		if appendErr != nil {
			return
		}
		var val table.Value = v
		if m.kind == table.Int {
			val = int64(math.Round(v))
		}
		appendErr = b.Append(m.docs.keys[i], m.terms.keys[j], val)
	})
	if appendErr != nil {
		return nil, appendErr
	}
	return b.Build(), nil
}

// each visits stored cells row by row, columns ascending.
func (m *Matrix) each(fn func(i, j int, v float64)) {
	if m.csr == nil {
		return
	}
	m.csr.DoNonZero(fn)
}

// Dims returns (documents, terms).
func (m *Matrix) Dims() (int, int) { return m.docs.Len(), m.terms.Len() }

// NNZ returns the number of stored cells.
func (m *Matrix) NNZ() int { return m.nnz }

// Kind returns Int for count matrices and Float for weighted ones.
func (m *Matrix) Kind() table.Kind { return m.kind }

// Docs returns the row index.
func (m *Matrix) Docs() *Index { return m.docs }

// Terms returns the column index.
func (m *Matrix) Terms() *Index { return m.terms }

// At returns the cell at document i, term j.
func (m *Matrix) At(i, j int) (float64, error) {
	r, c := m.Dims()
	if i < 0 || i >= r || j < 0 || j >= c {
		return 0, fmt.Errorf("cell (%d, %d) outside %dx%d: %w", i, j, r, c, internalerr.ErrIndexOutOfRange)
	}
	return m.csr.At(i, j), nil
}

// Matrix returns the documents x terms view for gonum consumers, or nil when
// the matrix is empty.
func (m *Matrix) Matrix() mat.Matrix {
	if m.csr == nil {
		return nil
	}
	return m.csr
}

// TermDocument returns the terms x documents transpose as CSR, the layout
// expected by topic model routines that take features as rows.
func (m *Matrix) TermDocument() *sparse.CSR {
	if m.csr == nil {
		return nil
	}
	cells := make([]cell, 0, m.nnz)
	m.each(func(i, j int, v float64) {
		cells = append(cells, cell{row: j, col: i, val: v})
	})
	return build(m.terms, m.docs, m.kind, cells).csr
}

// Triplets is a 0-based coordinate listing of stored cells.
type Triplets struct {
	Rows   []int
	Cols   []int
	Values []float64
}

// Len returns the number of cells.
func (tr Triplets) Len() int { return len(tr.Values) }

// OneBased returns a copy with 1-based row and column numbers.
func (tr Triplets) OneBased() Triplets {
	out := Triplets{
		Rows:   make([]int, len(tr.Rows)),
		Cols:   make([]int, len(tr.Cols)),
		Values: append([]float64(nil), tr.Values...),
	}
	for i := range tr.Rows {
		out.Rows[i] = tr.Rows[i] + 1
	}
	for i := range tr.Cols {
		out.Cols[i] = tr.Cols[i] + 1
	}
	return out
}

// Triplets lists stored cells in row-major order.
func (m *Matrix) Triplets() Triplets {
	tr := Triplets{
		Rows:   make([]int, 0, m.nnz),
		Cols:   make([]int, 0, m.nnz),
		Values: make([]float64, 0, m.nnz),
	}
	m.each(func(i, j int, v float64) {
		tr.Rows = append(tr.Rows, i)
		tr.Cols = append(tr.Cols, j)
		tr.Values = append(tr.Values, v)
	})
	return tr
}

// FromTriplets rebuilds a matrix from 0-based coordinates and its indexes.
// Unweighted matrices need whole-number values.
func FromTriplets(tr Triplets, docs, terms *Index, weighted bool) (*Matrix, error) {
	if len(tr.Rows) != len(tr.Values) || len(tr.Cols) != len(tr.Values) {
		return nil, fmt.Errorf("triplets have %d rows, %d cols, %d values: %w",
			len(tr.Rows), len(tr.Cols), len(tr.Values), internalerr.ErrInvalidInput)
	}
	kind := table.Int
	if weighted {
		kind = table.Float
	}
	seen := make(map[[2]int]struct{}, len(tr.Values))
	cells := make([]cell, 0, len(tr.Values))
	for n, v := range tr.Values {
		i, j := tr.Rows[n], tr.Cols[n]
		if i < 0 || i >= docs.Len() || j < 0 || j >= terms.Len() {
			return nil, fmt.Errorf("triplet %d at (%d, %d) outside %dx%d: %w", n, i, j, docs.Len(), terms.Len(), internalerr.ErrIndexOutOfRange)
		}
		if v < 0 || math.IsNaN(v) || (!weighted && v != math.Trunc(v)) {
			return nil, fmt.Errorf("triplet %d value %v: %w", n, v, internalerr.ErrInvalidInput)
		}
		k := [2]int{i, j}
		if _, dup := seen[k]; dup {
			return nil, fmt.Errorf("triplet %d at (%d, %d) repeated: %w", n, i, j, internalerr.ErrDuplicateKey)
		}
		seen[k] = struct{}{}
		if v != 0 {
			cells = append(cells, cell{row: i, col: j, val: v})
		}
	}
	return build(docs, terms, kind, cells), nil
}
