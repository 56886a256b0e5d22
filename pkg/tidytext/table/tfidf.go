package table

import (
	"fmt"
	"math"

	"github.com/cognicore/tidytext/pkg/tidytext/internalerr"
)

// BindTFIDF appends tf, idf and tf_idf columns to a (document, term, n) table.
//
//	tf     = n / total n of the document
//	idf    = ln(documents / documents containing the term)
//	tf_idf = tf * idf
//
// Each (document, term) pair is expected once, as produced by GroupCount.
func (t *Table) BindTFIDF(termCol, docCol, nCol string) (*Table, error) {
	tIdx, err := t.colIndex(termCol)
	if err != nil {
		return nil, err
	}
	dIdx, err := t.colIndex(docCol)
	if err != nil {
		return nil, err
	}
	nIdx, err := t.colNumeric(nCol)
	if err != nil {
		return nil, err
	}
	for _, c := range []string{"tf", "idf", "tf_idf"} {
		if t.Has(c) {
			return nil, fmt.Errorf("column %q already present: %w", c, internalerr.ErrSchemaMismatch)
		}
	}

	docTotal := make(map[string]float64)
	docsWithTerm := make(map[string]map[string]struct{})
	for _, r := range t.rows {
		d := Format(r[dIdx])
		term := Format(r[tIdx])
		docTotal[d] += toFloat(r[nIdx])
		if docsWithTerm[term] == nil {
			docsWithTerm[term] = make(map[string]struct{})
		}
		docsWithTerm[term][d] = struct{}{}
	}
	nDocs := float64(len(docTotal))

	schema := append(copySchema(t.schema), F64("tf"), F64("idf"), F64("tf_idf"))
	out := &Table{schema: schema, rows: make([][]Value, len(t.rows))}
	for i, r := range t.rows {
		total := docTotal[Format(r[dIdx])]
		var tf float64
		if total > 0 {
			tf = toFloat(r[nIdx]) / total
		}
		idf := math.Log(nDocs / float64(len(docsWithTerm[Format(r[tIdx])])))
		row := make([]Value, 0, len(schema))
		row = append(row, r...)
		row = append(row, tf, idf, tf*idf)
		out.rows[i] = row
	}
	return out, nil
}
