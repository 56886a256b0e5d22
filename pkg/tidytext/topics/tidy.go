package topics

import (
	"fmt"
	"math"

	"github.com/cognicore/tidytext/pkg/tidytext/dtm"
	"github.com/cognicore/tidytext/pkg/tidytext/internalerr"
	"github.com/cognicore/tidytext/pkg/tidytext/table"
)

// Column names of tidied model output.
const (
	TopicColumn    = "topic"
	TermColumn     = "term"
	DocumentColumn = "document"
	BetaColumn     = "beta"
	GammaColumn    = "gamma"
	CountColumn    = "count"
)

// Beta returns one (topic, term, beta) row per topic and term, topic-major.
// Topics are numbered from 1.
func Beta(m *Model) (*table.Table, error) {
	k, nTerms := m.TopicTerms.Dims()
	if k != m.K || nTerms != m.Terms.Len() {
		return nil, fmt.Errorf("topic-term matrix is %dx%d, model has %d topics and %d terms: %w",
			k, nTerms, m.K, m.Terms.Len(), internalerr.ErrDimensionMismatch)
	}
	b, err := table.NewBuilder(table.Schema{table.I64(TopicColumn), table.Str(TermColumn), table.F64(BetaColumn)})
	if err != nil {
		return nil, err
	}
	terms := m.Terms.Keys()
	for t := 0; t < k; t++ {
		for w, term := range terms {
			if err := b.Append(int64(t+1), term, m.TopicTerms.At(t, w)); err != nil {
				return nil, err
			}
		}
	}
	return b.Build(), nil
}

// Gamma returns one (document, topic, gamma) row per document and topic,
// document-major.
func Gamma(m *Model) (*table.Table, error) {
	nDocs, k := m.DocTopics.Dims()
	if k != m.K || nDocs != m.Docs.Len() {
		return nil, fmt.Errorf("doc-topic matrix is %dx%d, model has %d documents and %d topics: %w",
			nDocs, k, m.Docs.Len(), m.K, internalerr.ErrDimensionMismatch)
	}
	b, err := table.NewBuilder(table.Schema{table.Str(DocumentColumn), table.I64(TopicColumn), table.F64(GammaColumn)})
	if err != nil {
		return nil, err
	}
	for d, doc := range m.Docs.Keys() {
		for t := 0; t < k; t++ {
			if err := b.Append(doc, int64(t+1), m.DocTopics.At(d, t)); err != nil {
				return nil, err
			}
		}
	}
	return b.Build(), nil
}

// Augment returns one (document, term, count, topic) row per stored cell of
// source, in row-major order. source must be indexed like the model and the
// model must carry assignments.
func Augment(m *Model, source *dtm.Matrix) (*table.Table, error) {
	if m.Assignments == nil {
		return nil, fmt.Errorf("model %s has no topic assignments: %w", m.ID, internalerr.ErrInvalidInput)
	}
	if !source.Docs().Equal(m.Docs) || !source.Terms().Equal(m.Terms) {
		sr, sc := source.Dims()
		return nil, fmt.Errorf("source is %dx%d, model %dx%d or indexed differently: %w",
			sr, sc, m.Docs.Len(), m.Terms.Len(), internalerr.ErrDimensionMismatch)
	}

	b, err := table.NewBuilder(table.Schema{
		table.Str(DocumentColumn),
		table.Str(TermColumn),
		{Name: CountColumn, Kind: source.Kind()},
		table.I64(TopicColumn),
	})
	if err != nil {
		return nil, err
	}
	docs, terms := m.Docs.Keys(), m.Terms.Keys()
	tr := source.Triplets()
	for n, v := range tr.Values {
		i, j := tr.Rows[n], tr.Cols[n]
		topic, err := m.Assignments.At(i, j)
		if err != nil {
			return nil, err
		}
		var count table.Value = v
		if source.Kind() == table.Int {
			count = int64(math.Round(v))
		}
		if err := b.Append(docs[i], terms[j], count, int64(topic)); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

// TopTerms keeps the n highest-beta terms of every topic, ties included.
func TopTerms(beta *table.Table, n int) (*table.Table, error) {
	return beta.TopN(n, BetaColumn, TopicColumn)
}

// CheckDistribution verifies that weightCol sums to 1 within tol for every
// group of groupCol, e.g. beta per topic or gamma per document.
func CheckDistribution(t *table.Table, groupCol, weightCol string, tol float64) error {
	sums, err := t.GroupSum([]string{groupCol}, weightCol, weightCol)
	if err != nil {
		return err
	}
	var bad error
	sums.Each(func(_ int, r table.Row) {
		if bad != nil {
			return
		}
		if s := r.Float(weightCol); math.Abs(s-1) > tol {
			bad = fmt.Errorf("%s %s: %s sums to %g: %w", groupCol, r.Str(groupCol), weightCol, s, internalerr.ErrInvalidInput)
		}
	})
	return bad
}
