// Package topics fits topic models on document-term matrices and reshapes
// their output into tidy per-topic-per-term and per-document-per-topic tables.
package topics

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"

	"github.com/oklog/ulid/v2"
	"gonum.org/v1/gonum/mat"

	"github.com/cognicore/tidytext/pkg/tidytext/dtm"
	"github.com/cognicore/tidytext/pkg/tidytext/internalerr"
)

// Fitter trains a k-topic model on a documents x terms matrix. Implementations
// must be deterministic for a given seed.
type Fitter interface {
	Fit(ctx context.Context, m *dtm.Matrix, k int, seed uint64) (*Model, error)
}

// Model is a fitted topic model.
type Model struct {
	ID    string
	K     int
	Docs  *dtm.Index
	Terms *dtm.Index

	TopicTerms mat.Matrix // k x terms, per-topic term probabilities (beta)
	DocTopics  mat.Matrix // docs x k, per-document topic proportions (gamma)

	// Assignments holds, per nonzero source cell, the 1-based topic the
	// term was assigned to in that document. Optional.
	Assignments *dtm.Matrix
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

func newID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Now(), entropy).String()
}

// NewModel checks that the matrices agree with the indexes and stamps a new ID.
func NewModel(docs, terms *dtm.Index, topicTerms, docTopics mat.Matrix, assignments *dtm.Matrix) (*Model, error) {
	if docs == nil || terms == nil || topicTerms == nil || docTopics == nil {
		return nil, fmt.Errorf("model needs indexes and both matrices: %w", internalerr.ErrInvalidInput)
	}
	k, nTerms := topicTerms.Dims()
	if nTerms != terms.Len() {
		return nil, fmt.Errorf("topic-term matrix has %d columns, %d terms indexed: %w", nTerms, terms.Len(), internalerr.ErrDimensionMismatch)
	}
	nDocs, k2 := docTopics.Dims()
	if nDocs != docs.Len() {
		return nil, fmt.Errorf("doc-topic matrix has %d rows, %d documents indexed: %w", nDocs, docs.Len(), internalerr.ErrDimensionMismatch)
	}
	if k2 != k {
		return nil, fmt.Errorf("doc-topic matrix has %d topics, topic-term matrix %d: %w", k2, k, internalerr.ErrDimensionMismatch)
	}
	if assignments != nil {
		if !assignments.Docs().Equal(docs) || !assignments.Terms().Equal(terms) {
			return nil, fmt.Errorf("assignment indexes differ from model indexes: %w", internalerr.ErrDimensionMismatch)
		}
		for _, v := range assignments.Triplets().Values {
			if v < 1 || int(v) > k {
				return nil, fmt.Errorf("assigned topic %v outside [1, %d]: %w", v, k, internalerr.ErrDimensionMismatch)
			}
		}
	}
	return &Model{
		ID:          newID(),
		K:           k,
		Docs:        docs,
		Terms:       terms,
		TopicTerms:  topicTerms,
		DocTopics:   docTopics,
		Assignments: assignments,
	}, nil
}
