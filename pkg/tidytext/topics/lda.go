package topics

import (
	"context"
	"fmt"

	"github.com/e-gun/nlp"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/cognicore/tidytext/pkg/tidytext/dtm"
	"github.com/cognicore/tidytext/pkg/tidytext/internalerr"
)

// LDA fits latent Dirichlet allocation through the nlp package's
// variational implementation. Zero fields keep the library defaults.
type LDA struct {
	Iterations           int
	TransformationPasses int
	Processes            int
}

// Fit trains the model. Beta and gamma rows are renormalized to sum to 1; each
// nonzero cell is assigned the topic maximizing gamma[d][t] * beta[t][w].
// Fitting itself cannot be interrupted; ctx is checked before and after.
func (l LDA) Fit(ctx context.Context, m *dtm.Matrix, k int, seed uint64) (*Model, error) {
	if k < 1 {
		return nil, fmt.Errorf("k=%d, must be >= 1: %w", k, internalerr.ErrInvalidInput)
	}
	nDocs, nTerms := m.Dims()
	if m.NNZ() == 0 {
		return nil, fmt.Errorf("cannot fit topics on an empty %dx%d matrix: %w", nDocs, nTerms, internalerr.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lda := nlp.NewLatentDirichletAllocation(k)
	if l.Iterations > 0 {
		lda.Iterations = l.Iterations
	}
	if l.TransformationPasses > 0 {
		lda.TransformationPasses = l.TransformationPasses
	}
	if l.Processes > 0 {
		lda.Processes = l.Processes
	}
	lda.Rnd = rand.New(rand.NewSource(seed))

	// topics x docs
	docsOverTopics, err := lda.FitTransform(m.TermDocument())
	if err != nil {
		return nil, fmt.Errorf("lda fit: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	beta := rowNormalized(lda.Components())
	gamma := rowNormalized(docsOverTopics.T())

	assignments, err := assign(m, beta, gamma)
	if err != nil {
		return nil, err
	}
	return NewModel(m.Docs(), m.Terms(), beta, gamma, assignments)
}

// rowNormalized copies src into a dense matrix whose rows sum to 1. All-zero
// rows become uniform.
func rowNormalized(src mat.Matrix) *mat.Dense {
	r, c := src.Dims()
	out := mat.DenseCopyOf(src)
	for i := 0; i < r; i++ {
		row := out.RawRowView(i)
		var sum float64
		for _, v := range row {
			sum += v
		}
		for j := range row {
			if sum > 0 {
				row[j] /= sum
			} else {
				row[j] = 1 / float64(c)
			}
		}
	}
	return out
}

func assign(m *dtm.Matrix, beta, gamma *mat.Dense) (*dtm.Matrix, error) {
	k, _ := beta.Dims()
	tr := m.Triplets()
	topics := dtm.Triplets{
		Rows:   tr.Rows,
		Cols:   tr.Cols,
		Values: make([]float64, len(tr.Values)),
	}
	for n := range tr.Values {
		d, w := tr.Rows[n], tr.Cols[n]
		best, bestP := 0, -1.0
		for t := 0; t < k; t++ {
			if p := gamma.At(d, t) * beta.At(t, w); p > bestP {
				best, bestP = t, p
			}
		}
		topics.Values[n] = float64(best + 1)
	}
	return dtm.FromTriplets(topics, m.Docs(), m.Terms(), false)
}

// FitAll fits one model per k concurrently, results in ks order.
func FitAll(ctx context.Context, f Fitter, m *dtm.Matrix, ks []int, seed uint64) ([]*Model, error) {
	models := make([]*Model, len(ks))
	g, ctx := errgroup.WithContext(ctx)
	for i, k := range ks {
		i, k := i, k
		g.Go(func() error {
			model, err := f.Fit(ctx, m, k, seed)
			if err != nil {
				return fmt.Errorf("k=%d: %w", k, err)
			}
			models[i] = model
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return models, nil
}
