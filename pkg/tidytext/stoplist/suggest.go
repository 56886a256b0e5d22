package stoplist

import (
	"fmt"
	"math"
	"sort"

	"github.com/cognicore/tidytext/pkg/tidytext/internalerr"
	"github.com/cognicore/tidytext/pkg/tidytext/table"
)

// Stats holds document frequency figures for one term.
type Stats struct {
	Token     string
	DF        int64
	DFPercent float64
	IDF       float64
}

// Candidate is a corpus term that behaves like a stopword.
type Candidate struct {
	Token string
	Stats Stats
}

// Thresholds defines the criteria for corpus-specific stopwords.
type Thresholds struct {
	DFPercent float64 // e.g. 80: appears in at least 80% of documents
	MinDocs   int     // corpora smaller than this yield no candidates
}

// DefaultThresholds returns the thresholds used by the CLI.
func DefaultThresholds() Thresholds {
	return Thresholds{DFPercent: 80, MinDocs: 5}
}

// DocumentFrequency computes per-term document frequency over a table with
// docCol and termCol, in first-occurrence order of terms.
func DocumentFrequency(t *table.Table, docCol, termCol string) ([]Stats, error) {
	pairs, err := t.Distinct(docCol, termCol)
	if err != nil {
		return nil, err
	}
	docs, err := t.Distinct(docCol)
	if err != nil {
		return nil, err
	}
	counts, err := pairs.GroupCount([]string{termCol})
	if err != nil {
		return nil, err
	}

	nDocs := float64(docs.Len())
	out := make([]Stats, 0, counts.Len())
	counts.Each(func(_ int, r table.Row) {
		df := r.Int(table.CountColumn)
		out = append(out, Stats{
			Token:     r.Str(termCol),
			DF:        df,
			DFPercent: 100 * float64(df) / nDocs,
			IDF:       math.Log(nDocs / float64(df)),
		})
	})
	return out, nil
}

// Suggest proposes terms not yet in s whose document frequency reaches the
// threshold. Candidates come back by descending DF, then token.
func (s Set) Suggest(stats []Stats, nDocs int, th Thresholds) ([]Candidate, error) {
	if th.DFPercent <= 0 || th.DFPercent > 100 {
		return nil, fmt.Errorf("df threshold %.1f%% outside (0, 100]: %w", th.DFPercent, internalerr.ErrInvalidInput)
	}
	if nDocs < th.MinDocs {
		return nil, nil
	}
	var out []Candidate
	for _, st := range stats {
		if s.Contains(st.Token) {
			continue // already a stopword
		}
		if st.DFPercent >= th.DFPercent {
			out = append(out, Candidate{Token: st.Token, Stats: st})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Stats.DF != out[j].Stats.DF {
			return out[i].Stats.DF > out[j].Stats.DF
		}
		return out[i].Token < out[j].Token
	})
	return out, nil
}
