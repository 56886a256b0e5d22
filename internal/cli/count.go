package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/cognicore/tidytext/internal/logger"
	"github.com/cognicore/tidytext/pkg/tidytext/ingest"
	"github.com/cognicore/tidytext/pkg/tidytext/stoplist"
	"github.com/cognicore/tidytext/pkg/tidytext/table"
)

var (
	countTop        int
	countByDocument bool
	countUnsorted   bool
	countSuggest    bool
	countSuggestDF  float64
)

var countCmd = &cobra.Command{
	Use:   "count FILE...",
	Short: "Count words after stopword removal",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCount,
}

func init() {
	countCmd.Flags().IntVarP(&countTop, "top", "t", 0, "keep only the N most frequent words (per document with --by-document)")
	countCmd.Flags().BoolVarP(&countByDocument, "by-document", "d", false, "count per document")
	countCmd.Flags().BoolVar(&countUnsorted, "unsorted", false, "keep first-occurrence order instead of sorting by n")
	countCmd.Flags().BoolVar(&countSuggest, "suggest-stopwords", false, "list corpus words that behave like stopwords instead of counts")
	countCmd.Flags().Float64Var(&countSuggestDF, "suggest-df", stoplist.DefaultThresholds().DFPercent, "document frequency percentage for --suggest-stopwords")
	rootCmd.AddCommand(countCmd)
}

func runCount(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	docs, err := readDocuments(args)
	if err != nil {
		return err
	}
	logger.Section("Count")
	terms, err := s.comp.Pipeline.Terms(ctx, docs)
	if err != nil {
		return err
	}
	if countSuggest {
		return suggestStopwords(cmd, s, docs, terms)
	}

	keys := []string{ingest.WordColumn}
	if countByDocument {
		keys = []string{ingest.DocumentColumn, ingest.WordColumn}
	}
	var opts []table.CountOption
	if !countUnsorted {
		opts = append(opts, table.Sorted())
	}
	counts, err := terms.GroupCount(keys, opts...)
	if err != nil {
		return err
	}
	if countTop > 0 {
		var groups []string
		if countByDocument {
			groups = []string{ingest.DocumentColumn}
		}
		counts, err = counts.TopN(countTop, table.CountColumn, groups...)
		if err != nil {
			return err
		}
	}
	if err := render(cmd, counts); err != nil {
		return err
	}
	if outputFormat == formatTable {
		distinct, _ := terms.Distinct(ingest.WordColumn)
		fmt.Fprintf(cmd.OutOrStdout(), "%s tokens, %s distinct words\n", humanize.Comma(int64(terms.Len())), humanize.Comma(int64(distinct.Len())))
	}
	return nil
}

// suggestStopwords renders (word, df, df_percent) for words frequent enough
// across documents to act as stopwords.
func suggestStopwords(cmd *cobra.Command, s *session, docs, terms *table.Table) error {
	active := stoplist.NewSet("active", nil)
	if s.comp.Stopwords != nil {
		words, err := s.comp.Stopwords.Strings(stoplist.WordColumn)
		if err != nil {
			return err
		}
		active = stoplist.NewSet("active", words)
	}
	nDocs, err := docs.Distinct(ingest.DocumentColumn)
	if err != nil {
		return err
	}
	stats, err := stoplist.DocumentFrequency(terms, ingest.DocumentColumn, ingest.WordColumn)
	if err != nil {
		return err
	}
	th := stoplist.DefaultThresholds()
	th.DFPercent = countSuggestDF
	if nDocs.Len() < th.MinDocs {
		logger.Warn("%d documents, need %d to suggest stopwords", nDocs.Len(), th.MinDocs)
	}
	candidates, err := active.Suggest(stats, nDocs.Len(), th)
	if err != nil {
		return err
	}

	b, err := table.NewBuilder(table.Schema{table.Str(ingest.WordColumn), table.I64("df"), table.F64("df_percent")})
	if err != nil {
		return err
	}
	for _, c := range candidates {
		if err := b.Append(c.Token, c.Stats.DF, c.Stats.DFPercent); err != nil {
			return err
		}
	}
	return render(cmd, b.Build())
}
