package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cognicore/tidytext/internal/logger"
	"github.com/cognicore/tidytext/pkg/tidytext/ingest"
	"github.com/cognicore/tidytext/pkg/tidytext/pairwise"
	"github.com/cognicore/tidytext/pkg/tidytext/table"
)

const sectionColumn = "section"

var (
	pairsMethod  string
	pairsSection int
	pairsMin     int64
	pairsTop     int
)

var pairsCmd = &cobra.Command{
	Use:   "pairs FILE...",
	Short: "Find words that occur in the same sections",
	Long: `Splits each document into sections of --section lines and scores word
pairs sharing a section: raw counts, smoothed PMI or the phi correlation.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPairs,
}

func init() {
	pairsCmd.Flags().StringVarP(&pairsMethod, "method", "m", "count", "count, pmi or correlation")
	pairsCmd.Flags().IntVar(&pairsSection, "section", 10, "lines per section")
	pairsCmd.Flags().Int64Var(&pairsMin, "min", 2, "minimum number of shared sections")
	pairsCmd.Flags().IntVarP(&pairsTop, "top", "t", 20, "pairs to print (0 prints all)")
	rootCmd.AddCommand(pairsCmd)
}

func runPairs(cmd *cobra.Command, args []string) error {
	if pairsSection < 1 {
		return fmt.Errorf("--section must be positive, got %d", pairsSection)
	}
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
	terms, err := s.comp.Pipeline.Terms(ctx, docs)
	if err != nil {
		return err
	}
	sections, err := terms.Mutate(table.Str(sectionColumn), func(r table.Row) table.Value {
		return r.Str(ingest.DocumentColumn) + "/" + strconv.FormatInt((r.Int(ingest.LineColumn)-1)/int64(pairsSection), 10)
	})
	if err != nil {
		return err
	}
	logger.Section("Pairs")
	logger.Debug("%d tokens in sections of %d lines", sections.Len(), pairsSection)

	opts := []pairwise.Option{pairwise.Upper(), pairwise.MinCount(pairsMin)}
	var out *table.Table
	switch pairsMethod {
	case "count":
		out, err = pairwise.Counts(sections, ingest.WordColumn, sectionColumn, opts...)
	case "pmi":
		out, err = pairwise.PMI(sections, ingest.WordColumn, sectionColumn, opts...)
		if err == nil {
			out, err = out.Arrange(table.Desc(pairwise.PMIColumn), table.Asc(pairwise.Item1Column), table.Asc(pairwise.Item2Column))
		}
	case "correlation":
		out, err = pairwise.Correlation(sections, ingest.WordColumn, sectionColumn, opts...)
	default:
		return fmt.Errorf("unknown method %q (want count, pmi or correlation)", pairsMethod)
	}
	if err != nil {
		return err
	}
	if pairsTop > 0 {
		out = out.Slice(0, pairsTop)
	}
	return render(cmd, out)
}
