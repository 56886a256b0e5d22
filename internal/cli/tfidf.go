package cli

import (
	"github.com/spf13/cobra"

	"github.com/cognicore/tidytext/internal/logger"
	"github.com/cognicore/tidytext/pkg/tidytext/ingest"
	"github.com/cognicore/tidytext/pkg/tidytext/table"
)

var tfidfTop int

var tfidfCmd = &cobra.Command{
	Use:   "tfidf FILE...",
	Short: "Rank words by tf-idf per document",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTFIDF,
}

func init() {
	tfidfCmd.Flags().IntVarP(&tfidfTop, "top", "t", 10, "words per document (0 keeps all)")
	rootCmd.AddCommand(tfidfCmd)
}

func runTFIDF(cmd *cobra.Command, args []string) error {
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
	logger.Section("TF-IDF")
	counts, err := s.comp.Pipeline.Counts(ctx, docs)
	if err != nil {
		return err
	}
	scored, err := counts.BindTFIDF(ingest.WordColumn, ingest.DocumentColumn, table.CountColumn)
	if err != nil {
		return err
	}
	scored, err = scored.Arrange(table.Asc(ingest.DocumentColumn), table.Desc("tf_idf"), table.Asc(ingest.WordColumn))
	if err != nil {
		return err
	}
	if tfidfTop > 0 {
		scored, err = scored.TopN(tfidfTop, "tf_idf", ingest.DocumentColumn)
		if err != nil {
			return err
		}
	}
	return render(cmd, scored)
}
