package cli

import (
	"github.com/spf13/cobra"

	"github.com/cognicore/tidytext/internal/logger"
	"github.com/cognicore/tidytext/pkg/tidytext/config"
	"github.com/cognicore/tidytext/pkg/tidytext/ingest"
	"github.com/cognicore/tidytext/pkg/tidytext/sentiment"
	"github.com/cognicore/tidytext/pkg/tidytext/table"
)

var (
	sentimentLexicon       string
	sentimentWidth         int
	sentimentContributions bool
)

var sentimentCmd = &cobra.Command{
	Use:   "sentiment FILE...",
	Short: "Score sentiment through each document",
	Long: `Matches words against a sentiment lexicon. Label lexicons (bing, nrc)
produce a positive/negative index per chunk of --width lines; scored
lexicons (afinn) produce one summed score per document.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSentiment,
}

func init() {
	sentimentCmd.Flags().StringVarP(&sentimentLexicon, "lexicon", "l", "", "lexicon name (overrides config)")
	sentimentCmd.Flags().IntVarP(&sentimentWidth, "width", "w", 0, "lines per index chunk (overrides config)")
	sentimentCmd.Flags().BoolVar(&sentimentContributions, "contributions", false, "show word contributions instead")
	rootCmd.AddCommand(sentimentCmd)
}

func runSentiment(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx, func(cfg *config.Config) {
		cfg.Tokenize = config.Tokenize{Unit: ingest.Words.String()}
		if sentimentLexicon != "" {
			cfg.Sentiment.Lexicon = sentimentLexicon
		}
		if sentimentWidth > 0 {
			cfg.Sentiment.Width = sentimentWidth
		}
	})
	if err != nil {
		return err
	}
	defer s.Close()

	lex, err := s.comp.Lexicons.Lexicon(s.cfg.Sentiment.Lexicon)
	if err != nil {
		return err
	}
	docs, err := readDocuments(args)
	if err != nil {
		return err
	}

	logger.Section("Sentiment")
	tokens, err := s.comp.Tokenizer.ParallelUnnest(ctx, docs, ingest.TextColumn, ingest.WordColumn, s.cfg.Workers)
	if err != nil {
		return err
	}
	logger.Debug("%d tokens against %s (%d entries)", tokens.Len(), lex.Name(), lex.Len())

	var out *table.Table
	switch {
	case sentimentContributions:
		out, err = sentiment.Contributions(tokens, lex, ingest.WordColumn)
	case lex.Scored():
		out, err = sentiment.Score(tokens, lex, ingest.DocumentColumn, ingest.WordColumn)
	default:
		out, err = sentiment.Index(tokens, lex, sentiment.IndexSpec{Width: s.cfg.Sentiment.Width})
	}
	if err != nil {
		return err
	}
	return render(cmd, out)
}
