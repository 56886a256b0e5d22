package cli

import (
	"github.com/spf13/cobra"

	"github.com/cognicore/tidytext/pkg/tidytext/config"
	"github.com/cognicore/tidytext/pkg/tidytext/ingest"
)

var (
	tokenizeUnit     string
	tokenizeN        int
	tokenizePosition bool
	tokenizeCollapse bool
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize FILE...",
	Short: "Split documents into one token per row",
	Long: `Reads text, HTML or JSONL files and prints (document, line, token) rows.
The unit defaults to the config file's and can be words, characters,
character_shingles, ngrams, skip_ngrams, sentences, lines, paragraphs or regex.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTokenize,
}

func init() {
	tokenizeCmd.Flags().StringVarP(&tokenizeUnit, "unit", "u", "", "token unit (overrides config)")
	tokenizeCmd.Flags().IntVar(&tokenizeN, "n", 0, "n-gram or shingle length (overrides config)")
	tokenizeCmd.Flags().BoolVar(&tokenizePosition, "position", false, "add a token position column")
	tokenizeCmd.Flags().BoolVar(&tokenizeCollapse, "collapse", false, "join each document's lines before tokenizing")
	rootCmd.AddCommand(tokenizeCmd)
}

func runTokenize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx, func(cfg *config.Config) {
		if tokenizeUnit != "" {
			cfg.Tokenize.Unit = tokenizeUnit
		}
		if tokenizeN > 0 {
			cfg.Tokenize.N = tokenizeN
		}
	})
	if err != nil {
		return err
	}
	defer s.Close()

	docs, err := readDocuments(args)
	if err != nil {
		return err
	}

	var opts []ingest.UnnestOption
	if tokenizePosition {
		opts = append(opts, ingest.Position(""))
	}
	tok := s.comp.Tokenizer
	if tokenizeCollapse {
		opts = append(opts, ingest.Collapse(ingest.DocumentColumn))
		tokens, err := tok.Unnest(docs, ingest.TextColumn, tokenColumn(tok.Config().Unit), opts...)
		if err != nil {
			return err
		}
		return render(cmd, tokens)
	}
	tokens, err := tok.ParallelUnnest(ctx, docs, ingest.TextColumn, tokenColumn(tok.Config().Unit), s.cfg.Workers, opts...)
	if err != nil {
		return err
	}
	return render(cmd, tokens)
}

// tokenColumn names the output column: "word" for words, "token" otherwise.
func tokenColumn(u ingest.Unit) string {
	if u == ingest.Words {
		return ingest.WordColumn
	}
	return "token"
}
