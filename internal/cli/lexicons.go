package cli

import (
	"github.com/spf13/cobra"

	"github.com/cognicore/tidytext/internal/logger"
	"github.com/cognicore/tidytext/pkg/tidytext/store"
	"github.com/cognicore/tidytext/pkg/tidytext/table"
)

var lexiconsWarm bool

var lexiconsCmd = &cobra.Command{
	Use:   "lexicons",
	Short: "List stopword lists and sentiment lexicons",
	Args:  cobra.NoArgs,
	RunE:  runLexicons,
}

func init() {
	lexiconsCmd.Flags().BoolVar(&lexiconsWarm, "warm", false, "copy every list and lexicon into the store")
	rootCmd.AddCommand(lexiconsCmd)
}

var lexiconSchema = table.Schema{table.Str("kind"), table.Str("name"), table.I64("entries")}

func runLexicons(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if lexiconsWarm {
		if s.store == nil {
			return errNoStore
		}
		if err := store.Warm(ctx, s.store, s.comp.Stoplists, s.comp.Lexicons); err != nil {
			return err
		}
		logger.Info("warmed store with %d stopword lists and %d lexicons",
			len(s.comp.Stoplists.Names()), len(s.comp.Lexicons.Names()))
	}

	b, err := table.NewBuilder(lexiconSchema)
	if err != nil {
		return err
	}
	for _, name := range s.comp.Stoplists.Names() {
		set, _ := s.comp.Stoplists.Load(name)
		if err := b.Append("stopwords", name, set.Len()); err != nil {
			return err
		}
	}
	for _, name := range s.comp.Lexicons.Names() {
		lex, _ := s.comp.Lexicons.Lexicon(name)
		kind := "labels"
		if lex.Scored() {
			kind = "scores"
		}
		if err := b.Append(kind, name, lex.Len()); err != nil {
			return err
		}
	}
	return render(cmd, b.Build())
}
