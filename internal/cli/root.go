// Package cli implements the tidytext command line.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognicore/tidytext/internal/logger"
	"github.com/cognicore/tidytext/internal/source"
	"github.com/cognicore/tidytext/pkg/tidytext/config"
	"github.com/cognicore/tidytext/pkg/tidytext/ingest"
	"github.com/cognicore/tidytext/pkg/tidytext/store"
	"github.com/cognicore/tidytext/pkg/tidytext/store/sqlite"
	"github.com/cognicore/tidytext/pkg/tidytext/table"
)

var (
	configPath   string
	storePath    string
	verbose      bool
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "tidytext",
	Short: "Tidy text mining from the command line",
	Long: `tidytext turns documents into one-token-per-row tables and runs the
usual text mining recipes on them: word counts, tf-idf, sentiment through
the narrative, word pairs and LDA topic models.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		switch outputFormat {
		case formatTable, formatTSV, formatJSON:
			return nil
		}
		return fmt.Errorf("unknown format %q (want table, tsv or json)", outputFormat)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "sqlite file for stored lexicons and models (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print diagnostics to stderr")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", formatTable, "output format: table, tsv or json")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// session bundles what a command needs; Close releases the store.
type session struct {
	cfg   *config.Config
	comp  *config.Components
	store store.Store
}

func (s *session) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}

// openSession reads the config, applies command flag overrides, opens the
// store if one is configured and builds the components.
func openSession(ctx context.Context, overrides ...func(*config.Config)) (*session, error) {
	logger.Section("Config")
	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		logger.Debug("config from %s", configPath)
	}
	if storePath != "" {
		cfg.Store.Path = storePath
	}
	for _, o := range overrides {
		o(cfg)
	}

	s := &session{cfg: cfg}
	if cfg.Store.Path != "" {
		st, err := sqlite.OpenSQLite(ctx, cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		s.store = st
		logger.Debug("store at %s", cfg.Store.Path)
	}

	comp, err := (&config.Loader{Config: cfg, Store: s.store}).Load(ctx)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.comp = comp
	logger.Debug("tokenizer unit %s, %d workers", comp.Tokenizer.Config().Unit, cfg.Workers)
	return s, nil
}

// readDocuments loads files into a (document, line, text) table.
func readDocuments(paths []string) (*table.Table, error) {
	logger.Section("Documents")
	defer logger.Timed("read documents")()
	docs, err := source.Load(paths...)
	if err != nil {
		return nil, err
	}
	t, err := ingest.Documents(docs)
	if err != nil {
		return nil, err
	}
	logger.Info("%d documents, %d lines", len(docs), t.Len())
	return t, nil
}
