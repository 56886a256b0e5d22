package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognicore/tidytext/internal/logger"
	"github.com/cognicore/tidytext/pkg/tidytext/config"
	"github.com/cognicore/tidytext/pkg/tidytext/dtm"
	"github.com/cognicore/tidytext/pkg/tidytext/ingest"
	"github.com/cognicore/tidytext/pkg/tidytext/store"
	"github.com/cognicore/tidytext/pkg/tidytext/table"
	"github.com/cognicore/tidytext/pkg/tidytext/topics"
)

var errNoStore = errors.New("no store configured: pass --store or set store.path")

var (
	topicsK     string
	topicsSeed  uint64
	topicsTop   int
	topicsGamma bool
	topicsSave  bool
	showPart    string
)

var topicsCmd = &cobra.Command{
	Use:   "topics FILE...",
	Short: "Fit an LDA topic model and print the top terms per topic",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTopics,
}

var topicsShowCmd = &cobra.Command{
	Use:   "show MODEL_ID",
	Short: "Print a saved model's beta or gamma table",
	Args:  cobra.ExactArgs(1),
	RunE:  runTopicsShow,
}

func init() {
	topicsCmd.Flags().StringVar(&topicsK, "k", "", "number of topics, or a comma separated list to fit several (overrides config)")
	topicsCmd.Flags().Uint64Var(&topicsSeed, "seed", 0, "random seed (overrides config)")
	topicsCmd.Flags().IntVarP(&topicsTop, "top", "t", 5, "terms per topic")
	topicsCmd.Flags().BoolVar(&topicsGamma, "gamma", false, "print document-topic proportions instead")
	topicsCmd.Flags().BoolVar(&topicsSave, "save", false, "save beta and gamma into the store")
	topicsShowCmd.Flags().StringVar(&showPart, "part", "beta", "table to print: beta or gamma")
	topicsCmd.AddCommand(topicsShowCmd)
	rootCmd.AddCommand(topicsCmd)
}

// parseKs reads --k as one or more topic counts.
func parseKs(v string) ([]int, error) {
	if v == "" {
		return nil, nil
	}
	var ks []int
	for _, part := range strings.Split(v, ",") {
		k, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || k < 1 {
			return nil, fmt.Errorf("--k %q: want positive integers", v)
		}
		ks = append(ks, k)
	}
	return ks, nil
}

func runTopics(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	ks, err := parseKs(topicsK)
	if err != nil {
		return err
	}
	s, err := openSession(ctx, func(cfg *config.Config) {
		if len(ks) > 0 {
			cfg.Topics.K = ks[0]
		}
		if topicsSeed > 0 {
			cfg.Topics.Seed = topicsSeed
		}
	})
	if err != nil {
		return err
	}
	defer s.Close()
	if topicsSave && s.store == nil {
		return errNoStore
	}

	docs, err := readDocuments(args)
	if err != nil {
		return err
	}
	counts, err := s.comp.Pipeline.Counts(ctx, docs)
	if err != nil {
		return err
	}
	m, err := dtm.Cast(counts, ingest.DocumentColumn, ingest.WordColumn, table.CountColumn)
	if err != nil {
		return err
	}
	if len(ks) == 0 {
		ks = []int{s.cfg.Topics.K}
	}
	nDocs, nTerms := m.Dims()
	logger.Section("Topics")
	logger.Info("fitting k=%v on %d documents x %d terms (%d nonzero)", ks, nDocs, nTerms, m.NNZ())

	stop := logger.Timed("lda fit")
	models, err := topics.FitAll(ctx, s.comp.Fitter, m, ks, s.cfg.Topics.Seed)
	stop()
	if err != nil {
		return err
	}

	var outs []*table.Table
	for _, model := range models {
		out, err := tidyModel(ctx, s, model)
		if err != nil {
			return err
		}
		if len(models) > 1 {
			if out, err = withK(out, model.K); err != nil {
				return err
			}
		}
		outs = append(outs, out)
	}
	out, err := outs[0].Bind(outs[1:]...)
	if err != nil {
		return err
	}
	if err := render(cmd, out); err != nil {
		return err
	}
	if topicsSave && outputFormat == formatTable {
		for _, model := range models {
			fmt.Fprintf(cmd.OutOrStdout(), "model %s\n", model.ID)
		}
	}
	return nil
}

// tidyModel saves the model when asked and returns the table to print.
func tidyModel(ctx context.Context, s *session, model *topics.Model) (*table.Table, error) {
	beta, err := topics.Beta(model)
	if err != nil {
		return nil, err
	}
	gamma, err := topics.Gamma(model)
	if err != nil {
		return nil, err
	}
	if topicsSave {
		for part, t := range map[string]*table.Table{"beta": beta, "gamma": gamma} {
			if err := s.store.SaveTable(ctx, store.ModelTableName(model.ID, part), t); err != nil {
				return nil, fmt.Errorf("save %s: %w", part, err)
			}
		}
		logger.Info("saved model %s (k=%d)", model.ID, model.K)
	}
	if topicsGamma {
		return gamma, nil
	}
	return topics.TopTerms(beta, topicsTop)
}

// withK prefixes a k column so several fits can share one table.
func withK(t *table.Table, k int) (*table.Table, error) {
	out, err := t.Mutate(table.I64("k"), func(table.Row) table.Value { return int64(k) })
	if err != nil {
		return nil, err
	}
	names := out.Schema().Names()
	return out.Select(append([]string{"k"}, names[:len(names)-1]...)...)
}

func runTopicsShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	if s.store == nil {
		return errNoStore
	}
	if showPart != "beta" && showPart != "gamma" {
		return fmt.Errorf("unknown part %q (want beta or gamma)", showPart)
	}
	t, err := s.store.LoadTable(ctx, store.ModelTableName(args[0], showPart))
	if err != nil {
		return err
	}
	return render(cmd, t)
}
