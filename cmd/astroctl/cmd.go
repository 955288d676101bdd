package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/astrorag/internal/app"
	"github.com/kailas-cloud/astrorag/internal/config"
	logpkg "github.com/kailas-cloud/astrorag/internal/logger"
	"github.com/kailas-cloud/astrorag/internal/usecase/insight"
	"github.com/kailas-cloud/astrorag/internal/version"
)

type rootOptions struct {
	cfgFile string
	verbose bool
	asJSON  bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "astroctl",
		Short:         "astroctl generates personalized daily insights from the command line",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default config/<ENV>.yaml)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "V", false, "log debug output to stderr")
	root.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "print JSON instead of text")

	root.AddCommand(newPredictCmd(opts), newRetrieveCmd(opts), newProfileCmd(opts))
	return root
}

// withApp loads config, assembles the service graph and runs fn against it.
func withApp(ctx context.Context, opts *rootOptions, fn func(*app.App) error) error {
	var (
		cfg config.Config
		err error
	)
	if opts.cfgFile != "" {
		cfg, err = config.LoadFile(opts.cfgFile)
	} else {
		cfg, err = config.Load(config.GetEnv())
	}
	if err != nil {
		return err
	}

	logger, err := logpkg.NewCLILogger(opts.verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Debug("assemble failed", zap.Error(err))
		return err
	}
	defer a.Close()
	return fn(a)
}

func newPredictCmd(opts *rootOptions) *cobra.Command {
	var req insight.Request
	cmd := &cobra.Command{
		Use:     "predict",
		Short:   "Generate today's insight for a person",
		Example: `astroctl predict --name Ritika --date 1995-08-20 --time 14:30 --place "Jaipur, India" --lang hi`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), opts, func(a *app.App) error {
				p, err := a.Insight.Predict(cmd.Context(), req)
				if err != nil {
					return err
				}
				if opts.asJSON {
					return printJSON(cmd.OutOrStdout(), map[string]any{
						"zodiac":    p.Zodiac,
						"insight":   p.Insight,
						"language":  p.Language,
						"source":    p.Source,
						"used_hint": p.UsedHint,
						"hint_ids":  p.HintIDs,
					})
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n%s\n", p.Zodiac, p.Source, p.Insight)
				return err
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Name, "name", "", "person's name")
	f.StringVar(&req.BirthDate, "date", "", "birth date, YYYY-MM-DD")
	f.StringVar(&req.BirthTime, "time", "", "birth time, HH:MM")
	f.StringVar(&req.BirthPlace, "place", "", "birth place, e.g. \"Jaipur, India\"")
	f.StringVar(&req.Timezone, "tz", "", "IANA timezone overriding the place lookup")
	f.StringVar(&req.Language, "lang", "", "output language tag, e.g. hi")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func newRetrieveCmd(opts *rootOptions) *cobra.Command {
	var k int
	cmd := &cobra.Command{
		Use:   "retrieve QUERY",
		Short: "Show the corpus snippets most similar to a query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, func(a *app.App) error {
				hits, err := a.Retrieval.Search(cmd.Context(), args[0], k)
				if err != nil {
					return err
				}
				if opts.asJSON {
					items := make([]map[string]any, len(hits))
					for i := range hits {
						items[i] = map[string]any{"id": hits[i].ID(), "text": hits[i].Text(), "score": hits[i].Score()}
					}
					return printJSON(cmd.OutOrStdout(), items)
				}
				for i := range hits {
					if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%d\t%.4f\t%s\n",
						hits[i].ID(), hits[i].Score(), hits[i].Text()); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&k, "k", "k", 3, "number of snippets")
	return cmd
}

func newProfileCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile NAME",
		Short: "Show a stored profile, creating the derived default on first use",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, func(a *app.App) error {
				p, err := a.Profiles.GetOrCreate(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if opts.asJSON {
					return printJSON(cmd.OutOrStdout(), p)
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\tscore=%d\ttone=%s\tpreference=%s\tlanguage=%s\n",
					p.Name, p.Score, p.Tone, p.Preference, p.LastLanguage)
				return err
			})
		},
	}
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
