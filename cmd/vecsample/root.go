package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/viant/vecstore/config"
	"github.com/viant/vecstore/internal/logger"
	"github.com/viant/vecstore/sample"
	"github.com/viant/vecstore/vector"
)

const serviceName = "vecsample"

type options struct {
	configPath string
	jsonOutput bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           serviceName,
		Short:         "Relational vector store sample",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a TOML config file")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "print results as JSON")
	root.AddCommand(
		newInitCmd(opts),
		newLoadCmd(opts),
		newSearchCmd(opts),
		newCountCmd(opts),
		newReindexCmd(opts),
		newRunCmd(opts),
	)
	return root
}

// withSample loads config, opens the sample and closes it after fn.
func withSample(cmd *cobra.Command, opts *options, fn func(ctx context.Context, s *sample.Sample) error) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	log := logger.NewWithWriter(cmd.ErrOrStderr(), serviceName, cfg.LogLevel)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := sample.New(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("failed to open vector store")
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("failed to close pool")
		}
	}()
	return fn(ctx, s)
}

func newInitCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the vector table if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSample(cmd, opts, func(ctx context.Context, s *sample.Sample) error {
				return s.Init(ctx)
			})
		},
	}
}

func newLoadCmd(opts *options) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Embed one fact per line and store it",
		Long:  "Embeds every non-blank line of --file, or the bundled country facts when no file is given.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSample(cmd, opts, func(ctx context.Context, s *sample.Sample) error {
				if err := s.Init(ctx); err != nil {
					return err
				}
				var ids []string
				var err error
				if file == "" {
					ids, err = s.PopulateFacts(ctx)
				} else {
					f, ferr := os.Open(file)
					if ferr != nil {
						return ferr
					}
					defer f.Close()
					ids, err = s.Populate(ctx, f)
				}
				if err != nil {
					return err
				}
				cmd.Printf("loaded %d embeddings\n", len(ids))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "text file with one entry per line")
	return cmd
}

func newSearchCmd(opts *options) *cobra.Command {
	var (
		text       string
		maxResults int
		minScore   float64
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Run a similarity search",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSample(cmd, opts, func(ctx context.Context, s *sample.Sample) error {
				matches, err := s.Search(ctx, text, maxResults, minScore)
				if err != nil {
					return fmt.Errorf("search failed: %w", err)
				}
				return printMatches(cmd, opts, matches)
			})
		},
	}
	cmd.Flags().StringVarP(&text, "text", "t", sample.SearchText, "query text")
	cmd.Flags().IntVarP(&maxResults, "max-results", "n", 1, "maximum number of results")
	cmd.Flags().Float64Var(&minScore, "min-score", 0, "minimum relevance score in [0, 1]")
	return cmd
}

func newCountCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of stored embeddings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSample(cmd, opts, func(ctx context.Context, s *sample.Sample) error {
				n, err := s.Count(ctx)
				if err != nil {
					return err
				}
				cmd.Println(n)
				return nil
			})
		},
	}
}

func newReindexCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the vector index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSample(cmd, opts, func(ctx context.Context, s *sample.Sample) error {
				n, err := s.Reindex(ctx)
				if err != nil {
					return err
				}
				cmd.Printf("reindexed:%d\n", n)
				return nil
			})
		},
	}
}

func newRunCmd(opts *options) *cobra.Command {
	var text string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Create the table, load the country facts and search them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSample(cmd, opts, func(ctx context.Context, s *sample.Sample) error {
				matches, err := s.Run(ctx, text)
				if err != nil {
					return err
				}
				return printMatches(cmd, opts, matches)
			})
		},
	}
	cmd.Flags().StringVarP(&text, "text", "t", sample.SearchText, "query text")
	return cmd
}

type matchView struct {
	ID      string  `json:"id"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

func printMatches(cmd *cobra.Command, opts *options, matches []vector.Match) error {
	if opts.jsonOutput {
		views := make([]matchView, len(matches))
		for i, m := range matches {
			views[i] = matchView{ID: m.ID, Content: m.Content, Score: m.Score}
		}
		data, err := json.MarshalIndent(views, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}
	if len(matches) == 0 {
		cmd.Println("No results found.")
		return nil
	}
	for i, m := range matches {
		cmd.Printf("  [%d] %s (%.4f)\n", i+1, m.Content, m.Score)
	}
	return nil
}

