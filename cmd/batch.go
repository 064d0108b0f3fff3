package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/bookmatch/internal/analysis"
	"github.com/lehigh-university-libraries/bookmatch/internal/config"
	"github.com/lehigh-university-libraries/bookmatch/internal/eval/dataset"
	"github.com/lehigh-university-libraries/bookmatch/internal/eval/results"
)

func newBatchCmd() *cobra.Command {
	var (
		datasetPath string
		profilePath string
		outputPath  string
		template    string
		sampleSize  int
		cacheDir    string
		token       string
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Score every book in a dataset against one reader profile",
		Long: `Loads books from a Parquet or JSONL dataset (local path or http(s) URL),
analyzes each one against the reader profile in a YAML file, and writes the
results and a summary to a YAML file.

Books are analyzed one at a time. A failed book is recorded and the run continues.`,
		Example: `  bookmatch batch --dataset books.parquet --profile reader.yaml
  bookmatch batch --dataset https://example.org/books.jsonl --profile reader.yaml --sample 10 --template rating`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if template == "" {
				template = cfg.Template
			}

			profile, err := dataset.LoadProfile(profilePath)
			if err != nil {
				return err
			}

			loader, err := dataset.Open(ctx, datasetPath, dataset.DownloadConfig{CacheDir: cacheDir, Token: token})
			if err != nil {
				return err
			}
			rows, err := loader.LoadSample(sampleSize)
			if err != nil {
				return fmt.Errorf("failed to load dataset: %w", err)
			}
			slog.Info("Loaded dataset", "path", datasetPath, "books", len(rows))

			svc, cleanup, err := newService(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			out := make([]results.BookResult, 0, len(rows))
			for i, row := range rows {
				if err := ctx.Err(); err != nil {
					return err
				}

				book := row.Book()
				entry := results.BookResult{
					Identifier: row.Identifier(),
					Title:      book.Title,
					Author:     book.FirstAuthor(),
				}

				result, err := svc.Analyze(ctx, analysis.Request{Book: book, Profile: profile, Template: template})
				if err != nil {
					slog.Warn("Analysis failed", "index", i, "title", book.Title, "err", err)
					entry.Error = err.Error()
				} else {
					slog.Info("Analyzed book", "index", i, "title", book.Title, "final_rating", result.FinalRating)
					entry.Result = result
				}
				out = append(out, entry)
			}

			spec := results.NewRunSpec(results.RunConfig{
				Provider:    cfg.Provider,
				Model:       cfg.Model,
				Template:    template,
				Temperature: cfg.Temperature,
				Enrichment:  string(cfg.Enrichment),
				DatasetPath: datasetPath,
				ProfilePath: profilePath,
				SampleSize:  sampleSize,
			}, out)

			written, err := results.SaveToYAML(outputPath, spec)
			if err != nil {
				return err
			}

			slog.Info("Batch complete",
				"total", spec.Summary.Total,
				"succeeded", spec.Summary.Succeeded,
				"failed", spec.Summary.Failed,
				"average_rating", spec.Summary.AverageRating,
				"output", written)
			return nil
		},
	}

	cmd.Flags().StringVarP(&datasetPath, "dataset", "d", "", "Parquet or JSONL dataset path or URL")
	cmd.Flags().StringVar(&profilePath, "profile", "", "Reader profile YAML file")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Results YAML file (default evals/<model>-<timestamp>.yaml)")
	cmd.Flags().StringVarP(&template, "template", "t", "", "Prompt template (default BOOKMATCH_TEMPLATE)")
	cmd.Flags().IntVarP(&sampleSize, "sample", "n", 0, "Analyze at most this many books (0 for all)")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", dataset.DefaultCacheDir, "Cache directory for downloaded datasets")
	cmd.Flags().StringVar(&token, "token", "", "Bearer token for downloading private datasets")

	_ = cmd.MarkFlagRequired("dataset")
	_ = cmd.MarkFlagRequired("profile")

	return cmd
}
