package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/bookmatch/internal/analysis"
	"github.com/lehigh-university-libraries/bookmatch/internal/config"
	"github.com/lehigh-university-libraries/bookmatch/internal/models"
)

func newAnalyzeCmd() *cobra.Command {
	var template string

	cmd := &cobra.Command{
		Use:   "analyze [request.json]",
		Short: "Run one analysis from a JSON request",
		Long: `Reads a request body in the same shape accepted by POST /api/analyze-book
and prints the resulting analysis as JSON. Reads stdin when no file is given.`,
		Example: `  bookmatch analyze request.json
  cat request.json | bookmatch analyze --template rating`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open request: %w", err)
				}
				defer f.Close()
				in = f
			}

			request, err := readRequest(in)
			if err != nil {
				return err
			}
			if template != "" {
				request.Template = template
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			svc, cleanup, err := newService(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			profile := *request.UserPreferences
			if len(profile.ReadingHistory) == 0 {
				profile.ReadingHistory = request.ReadingHistory
			}

			result, err := svc.Analyze(cmd.Context(), analysis.Request{
				Book:     request.Book,
				Profile:  &profile,
				Template: request.Template,
			})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "", "Prompt template (rating, analysis, describe)")

	return cmd
}

func readRequest(r io.Reader) (*models.AnalyzeRequest, error) {
	var request models.AnalyzeRequest
	if err := json.NewDecoder(r).Decode(&request); err != nil {
		return nil, fmt.Errorf("invalid request JSON: %w", err)
	}
	if request.Book == nil || request.UserPreferences == nil {
		return nil, fmt.Errorf("%w: request needs book and userPreferences", analysis.ErrBadRequest)
	}
	return &request, nil
}
