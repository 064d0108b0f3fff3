package results

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/bookmatch/internal/models"
)

// RunConfig is the configuration section of a batch results file.
type RunConfig struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	Template    string  `yaml:"template"`
	Temperature float64 `yaml:"temperature"`
	Enrichment  string  `yaml:"enrichment"`
	DatasetPath string  `yaml:"datasetpath"`
	ProfilePath string  `yaml:"profilepath"`
	SampleSize  int     `yaml:"samplesize"`
	Timestamp   string  `yaml:"timestamp"`
}

// BookResult is the outcome for one book. Exactly one of Result and Error is set.
type BookResult struct {
	Identifier string                 `yaml:"identifier"`
	Title      string                 `yaml:"title"`
	Author     string                 `yaml:"author,omitempty"`
	Result     *models.AnalysisResult `yaml:"result,omitempty"`
	Error      string                 `yaml:"error,omitempty"`
}

// Summary aggregates a run.
type Summary struct {
	Total         int     `yaml:"total"`
	Succeeded     int     `yaml:"succeeded"`
	Failed        int     `yaml:"failed"`
	AverageRating float64 `yaml:"averagerating"`
}

// RunSpec is the complete results document.
type RunSpec struct {
	Config  RunConfig    `yaml:"config"`
	Summary Summary      `yaml:"summary"`
	Results []BookResult `yaml:"results"`
}

// NewRunSpec stamps config with the current time and summarizes results.
func NewRunSpec(config RunConfig, results []BookResult) RunSpec {
	if config.Timestamp == "" {
		config.Timestamp = time.Now().Format("2006-01-02_15-04-05")
	}
	return RunSpec{
		Config:  config,
		Summary: Summarize(results),
		Results: results,
	}
}

// Summarize counts successes and failures and averages the final ratings.
func Summarize(results []BookResult) Summary {
	s := Summary{Total: len(results)}
	var sum float64
	for _, r := range results {
		if r.Result == nil {
			s.Failed++
			continue
		}
		s.Succeeded++
		sum += r.Result.FinalRating
	}
	if s.Succeeded > 0 {
		s.AverageRating = sum / float64(s.Succeeded)
	}
	return s
}

// DefaultPath returns evals/<model>-<timestamp>.yaml.
func DefaultPath(spec RunSpec) string {
	model := strings.NewReplacer("/", "_", ":", "_").Replace(spec.Config.Model)
	return filepath.Join("evals", fmt.Sprintf("%s-%s.yaml", model, spec.Config.Timestamp))
}

// SaveToYAML writes spec to path, creating parent directories. An empty path
// uses DefaultPath. It returns the absolute path written.
func SaveToYAML(path string, spec RunSpec) (string, error) {
	if path == "" {
		path = DefaultPath(spec)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create results directory: %w", err)
	}

	data, err := yaml.Marshal(&spec)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write YAML file: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return absPath, nil
}
