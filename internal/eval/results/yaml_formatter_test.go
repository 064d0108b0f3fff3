package results

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/bookmatch/internal/models"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name    string
		results []BookResult
		want    Summary
	}{
		{
			name: "empty",
			want: Summary{},
		},
		{
			name: "mixed",
			results: []BookResult{
				{Title: "A", Result: &models.AnalysisResult{FinalRating: 4}},
				{Title: "B", Error: "model invocation failed"},
				{Title: "C", Result: &models.AnalysisResult{FinalRating: 3}},
			},
			want: Summary{Total: 3, Succeeded: 2, Failed: 1, AverageRating: 3.5},
		},
		{
			name:    "all failed",
			results: []BookResult{{Title: "A", Error: "x"}},
			want:    Summary{Total: 1, Failed: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Summarize(tt.results); got != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestDefaultPath(t *testing.T) {
	spec := NewRunSpec(RunConfig{Model: "mistral-small3.2:24b", Timestamp: "2025-01-02_03-04-05"}, nil)

	want := filepath.Join("evals", "mistral-small3.2_24b-2025-01-02_03-04-05.yaml")
	if got := DefaultPath(spec); got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestSaveToYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "run.yaml")
	spec := NewRunSpec(RunConfig{Provider: "gemini", Model: "gemini-1.5-pro", Template: "analysis"}, []BookResult{
		{
			Identifier: "bk-1",
			Title:      "Dune",
			Author:     "Frank Herbert",
			Result: &models.AnalysisResult{
				FinalRating:     4.5,
				ConfidenceLevel: models.ConfidenceHigh,
				PositivePoints:  []string{"worldbuilding"},
				NegativePoints:  []string{},
			},
		},
		{Identifier: "bk-2", Title: "Emma", Error: "malformed model response"},
	})

	if spec.Config.Timestamp == "" {
		t.Error("Expected timestamp to be set")
	}

	written, err := SaveToYAML(path, spec)
	if err != nil {
		t.Fatalf("SaveToYAML failed: %v", err)
	}
	if !filepath.IsAbs(written) {
		t.Errorf("Expected absolute path, got %s", written)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read results: %v", err)
	}
	for _, want := range []string{"final_rating: 4.5", "confidence_level: High", "error: malformed model response", "succeeded: 1"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("Expected YAML to contain %q, got:\n%s", want, data)
		}
	}

	var decoded RunSpec
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Written YAML does not parse: %v", err)
	}
	if len(decoded.Results) != 2 || decoded.Results[0].Result == nil || decoded.Results[1].Result != nil {
		t.Errorf("Unexpected decoded results %+v", decoded.Results)
	}
}
