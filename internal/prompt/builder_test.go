package prompt

import (
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/bookmatch/internal/models"
)

func TestBuildContainsTitleAndGenres(t *testing.T) {
	profile := &models.ReaderProfile{
		FavoriteGenres: []string{"Fantasy", "Science Fiction", "Mystery"},
		Bio:            "loves dragons",
	}
	book := &models.BookRecord{Title: "The Hobbit", Authors: []string{"J.R.R. Tolkien"}}

	result := Build(profile, book, "A hobbit goes on an adventure.")

	for _, want := range []string{"The Hobbit", "Fantasy", "Science Fiction", "Mystery", "loves dragons", "A hobbit goes on an adventure."} {
		if !strings.Contains(result, want) {
			t.Errorf("Expected prompt to contain %q", want)
		}
	}
}

func TestBuildPlaceholders(t *testing.T) {
	result := Build(&models.ReaderProfile{}, &models.BookRecord{Title: "T"}, "")

	if strings.Contains(result, "undefined") {
		t.Error("Prompt must never contain \"undefined\"")
	}
	if !strings.Contains(result, `- Bio: "`+Placeholder+`"`) {
		t.Errorf("Expected bio placeholder, got:\n%s", result)
	}
	if !strings.Contains(result, NoDescription) {
		t.Errorf("Expected %q for empty description", NoDescription)
	}
	for _, field := range []string{"Favorite genres", "Vibes", "Reading pace", "Reading history", "Categories"} {
		if !strings.Contains(result, "- "+field+": "+Placeholder) {
			t.Errorf("Expected placeholder for %s", field)
		}
	}
}

func TestBuildNilInputs(t *testing.T) {
	result := Build(nil, nil, "")
	if !strings.Contains(result, "- Title: "+Placeholder) {
		t.Errorf("Expected title placeholder for nil book")
	}
}

func TestBuildDeterministic(t *testing.T) {
	profile := &models.ReaderProfile{
		FavoriteGenres: []string{"Horror"},
		Vibes:          []string{"dark", "atmospheric"},
		ReadingPace:    "slow",
		ReadingHistory: []models.HistoryEntry{
			{Title: "Dracula", Author: "Bram Stoker", Rating: 4.5},
			{Title: "It"},
		},
	}
	book := &models.BookRecord{Title: "Carrie", Categories: []string{"Fiction"}}

	first := Build(profile, book, "desc")
	second := Build(profile, book, "desc")
	if first != second {
		t.Error("Expected identical prompts for identical inputs")
	}
	if !strings.Contains(first, "- Dracula by Bram Stoker: 4.5/5") {
		t.Errorf("Expected rendered history line, got:\n%s", first)
	}
	if !strings.Contains(first, "\n  - It\n") {
		t.Errorf("Expected unrated history line, got:\n%s", first)
	}
}

func TestTemplates(t *testing.T) {
	tests := []struct {
		name          string
		wantBreakdown bool
		wantInOutput  []string
	}{
		{name: TemplateRating, wantBreakdown: false, wantInOutput: []string{`"final_rating"`, `"positive_points"`, `"negative_points"`, `"short_reasoning"`}},
		{name: TemplateAnalysis, wantBreakdown: true, wantInOutput: []string{`"breakdown"`, `"plot_affinity"`, `"confidence_level"`}},
		{name: TemplateDescribe, wantBreakdown: true, wantInOutput: []string{`"breakdown"`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, ok := Lookup(tt.name)
			if !ok {
				t.Fatalf("Expected template %s to exist", tt.name)
			}

			rendered := tmpl.Render(&models.ReaderProfile{}, &models.BookRecord{Title: "T"}, "")
			for _, want := range tt.wantInOutput {
				if !strings.Contains(rendered, want) {
					t.Errorf("Expected rendered prompt to contain %s", want)
				}
			}

			hasWeights := strings.Contains(rendered, "plot_affinity 50%")
			if hasWeights != tt.wantBreakdown {
				t.Errorf("Expected weighting instructions=%v, got %v", tt.wantBreakdown, hasWeights)
			}
			if !strings.Contains(rendered, "ONLY a JSON object") {
				t.Error("Expected JSON-only instruction")
			}
		})
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, ok := Lookup("nope"); ok {
		t.Error("Expected unknown template lookup to fail")
	}
	if got := strings.Join(Names(), ","); got != "analysis,describe,rating" {
		t.Errorf("Unexpected template names %s", got)
	}
}
