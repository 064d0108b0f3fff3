package models

// ReaderProfile describes what a reader likes. It arrives as `userPreferences`.
type ReaderProfile struct {
	FavoriteGenres []string       `json:"favoriteGenres,omitempty" yaml:"favorite_genres"`
	Bio            string         `json:"bio,omitempty" yaml:"bio"`
	Vibes          []string       `json:"vibes,omitempty" yaml:"vibes"`
	ReadingPace    string         `json:"readingPace,omitempty" yaml:"reading_pace"`
	ReadingHistory []HistoryEntry `json:"readingHistory,omitempty" yaml:"reading_history"`
}

// HistoryEntry is a previously read book and the rating the reader gave it.
type HistoryEntry struct {
	Title  string  `json:"title" yaml:"title"`
	Author string  `json:"author,omitempty" yaml:"author"`
	Rating float64 `json:"rating,omitempty" yaml:"rating"`
}

// BookRecord is the book being scored.
type BookRecord struct {
	Title       string   `json:"title" yaml:"title" validate:"required"`
	Authors     []string `json:"authors,omitempty" yaml:"authors"`
	Description string   `json:"description,omitempty" yaml:"description"`
	Categories  []string `json:"categories,omitempty" yaml:"categories"`
}

// FirstAuthor returns the first listed author or an empty string.
func (b *BookRecord) FirstAuthor() string {
	if len(b.Authors) == 0 {
		return ""
	}
	return b.Authors[0]
}

// AnalyzeRequest is the body accepted by the analysis endpoints.
type AnalyzeRequest struct {
	Book            *BookRecord    `json:"book" validate:"required"`
	UserPreferences *ReaderProfile `json:"userPreferences" validate:"required"`
	ReadingHistory  []HistoryEntry `json:"readingHistory,omitempty"`
	Template        string         `json:"template,omitempty"`
}

// AnalysisResult is the structured payload produced by the model.
type AnalysisResult struct {
	FinalRating     float64    `json:"final_rating" yaml:"final_rating"`
	Breakdown       *Breakdown `json:"breakdown,omitempty" yaml:"breakdown,omitempty"`
	ConfidenceLevel string     `json:"confidence_level,omitempty" yaml:"confidence_level,omitempty"`
	ShortReasoning  string     `json:"short_reasoning,omitempty" yaml:"short_reasoning,omitempty"`
	PositivePoints  []string   `json:"positive_points" yaml:"positive_points"`
	NegativePoints  []string   `json:"negative_points" yaml:"negative_points"`
	DescriptionUsed string     `json:"description_used,omitempty" yaml:"description_used,omitempty"`
}

// Breakdown holds the per-dimension sub-scores.
type Breakdown struct {
	PlotAffinity  *DimensionScore `json:"plot_affinity,omitempty" yaml:"plot_affinity,omitempty"`
	StyleAffinity *DimensionScore `json:"style_affinity,omitempty" yaml:"style_affinity,omitempty"`
	GenreAffinity *DimensionScore `json:"genre_affinity,omitempty" yaml:"genre_affinity,omitempty"`
}

// DimensionScore is a single sub-score with a short justification.
type DimensionScore struct {
	Score  float64 `json:"score" yaml:"score"`
	Reason string  `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Confidence levels accepted in AnalysisResult.ConfidenceLevel.
const (
	ConfidenceHigh   = "High"
	ConfidenceMedium = "Medium"
	ConfidenceLow    = "Low"
)
