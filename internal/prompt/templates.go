package prompt

import "sort"

// Template names.
const (
	TemplateAnalysis = "analysis"
	TemplateRating   = "rating"
	TemplateDescribe = "describe"
)

// Template selects the instructions and output schema of a prompt.
type Template struct {
	Name string
	// Breakdown asks for weighted per-dimension sub-scores and a
	// confidence level.
	Breakdown bool
	// IncludeDescription returns the description that was used to the caller.
	IncludeDescription bool
	// Output is the literal output format shown to the model.
	Output string
	// Schema is the JSON Schema the structured payload is validated against.
	Schema map[string]any
}

const ratingOutput = `{
  "final_rating": number between 1.0 and 5.0,
  "short_reasoning": "string, at most 3 sentences",
  "positive_points": ["string", ...],
  "negative_points": ["string", ...]
}`

const analysisOutput = `{
  "final_rating": number between 1.0 and 5.0,
  "breakdown": {
    "plot_affinity": { "score": number between 1.0 and 5.0, "reason": "string, one sentence" },
    "style_affinity": { "score": number between 1.0 and 5.0, "reason": "string, one sentence" },
    "genre_affinity": { "score": number between 1.0 and 5.0, "reason": "string, one sentence" }
  },
  "confidence_level": "High" | "Medium" | "Low",
  "short_reasoning": "string, at most 3 sentences",
  "positive_points": ["string", ...],
  "negative_points": ["string", ...]
}`

var templates = map[string]Template{
	TemplateRating: {
		Name:   TemplateRating,
		Output: ratingOutput,
		Schema: resultSchema(false),
	},
	TemplateAnalysis: {
		Name:      TemplateAnalysis,
		Breakdown: true,
		Output:    analysisOutput,
		Schema:    resultSchema(true),
	},
	TemplateDescribe: {
		Name:               TemplateDescribe,
		Breakdown:          true,
		IncludeDescription: true,
		Output:             analysisOutput,
		Schema:             resultSchema(true),
	},
}

// Lookup returns the named template.
func Lookup(name string) (Template, bool) {
	t, ok := templates[name]
	return t, ok
}

// Names lists the registered template names in sorted order.
func Names() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func resultSchema(breakdown bool) map[string]any {
	score := map[string]any{"type": "number", "minimum": 1, "maximum": 5}
	points := map[string]any{"type": "array", "items": map[string]any{"type": "string"}}

	properties := map[string]any{
		"final_rating":     score,
		"short_reasoning":  map[string]any{"type": "string"},
		"positive_points":  points,
		"negative_points":  points,
		"confidence_level": map[string]any{"type": "string", "enum": []string{"High", "Medium", "Low"}},
	}

	if breakdown {
		dimension := map[string]any{
			"type": "object",
			"properties": map[string]any{
				"score":  score,
				"reason": map[string]any{"type": "string"},
			},
			"required": []string{"score"},
		}
		properties["breakdown"] = map[string]any{
			"type": "object",
			"properties": map[string]any{
				"plot_affinity":  dimension,
				"style_affinity": dimension,
				"genre_affinity": dimension,
			},
		}
	}

	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   []string{"final_rating", "positive_points", "negative_points"},
	}
}
