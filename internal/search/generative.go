package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/bookmatch/internal/metrics"
	"github.com/lehigh-university-libraries/bookmatch/internal/providers"
)

const (
	generativeSource = "generative"
	unknownMarker    = "UNKNOWN"
)

// Generative asks a generative backend to write a synopsis for the query.
type Generative struct {
	provider    providers.Provider
	name        string
	model       string
	temperature float64
}

// NewGenerative returns a searcher backed by the given provider. name labels
// the backend in generation metrics.
func NewGenerative(provider providers.Provider, name, model string, temperature float64) *Generative {
	return &Generative{
		provider:    provider,
		name:        name,
		model:       model,
		temperature: temperature,
	}
}

// Search implements Searcher. It returns no snippets when the model does not
// recognise the book.
func (g *Generative) Search(ctx context.Context, query string) ([]Snippet, error) {
	start := time.Now()
	text, err := g.provider.Generate(ctx, providers.Config{
		Model:       g.model,
		Temperature: g.temperature,
		Prompt:      synopsisPrompt(query),
	})
	metrics.ObserveGeneration(g.name, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("generative synopsis failed: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" || strings.HasPrefix(strings.ToUpper(text), unknownMarker) {
		return nil, nil
	}

	return []Snippet{{Text: text, Source: generativeSource}}, nil
}

func synopsisPrompt(query string) string {
	return fmt.Sprintf(`You are a well-read librarian. Identify the book described by this search query and write a detailed synopsis of its plot, themes and tone.

QUERY: %s

RULES:
- Plain text only, 150 to 300 words, no headings or lists.
- Do not reveal the ending.
- If you do not know this book, respond with exactly %s and nothing else.`, query, unknownMarker)
}
