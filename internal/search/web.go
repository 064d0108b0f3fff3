package search

import (
	"context"
	"fmt"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

const webSource = "google_search"

// Web queries a Google Programmable Search Engine and returns result snippets.
type Web struct {
	service  *customsearch.Service
	engineID string
	num      int64
}

// NewWeb creates a web searcher for the given search engine ID.
func NewWeb(ctx context.Context, apiKey, engineID string, opts ...option.ClientOption) (*Web, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("google search API key not set")
	}
	if engineID == "" {
		return nil, fmt.Errorf("google search engine ID not set")
	}

	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create custom search service: %w", err)
	}

	return &Web{service: svc, engineID: engineID, num: 3}, nil
}

// Search implements Searcher.
func (w *Web) Search(ctx context.Context, query string) ([]Snippet, error) {
	resp, err := w.service.Cse.List().
		Cx(w.engineID).
		Q(query).
		Num(w.num).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("google web search failed: %w", err)
	}

	snippets := make([]Snippet, 0, len(resp.Items))
	for _, item := range resp.Items {
		snippets = append(snippets, Snippet{
			Title:  item.Title,
			Text:   item.Snippet,
			Source: webSource,
		})
	}

	return NonEmpty(snippets), nil
}
