package search

import (
	"context"
	"fmt"

	books "google.golang.org/api/books/v1"
	"google.golang.org/api/option"
)

const booksSource = "google_books"

// Books searches the Google Books volumes index and returns volume
// descriptions, falling back to the search text snippet.
type Books struct {
	service    *books.Service
	maxResults int64
}

// NewBooks creates a Google Books searcher. An empty apiKey uses the
// unauthenticated quota.
func NewBooks(ctx context.Context, apiKey string, opts ...option.ClientOption) (*Books, error) {
	if apiKey != "" {
		opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	} else {
		opts = append([]option.ClientOption{option.WithoutAuthentication()}, opts...)
	}

	svc, err := books.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create books service: %w", err)
	}

	return &Books{service: svc, maxResults: 3}, nil
}

// Search implements Searcher.
func (b *Books) Search(ctx context.Context, query string) ([]Snippet, error) {
	resp, err := b.service.Volumes.List(query).
		MaxResults(b.maxResults).
		PrintType("books").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("google books search failed: %w", err)
	}

	snippets := make([]Snippet, 0, len(resp.Items))
	for _, v := range resp.Items {
		var s Snippet
		s.Source = booksSource
		if v.VolumeInfo != nil {
			s.Title = v.VolumeInfo.Title
			s.Text = v.VolumeInfo.Description
		}
		if s.Text == "" && v.SearchInfo != nil {
			s.Text = v.SearchInfo.TextSnippet
		}
		snippets = append(snippets, s)
	}

	return NonEmpty(snippets), nil
}
