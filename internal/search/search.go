// Package search looks up descriptive text about a book from external
// sources. Every source is asked at most once per query.
package search

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// Snippet is a piece of descriptive text returned by a source.
type Snippet struct {
	Title  string
	Text   string
	Source string
}

// Searcher finds snippets for a free-text query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Snippet, error)
}

// Chain asks each searcher in order and returns the first non-empty result.
type Chain []Searcher

// Search implements Searcher. Errors are only returned when no source
// produced text.
func (c Chain) Search(ctx context.Context, query string) ([]Snippet, error) {
	var errs []error
	for i, s := range c {
		snippets, err := s.Search(ctx, query)
		if err != nil {
			slog.Debug("Search source failed", "source", i, "err", err)
			errs = append(errs, err)
			continue
		}
		if snippets = NonEmpty(snippets); len(snippets) > 0 {
			return snippets, nil
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return nil, nil
}

// NonEmpty drops snippets without text.
func NonEmpty(snippets []Snippet) []Snippet {
	out := snippets[:0:0]
	for _, s := range snippets {
		if strings.TrimSpace(s.Text) != "" {
			out = append(out, s)
		}
	}
	return out
}

// Join concatenates the text of at most limit snippets with single spaces.
func Join(snippets []Snippet, limit int) string {
	if limit > 0 && len(snippets) > limit {
		snippets = snippets[:limit]
	}
	parts := make([]string, 0, len(snippets))
	for _, s := range snippets {
		if t := strings.TrimSpace(s.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
