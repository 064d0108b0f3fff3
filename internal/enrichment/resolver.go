// Package enrichment decides whether a supplied book description is usable
// and, when it is not, substitutes a synopsis found by a search source.
package enrichment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/lehigh-university-libraries/bookmatch/internal/metrics"
	"github.com/lehigh-university-libraries/bookmatch/internal/models"
	"github.com/lehigh-university-libraries/bookmatch/internal/sanitize"
	"github.com/lehigh-university-libraries/bookmatch/internal/search"
)

// DefaultMinLength is the shortest description considered usable.
const DefaultMinLength = 50

// ErrNoSynopsis is returned by Enrich when no source produced usable text.
var ErrNoSynopsis = errors.New("no synopsis found")

// Path records how a description was obtained.
type Path string

const (
	PathSupplied    Path = "supplied"
	PathEnriched    Path = "enriched"
	PathUnavailable Path = "unavailable"
)

// Resolution is the description handed to the prompt builder. When
// enrichment fails the short supplied text is kept as is. An empty
// Description means no usable description exists.
type Resolution struct {
	Description string
	Path        Path
}

// Resolver implements the insufficient-description fallback.
type Resolver struct {
	searcher    search.Searcher
	minLength   int
	limit       int
	maxSnippets int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMinLength sets the usability threshold in characters.
func WithMinLength(n int) Option {
	return func(r *Resolver) { r.minLength = n }
}

// WithLimit sets the sanitizer ceiling applied to enriched text.
func WithLimit(n int) Option {
	return func(r *Resolver) { r.limit = n }
}

// New returns a resolver. A nil searcher disables enrichment.
func New(searcher search.Searcher, opts ...Option) *Resolver {
	r := &Resolver{
		searcher:    searcher,
		minLength:   DefaultMinLength,
		limit:       sanitize.DefaultLimit,
		maxSnippets: 3,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Sufficient reports whether a sanitized description can be used as is.
func (r *Resolver) Sufficient(description string) bool {
	return utf8.RuneCountInString(description) >= r.minLength
}

// Resolve returns the description to use for book. Enrichment failures are
// logged and absorbed, keeping the supplied text; Resolve never fails.
func (r *Resolver) Resolve(ctx context.Context, book *models.BookRecord, sanitized string) Resolution {
	if r.Sufficient(sanitized) {
		slog.Info("Using supplied description", "title", book.Title, "path", PathSupplied)
		metrics.RecordEnrichment(string(PathSupplied))
		return Resolution{Description: sanitized, Path: PathSupplied}
	}

	slog.Info("Description missing or too short, searching for synopsis", "title", book.Title, "length", utf8.RuneCountInString(sanitized))

	text, err := r.Enrich(ctx, book)
	if err != nil {
		slog.Warn("Enrichment failed", "title", book.Title, "path", PathUnavailable, "err", err)
		metrics.RecordEnrichment(string(PathUnavailable))
		return Resolution{Description: sanitized, Path: PathUnavailable}
	}

	slog.Info("Found alternative description", "title", book.Title, "path", PathEnriched, "length", utf8.RuneCountInString(text))
	metrics.RecordEnrichment(string(PathEnriched))
	return Resolution{Description: text, Path: PathEnriched}
}

// Enrich queries the searcher for book and returns sanitized synopsis text.
func (r *Resolver) Enrich(ctx context.Context, book *models.BookRecord) (string, error) {
	if r.searcher == nil {
		return "", fmt.Errorf("%w: no search source configured", ErrNoSynopsis)
	}

	snippets, err := r.searcher.Search(ctx, Query(book))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoSynopsis, err)
	}

	text := sanitize.Text(search.Join(snippets, r.maxSnippets), r.limit)
	if text == "" {
		return "", ErrNoSynopsis
	}
	return text, nil
}

// Query builds the search query for a book from its title and first author.
func Query(book *models.BookRecord) string {
	parts := []string{strings.TrimSpace(book.Title)}
	if author := strings.TrimSpace(book.FirstAuthor()); author != "" {
		parts = append(parts, author)
	}
	parts = append(parts, "book synopsis")
	return strings.Join(parts, " ")
}
