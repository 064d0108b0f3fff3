// Package analysis orchestrates one book-compatibility analysis:
// sanitize, resolve the description, build the prompt, invoke the model and
// extract the structured result.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lehigh-university-libraries/bookmatch/internal/enrichment"
	"github.com/lehigh-university-libraries/bookmatch/internal/extract"
	"github.com/lehigh-university-libraries/bookmatch/internal/metrics"
	"github.com/lehigh-university-libraries/bookmatch/internal/models"
	"github.com/lehigh-university-libraries/bookmatch/internal/prompt"
	"github.com/lehigh-university-libraries/bookmatch/internal/providers"
	"github.com/lehigh-university-libraries/bookmatch/internal/sanitize"
)

// ErrBadRequest marks missing or invalid caller input.
var ErrBadRequest = errors.New("bad request")

// EnrichmentMode selects where a missing description is looked up.
type EnrichmentMode string

const (
	// EnrichResolver searches before building the prompt.
	EnrichResolver EnrichmentMode = "resolver"
	// EnrichModel lets the model search while generating.
	EnrichModel EnrichmentMode = "model"
	// EnrichOff never looks anything up.
	EnrichOff EnrichmentMode = "off"
)

// ParseEnrichmentMode validates a configured mode.
func ParseEnrichmentMode(s string) (EnrichmentMode, error) {
	switch m := EnrichmentMode(strings.ToLower(strings.TrimSpace(s))); m {
	case EnrichResolver, EnrichModel, EnrichOff:
		return m, nil
	default:
		return "", fmt.Errorf("unsupported enrichment mode: %s", s)
	}
}

const (
	reasoningLimit       = 500
	unknownTemplateLabel = "unknown"
)

const modelSearchInstruction = "\nThe description above is missing or too short. Before answering, call the search_book_info tool with the book title and author to find a synopsis, and base the analysis on it.\n"

// Options configures a Service.
type Options struct {
	Provider         string
	Model            string
	Temperature      float64
	DefaultTemplate  string
	Enrichment       EnrichmentMode
	DescriptionLimit int
	// Strict validates model output against the template schema.
	Strict bool
}

// Request is a single analysis.
type Request struct {
	Book     *models.BookRecord
	Profile  *models.ReaderProfile
	Template string
}

// Service runs analyses. It holds no per-request state and is safe for
// concurrent use.
type Service struct {
	provider   providers.Provider
	resolver   *enrichment.Resolver
	opts       Options
	extractors map[string]*extract.Extractor
}

// NewService wires the pipeline around an already constructed provider.
func NewService(provider providers.Provider, resolver *enrichment.Resolver, opts Options) (*Service, error) {
	if provider == nil {
		return nil, fmt.Errorf("provider is required")
	}
	if resolver == nil {
		resolver = enrichment.New(nil)
	}
	if opts.DefaultTemplate == "" {
		opts.DefaultTemplate = prompt.TemplateAnalysis
	}
	if _, ok := prompt.Lookup(opts.DefaultTemplate); !ok {
		return nil, fmt.Errorf("unknown template: %s", opts.DefaultTemplate)
	}
	if opts.Enrichment == "" {
		opts.Enrichment = EnrichResolver
	}
	if opts.DescriptionLimit == 0 {
		opts.DescriptionLimit = sanitize.DefaultLimit
	}
	if opts.Model == "" {
		opts.Model = providers.DefaultModel(opts.Provider)
	}

	s := &Service{
		provider:   provider,
		resolver:   resolver,
		opts:       opts,
		extractors: make(map[string]*extract.Extractor),
	}

	for _, name := range prompt.Names() {
		t, _ := prompt.Lookup(name)
		var schema map[string]any
		if opts.Strict {
			schema = t.Schema
		}
		e, err := extract.New(schema)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", name, err)
		}
		s.extractors[name] = e
	}

	return s, nil
}

// Analyze scores how well req.Book matches req.Profile. Input problems are
// reported as ErrBadRequest; backend failures wrap providers.ErrInvocation
// and unusable output wraps extract.ErrMalformedResponse.
func (s *Service) Analyze(ctx context.Context, req Request) (*models.AnalysisResult, error) {
	name := req.Template
	if name == "" {
		name = s.opts.DefaultTemplate
	}

	// Caller-supplied names never become metric labels.
	tmpl, ok := prompt.Lookup(name)
	label := tmpl.Name
	if !ok {
		label = unknownTemplateLabel
	}

	if req.Book == nil || req.Profile == nil {
		metrics.RecordAnalysis(label, "bad_request")
		return nil, fmt.Errorf("%w: book and userPreferences are required", ErrBadRequest)
	}
	if strings.TrimSpace(req.Book.Title) == "" {
		metrics.RecordAnalysis(label, "bad_request")
		return nil, fmt.Errorf("%w: book title is required", ErrBadRequest)
	}
	if !ok {
		metrics.RecordAnalysis(label, "bad_request")
		return nil, fmt.Errorf("%w: unknown template %q", ErrBadRequest, name)
	}

	logger := slog.With("analysis_id", uuid.NewString(), "title", req.Book.Title, "template", tmpl.Name)

	description, enableSearch := s.describe(ctx, logger, req.Book)

	text := tmpl.Render(req.Profile, req.Book, description)
	if enableSearch {
		text += modelSearchInstruction
	}
	logger.Debug("Rendered prompt", "prompt", text)

	start := time.Now()
	raw, err := s.provider.Generate(ctx, providers.Config{
		Model:        s.opts.Model,
		Temperature:  s.opts.Temperature,
		Prompt:       text,
		EnableSearch: enableSearch,
	})
	metrics.ObserveGeneration(s.opts.Provider, time.Since(start), err)
	if err != nil {
		logger.Error("Model invocation failed", "provider", s.opts.Provider, "model", s.opts.Model, "err", err)
		metrics.RecordAnalysis(tmpl.Name, "invocation_error")
		return nil, fmt.Errorf("%w: %w", providers.ErrInvocation, err)
	}

	result, err := s.extractors[tmpl.Name].Extract(raw)
	if err != nil {
		logger.Error("Unable to extract analysis from model output", "length", len(raw), "err", err)
		metrics.RecordAnalysis(tmpl.Name, "malformed_response")
		return nil, err
	}

	result.ShortReasoning = sanitize.Text(result.ShortReasoning, reasoningLimit)
	if tmpl.IncludeDescription {
		result.DescriptionUsed = description
	}

	logger.Info("Analysis complete", "final_rating", result.FinalRating, "duration", time.Since(start))
	metrics.RecordAnalysis(tmpl.Name, "ok")
	return result, nil
}

// describe returns the description for the prompt and whether the model
// should search for one itself.
func (s *Service) describe(ctx context.Context, logger *slog.Logger, book *models.BookRecord) (string, bool) {
	sanitized := sanitize.Text(book.Description, s.opts.DescriptionLimit)

	switch s.opts.Enrichment {
	case EnrichModel:
		if s.resolver.Sufficient(sanitized) {
			return sanitized, false
		}
		if !providers.SupportsSearch(s.provider) {
			logger.Info("Provider cannot search, falling back to resolver", "provider", s.opts.Provider)
			return s.resolver.Resolve(ctx, book, sanitized).Description, false
		}
		logger.Info("Description missing or too short, delegating search to model", "path", "model")
		metrics.RecordEnrichment("model")
		return sanitized, true
	case EnrichOff:
		if s.resolver.Sufficient(sanitized) {
			return sanitized, false
		}
		logger.Info("Description missing or too short, enrichment disabled", "path", enrichment.PathUnavailable)
		return sanitized, false
	default:
		return s.resolver.Resolve(ctx, book, sanitized).Description, false
	}
}
