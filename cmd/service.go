package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/bookmatch/internal/analysis"
	"github.com/lehigh-university-libraries/bookmatch/internal/config"
	"github.com/lehigh-university-libraries/bookmatch/internal/enrichment"
	"github.com/lehigh-university-libraries/bookmatch/internal/gemini"
	"github.com/lehigh-university-libraries/bookmatch/internal/ollama"
	"github.com/lehigh-university-libraries/bookmatch/internal/openai"
	"github.com/lehigh-university-libraries/bookmatch/internal/providers"
	"github.com/lehigh-university-libraries/bookmatch/internal/search"
)

// newService wires the configured provider, search sources and resolver into
// an analysis service. The returned cleanup releases provider clients.
func newService(ctx context.Context, cfg *config.Config) (*analysis.Service, func(), error) {
	lookup, err := lookupChain(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	provider, cleanup, err := newProvider(ctx, cfg, lookup)
	if err != nil {
		return nil, nil, err
	}

	sources := append(search.Chain{}, lookup...)
	sources = append(sources, search.NewGenerative(provider, cfg.Provider, cfg.Model, cfg.Temperature))

	resolver := enrichment.New(sources,
		enrichment.WithMinLength(cfg.MinDescription),
		enrichment.WithLimit(cfg.MaxDescription),
	)

	svc, err := analysis.NewService(provider, resolver, cfg.ServiceOptions())
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	slog.Info("Analysis service ready",
		"provider", cfg.Provider,
		"model", cfg.Model,
		"template", cfg.Template,
		"enrichment", cfg.Enrichment,
		"sources", len(sources))

	return svc, cleanup, nil
}

// lookupChain returns the non-generative search sources. Web search is only
// added when its credentials are configured.
func lookupChain(ctx context.Context, cfg *config.Config) (search.Chain, error) {
	books, err := search.NewBooks(ctx, cfg.BooksAPIKey)
	if err != nil {
		return nil, err
	}
	chain := search.Chain{books}

	if cfg.SearchAPIKey != "" && cfg.SearchEngineID != "" {
		web, err := search.NewWeb(ctx, cfg.SearchAPIKey, cfg.SearchEngineID)
		if err != nil {
			return nil, err
		}
		chain = append(chain, web)
	} else {
		slog.Debug("Web search disabled, GOOGLE_SEARCH_API_KEY or GOOGLE_SEARCH_ENGINE_ID not set")
	}

	return chain, nil
}

func newProvider(ctx context.Context, cfg *config.Config, tools search.Searcher) (providers.Provider, func(), error) {
	switch cfg.Provider {
	case "gemini":
		g, err := gemini.New(ctx, cfg.GeminiAPIKey, tools)
		if err != nil {
			return nil, nil, err
		}
		return g, func() {
			if err := g.Close(); err != nil {
				slog.Warn("Unable to close gemini client", "err", err)
			}
		}, nil
	case "openai":
		o, err := openai.New(cfg.OpenAIAPIKey)
		if err != nil {
			return nil, nil, err
		}
		return o, func() {}, nil
	case "ollama":
		return ollama.New(cfg.OllamaURL, nil), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}
