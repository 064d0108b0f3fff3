// Package config reads service settings from the environment. A .env file
// is loaded by the root command before Load runs.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/lehigh-university-libraries/bookmatch/internal/analysis"
	"github.com/lehigh-university-libraries/bookmatch/internal/enrichment"
	"github.com/lehigh-university-libraries/bookmatch/internal/prompt"
	"github.com/lehigh-university-libraries/bookmatch/internal/providers"
	"github.com/lehigh-university-libraries/bookmatch/internal/sanitize"
)

// Config holds everything needed to build the analysis service.
type Config struct {
	Port string

	Provider    string
	Model       string
	Temperature float64
	Template    string
	Enrichment  analysis.EnrichmentMode
	Strict      bool

	MinDescription int
	MaxDescription int

	CORSOrigins []string

	GeminiAPIKey string
	OpenAIAPIKey string
	OllamaURL    string

	BooksAPIKey    string
	SearchAPIKey   string
	SearchEngineID string
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getenv("PORT", "3001"),
		Provider:       strings.ToLower(getenv("BOOKMATCH_PROVIDER", "gemini")),
		Template:       getenv("BOOKMATCH_TEMPLATE", prompt.TemplateAnalysis),
		CORSOrigins:    splitList(getenv("BOOKMATCH_CORS_ORIGINS", "*")),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		OllamaURL:      os.Getenv("OLLAMA_URL"),
		BooksAPIKey:    os.Getenv("GOOGLE_BOOKS_API_KEY"),
		SearchAPIKey:   os.Getenv("GOOGLE_SEARCH_API_KEY"),
		SearchEngineID: os.Getenv("GOOGLE_SEARCH_ENGINE_ID"),
	}

	if cfg.OllamaURL == "" {
		cfg.OllamaURL = os.Getenv("OLLAMA_HOST")
	}

	switch cfg.Provider {
	case "gemini", "openai", "ollama":
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}

	cfg.Model = getenv("BOOKMATCH_MODEL", providers.DefaultModel(cfg.Provider))

	if _, ok := prompt.Lookup(cfg.Template); !ok {
		return nil, fmt.Errorf("unknown template %q (available: %s)", cfg.Template, strings.Join(prompt.Names(), ", "))
	}

	var err error
	if cfg.Enrichment, err = analysis.ParseEnrichmentMode(getenv("BOOKMATCH_ENRICHMENT", string(analysis.EnrichResolver))); err != nil {
		return nil, err
	}
	if cfg.Temperature, err = parseFloat("BOOKMATCH_TEMPERATURE", 0.2); err != nil {
		return nil, err
	}
	if cfg.MinDescription, err = parseInt("BOOKMATCH_MIN_DESCRIPTION", enrichment.DefaultMinLength); err != nil {
		return nil, err
	}
	if cfg.MaxDescription, err = parseInt("BOOKMATCH_MAX_DESCRIPTION", sanitize.DefaultLimit); err != nil {
		return nil, err
	}
	if cfg.Strict, err = parseBool("BOOKMATCH_STRICT", true); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ServiceOptions converts the configuration into analysis options.
func (c *Config) ServiceOptions() analysis.Options {
	return analysis.Options{
		Provider:         c.Provider,
		Model:            c.Model,
		Temperature:      c.Temperature,
		DefaultTemplate:  c.Template,
		Enrichment:       c.Enrichment,
		DescriptionLimit: c.MaxDescription,
		Strict:           c.Strict,
	}
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func parseInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return n, nil
}

func parseBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
