package providers

import (
	"context"
	"errors"
)

// ErrInvocation marks a transport or backend failure while calling a
// generative backend. It is never retried.
var ErrInvocation = errors.New("model invocation failed")

// Config represents the configuration for a single generation request
type Config struct {
	Model       string
	Temperature float64
	Prompt      string
	// EnableSearch lets the backend look up book information on its own
	// while generating. Only set it when SupportsSearch is true.
	EnableSearch bool
}

// Provider defines the interface for an LLM provider
type Provider interface {
	Generate(ctx context.Context, config Config) (string, error)
}

// Searcher is implemented by providers that can look up book information
// themselves while generating.
type Searcher interface {
	SupportsSearch() bool
}

// SupportsSearch reports whether p honours Config.EnableSearch.
func SupportsSearch(p Provider) bool {
	s, ok := p.(Searcher)
	return ok && s.SupportsSearch()
}

// DefaultModel returns the model used when none is configured.
func DefaultModel(provider string) string {
	switch provider {
	case "gemini":
		return "gemini-1.5-pro"
	case "openai":
		return "gpt-4o"
	case "ollama":
		return "mistral-small3.2:24b"
	default:
		return ""
	}
}
