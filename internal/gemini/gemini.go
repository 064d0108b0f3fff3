package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/lehigh-university-libraries/bookmatch/internal/providers"
	"github.com/lehigh-university-libraries/bookmatch/internal/search"
)

const searchToolName = "search_book_info"

// Gemini is a provider for Google Gemini. The underlying client is created
// once and shared by every request.
type Gemini struct {
	client   *genai.Client
	searcher search.Searcher
}

// New returns a new Gemini provider. searcher backs the search tool offered
// to the model when a request enables search; it may be nil.
func New(ctx context.Context, apiKey string, searcher search.Searcher, opts ...option.ClientOption) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create new gemini client: %w", err)
	}

	return &Gemini{client: client, searcher: searcher}, nil
}

// Close releases the client connection.
func (g *Gemini) Close() error {
	return g.client.Close()
}

// SupportsSearch reports whether a search tool can be offered to the model.
func (g *Gemini) SupportsSearch() bool {
	return g.searcher != nil
}

// Generate sends the prompt to Gemini and returns the generated text.
func (g *Gemini) Generate(ctx context.Context, config providers.Config) (string, error) {
	model := g.client.GenerativeModel(config.Model)
	model.SetTemperature(float32(config.Temperature))

	if !config.EnableSearch || g.searcher == nil {
		resp, err := model.GenerateContent(ctx, genai.Text(config.Prompt))
		if err != nil {
			return "", fmt.Errorf("failed to generate content: %w", err)
		}
		return responseText(resp)
	}

	model.Tools = []*genai.Tool{searchTool()}
	return g.converse(ctx, model.StartChat(), config.Prompt)
}

// chatSession is the part of *genai.ChatSession used for tool rounds.
type chatSession interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// converse sends prompt and answers at most one search call.
func (g *Gemini) converse(ctx context.Context, session chatSession, prompt string) (string, error) {
	resp, err := session.SendMessage(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	call, ok := functionCall(resp)
	if !ok {
		return responseText(resp)
	}

	// One tool round only; the follow-up answer must be final.
	resp, err = session.SendMessage(ctx, genai.FunctionResponse{
		Name:     call.Name,
		Response: g.runSearch(ctx, call),
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate content after search: %w", err)
	}

	return responseText(resp)
}

func (g *Gemini) runSearch(ctx context.Context, call genai.FunctionCall) map[string]any {
	query := toolQuery(call)
	if query == "" {
		return map[string]any{"error": "missing query"}
	}

	slog.Info("Model requested book search", "query", query)
	snippets, err := g.searcher.Search(ctx, query)
	if err != nil {
		slog.Warn("Model search failed", "query", query, "err", err)
		return map[string]any{"error": "search unavailable"}
	}

	results := make([]string, 0, len(snippets))
	for _, s := range snippets {
		results = append(results, s.Text)
	}
	return map[string]any{"results": results}
}

func searchTool() *genai.Tool {
	return &genai.Tool{
		FunctionDeclarations: []*genai.FunctionDeclaration{{
			Name:        searchToolName,
			Description: "Search the web and book catalogs for a synopsis or description of a book. Use it when the supplied description is missing or too short.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"query": {
						Type:        genai.TypeString,
						Description: "Book title followed by the author name",
					},
				},
				Required: []string{"query"},
			},
		}},
	}
}

func functionCall(resp *genai.GenerateContentResponse) (genai.FunctionCall, bool) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return genai.FunctionCall{}, false
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if call, ok := part.(genai.FunctionCall); ok && call.Name == searchToolName {
			return call, true
		}
	}
	return genai.FunctionCall{}, false
}

func toolQuery(call genai.FunctionCall) string {
	q, _ := call.Args["query"].(string)
	return strings.TrimSpace(q)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("empty content returned from Gemini")
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("unexpected response format from Gemini")
	}

	return b.String(), nil
}
