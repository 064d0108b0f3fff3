package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/lehigh-university-libraries/bookmatch/internal/providers"
)

// OpenAI is a provider for OpenAI chat completions
type OpenAI struct {
	client openai.Client
}

// New returns a new OpenAI provider. The SDK's own retries are disabled.
func New(apiKey string, opts ...option.RequestOption) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	opts = append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)

	return &OpenAI{client: openai.NewClient(opts...)}, nil
}

// Generate sends the prompt as a single user message and returns the reply
func (o *OpenAI) Generate(ctx context.Context, config providers.Config) (string, error) {
	completion, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(config.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(config.Prompt),
		},
		Temperature: openai.Float(config.Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("failed to call OpenAI API: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from OpenAI")
	}

	return completion.Choices[0].Message.Content, nil
}
