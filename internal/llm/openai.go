package llm

import (
	"context"
	"fmt"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIClient implements Client using the official openai-go SDK (chat completions).
type OpenAIClient struct {
	opts []option.RequestOption
}

// NewOpenAIClient creates a new OpenAI client.
func NewOpenAIClient(apiKey string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	return &OpenAIClient{
		opts: []option.RequestOption{option.WithAPIKey(apiKey)},
	}, nil
}

// Generate produces text via the chat completions API.
// The session identifier is forwarded as the request's user field so that
// separate attempts are not correlated as one conversation.
func (c *OpenAIClient) Generate(ctx context.Context, session, model, system, user string) (string, error) {
	client := openai.NewClient(c.opts...)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		User: openai.String(session),
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}

// Provider returns ProviderOpenAI.
func (c *OpenAIClient) Provider() Provider {
	return ProviderOpenAI
}

// Close releases resources held by the client.
func (c *OpenAIClient) Close() error {
	return nil
}
