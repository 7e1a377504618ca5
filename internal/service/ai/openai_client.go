package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/zhouzirui/eunoia/backend/internal/config"
)

// OpenAIClient talks to any OpenAI-compatible chat completions endpoint (Groq by default).
type OpenAIClient struct {
	client      openai.Client
	model       string
	temperature float64
}

var _ Completer = (*OpenAIClient)(nil)

func NewOpenAIClient(cfg config.AIConfig) *OpenAIClient {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		// One attempt per request; failures fall through to the default reply.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIClient{
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userMessage),
		},
		Temperature: openai.Float(c.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	content := completion.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyCompletion
	}
	return content, nil
}
