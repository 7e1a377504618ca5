package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/zhouzirui/eunoia/backend/internal/config"
)

// ChainClient runs the prompt through an eino chain (template -> chat model).
type ChainClient struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

var _ Completer = (*ChainClient)(nil)

// NewChainClient builds the chain on top of the configured Ark model.
func NewChainClient(ctx context.Context, cfg config.AIConfig) (*ChainClient, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return NewChainClientWithModel(ctx, chatModel)
}

// NewChainClientWithModel compiles the chain around an existing chat model.
func NewChainClientWithModel(ctx context.Context, chatModel model.ChatModel) (*ChainClient, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}
	return &ChainClient{chain: runnable}, nil
}

func (c *ChainClient) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	msg, err := c.chain.Invoke(ctx, map[string]any{
		"system": systemPrompt,
		"query":  userMessage,
	})
	if err != nil {
		return "", fmt.Errorf("failed to run AI chain: %w", err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return "", ErrEmptyCompletion
	}
	return msg.Content, nil
}
