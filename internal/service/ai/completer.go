package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/zhouzirui/eunoia/backend/internal/config"
)

// ErrEmptyCompletion is returned when the provider answers without any content.
var ErrEmptyCompletion = errors.New("ai: empty completion")

// Completer sends one system+user exchange to a chat model and returns the raw text.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// NewCompleter picks the provider named in cfg.
// It returns (nil, nil) when the provider has no usable credentials; callers then run offline.
func NewCompleter(ctx context.Context, cfg config.AIConfig) (Completer, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	switch cfg.Provider {
	case config.ProviderArk:
		client, err := NewChainClient(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("init ark completer: %w", err)
		}
		return client, nil
	case config.ProviderOpenAI, "":
		return NewOpenAIClient(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported ai provider %q", cfg.Provider)
	}
}
