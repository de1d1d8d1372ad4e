package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/aiready/internal/store"
)

// NewProvider builds the configured backend and wraps it so that callers
// go through retry, then event logging, then the backend. It returns
// (nil, nil) when no provider is configured.
func NewProvider(ctx context.Context, cfg Config, repo store.EventRepo, log *zap.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case "":
		return nil, nil
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		base = NewEchoProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	if repo != nil {
		base = WithLogging(base, cfg.Provider, repo, log)
	}
	return WithRetry(base, cfg.Retry, log), nil
}
