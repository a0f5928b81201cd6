package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"petcare-ai/pkg/config"

	"go.uber.org/zap"
)

// GenerationParams are the sampling settings passed with every model call.
type GenerationParams struct {
	Temperature float32
	TopK        float32
	TopP        float32
	MaxTokens   int32
}

// ParamsFromConfig copies generation settings from configuration.
func ParamsFromConfig(cfg *config.ModelConfig) GenerationParams {
	return GenerationParams{
		Temperature: cfg.Temperature,
		TopK:        cfg.TopK,
		TopP:        cfg.TopP,
		MaxTokens:   cfg.MaxTokens,
	}
}

// ModelClient is a text-in/text-out generative model. Every failure it
// returns matches ErrModelUnavailable.
type ModelClient interface {
	Generate(ctx context.Context, prompt string, params GenerationParams) (string, error)
	Name() string
	Close() error
}

// NewModelClient builds the client for the configured provider. It returns a
// nil client and nil error when no provider is configured.
func NewModelClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ModelClient, error) {
	switch cfg.Model.Provider {
	case config.ModelProviderGemini:
		return NewGeminiClient(ctx, &cfg.Gemini, logger)
	case config.ModelProviderGigaChat:
		return NewGigaChatClient(ctx, &cfg.GigaChat, logger)
	case config.ModelProviderNone, "":
		logger.Warn("No model provider configured, answers come from local knowledge only")
		return nil, nil
	}
	return nil, fmt.Errorf("unknown model provider %q", cfg.Model.Provider)
}

var rateLimitMarkers = []string{"429", "resource_exhausted", "rate limit", "too many requests", "quota"}

// classifyModelError maps a provider error onto ErrModelUnavailable or
// ErrModelRateLimited, keeping the original message.
func classifyModelError(provider string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrModelUnavailable) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %s: %v", ErrModelUnavailable, provider, err)
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range rateLimitMarkers {
		if strings.Contains(msg, marker) {
			return fmt.Errorf("%w: %s: %v", ErrModelRateLimited, provider, err)
		}
	}
	return fmt.Errorf("%w: %s: %v", ErrModelUnavailable, provider, err)
}
