package service

import (
	"context"
	"fmt"
	"strings"

	"petcare-ai/pkg/config"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiClient calls the Gemini generateContent API.
type GeminiClient struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

func NewGeminiClient(ctx context.Context, cfg *config.GeminiConfig, logger *zap.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	logger.Info("Using Gemini model", zap.String("model", cfg.Model))

	return &GeminiClient{
		client: client,
		model:  cfg.Model,
		logger: logger,
	}, nil
}

func (c *GeminiClient) Name() string {
	return c.model
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string, params GenerationParams) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(params.Temperature),
		MaxOutputTokens: params.MaxTokens,
	}
	if params.TopK > 0 {
		genCfg.TopK = genai.Ptr(params.TopK)
	}
	if params.TopP > 0 {
		genCfg.TopP = genai.Ptr(params.TopP)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, genCfg)
	if err != nil {
		return "", classifyModelError("gemini", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: gemini: empty response", ErrModelUnavailable)
	}

	c.logger.Debug("Gemini response received",
		zap.String("model", c.model),
		zap.Int("text_length", len(text)),
	)
	return text, nil
}

// Close releases nothing; the genai client holds no long-lived connections
// that need explicit shutdown.
func (c *GeminiClient) Close() error {
	return nil
}
