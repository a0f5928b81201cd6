package service

import (
	"context"
	"fmt"
	"strings"

	"petcare-ai/pkg/config"

	"github.com/Role1776/gigago"
	"go.uber.org/zap"
)

const gigaChatModel = "GigaChat"

// GigaChatClient calls Sber GigaChat through gigago.
type GigaChatClient struct {
	client *gigago.Client
	logger *zap.Logger
}

func NewGigaChatClient(ctx context.Context, cfg *config.GigaChatConfig, logger *zap.Logger) (*GigaChatClient, error) {
	opts := []gigago.Option{
		gigago.WithCustomScope(cfg.Scope),
	}
	if cfg.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(ctx, cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}

	logger.Info("Using GigaChat model")

	return &GigaChatClient{
		client: client,
		logger: logger,
	}, nil
}

func (c *GigaChatClient) Name() string {
	return gigaChatModel
}

func (c *GigaChatClient) Generate(ctx context.Context, prompt string, params GenerationParams) (string, error) {
	// A model is a mutable settings holder, so each call gets its own.
	model := c.client.GenerativeModel(gigaChatModel)
	setFloat(&model.Temperature, params.Temperature)

	messages := []gigago.Message{
		{Role: gigago.RoleUser, Content: prompt},
	}

	resp, err := model.Generate(ctx, messages)
	if err != nil {
		return "", classifyModelError("gigachat", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: gigachat: no choices in response", ErrModelUnavailable)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: gigachat: empty response", ErrModelUnavailable)
	}
	return text, nil
}

func (c *GigaChatClient) Close() error {
	if c.client != nil {
		c.client.Close()
	}
	return nil
}

func setFloat[T ~float32 | ~float64](dst *T, v float32) {
	*dst = T(v)
}
