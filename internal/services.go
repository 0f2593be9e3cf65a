package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/starford/vibecard/internal/cardservice"
	"github.com/starford/vibecard/internal/message"
)

// NewLogger returns the JSON logger every entry point uses.
func NewLogger(cfg *Config, w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
}

// NewProvider builds the message provider selected by cfg. The returned
// prompts are the live set the provider renders from; callers may watch
// cfg.PromptsPath to keep them current.
func NewProvider(ctx context.Context, cfg ProviderConfig, logger *slog.Logger) (message.Provider, *message.Prompts, error) {
	prompts := message.DefaultPrompts()
	if cfg.PromptsPath != "" {
		p, err := message.LoadPrompts(cfg.PromptsPath)
		if err != nil {
			return nil, nil, fmt.Errorf("load prompts: %w", err)
		}
		prompts = p
	}

	switch cfg.Mode {
	case ProviderModeGenAI:
		g, err := message.NewGenAI(ctx, message.GenAIConfig{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			TopK:        cfg.TopK,
			TopP:        cfg.TopP,
			Fallback:    cfg.FallbackMessage,
			Prompts:     prompts,
			Logger:      logger,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("init provider: %w", err)
		}
		return g, prompts, nil
	default:
		return message.Static{Message: cfg.FallbackMessage}, prompts, nil
	}
}

// NewCardService wires the provider and share link base into a card service.
func NewCardService(ctx context.Context, cfg *Config, logger *slog.Logger) (*cardservice.Service, *message.Prompts, error) {
	provider, prompts, err := NewProvider(ctx, cfg.Provider, logger)
	if err != nil {
		return nil, nil, err
	}
	return cardservice.NewService(provider, cfg.Share.BaseURL, logger), prompts, nil
}
