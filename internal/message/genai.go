package message

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/starford/vibecard/internal/models"
)

// Generation defaults.
const (
	DefaultModel       = "gemini-3-flash-preview"
	DefaultTemperature = 0.95
	DefaultTopK        = 64
	DefaultTopP        = 0.9
)

// EmptyResponseMessage stands in when the model answers with no text.
const EmptyResponseMessage = "Another year of being absolutely legendary."

// contentGenerator is the slice of *genai.Models the provider needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GenAIConfig configures the Gemini-backed provider.
type GenAIConfig struct {
	APIKey      string
	Model       string
	Temperature float32
	TopK        float32
	TopP        float32
	// Fallback replaces the package Fallback when non-empty.
	Fallback string
	Prompts  *Prompts
	Logger   *slog.Logger
}

// GenAI generates messages with Google's Gemini API.
type GenAI struct {
	models   contentGenerator
	model    string
	config   *genai.GenerateContentConfig
	fallback string
	prompts  *Prompts
	logger   *slog.Logger
}

// NewGenAI creates a Gemini-backed provider.
func NewGenAI(ctx context.Context, cfg GenAIConfig) (*GenAI, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("message: GenAI API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("message: create GenAI client: %w", err)
	}
	return newGenAI(client.Models, cfg), nil
}

func newGenAI(gen contentGenerator, cfg GenAIConfig) *GenAI {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.TopK == 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.TopP == 0 {
		cfg.TopP = DefaultTopP
	}
	if cfg.Fallback == "" {
		cfg.Fallback = Fallback
	}
	if cfg.Prompts == nil {
		cfg.Prompts = DefaultPrompts()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &GenAI{
		models: gen,
		model:  cfg.Model,
		config: &genai.GenerateContentConfig{
			Temperature: genai.Ptr(cfg.Temperature),
			TopK:        genai.Ptr(cfg.TopK),
			TopP:        genai.Ptr(cfg.TopP),
		},
		fallback: cfg.Fallback,
		prompts:  cfg.Prompts,
		logger:   cfg.Logger,
	}
}

// Generate asks the model for a message. A failed call yields the fallback;
// a call that succeeds with nothing usable yields EmptyResponseMessage.
func (g *GenAI) Generate(ctx context.Context, vibe models.Vibe, recipient string) string {
	prompt, err := g.prompts.Render(vibe, recipient)
	if err != nil {
		g.logger.Warn("message: prompt render failed", slog.String("vibe", vibe.String()), slog.String("error", err.Error()))
		return g.fallback
	}

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), g.config)
	if err != nil {
		g.logger.Warn("message: generation failed", slog.String("vibe", vibe.String()), slog.String("error", err.Error()))
		return g.fallback
	}
	if resp == nil {
		return g.fallback
	}

	text := strings.TrimSpace(unquote(strings.TrimSpace(resp.Text())))
	if text == "" {
		g.logger.Warn("message: empty generation", slog.String("vibe", vibe.String()))
		return EmptyResponseMessage
	}
	return text
}

// unquote drops one leading and one trailing quote mark, single or double.
func unquote(s string) string {
	if s != "" && (s[0] == '"' || s[0] == '\'') {
		s = s[1:]
	}
	if n := len(s); n > 0 && (s[n-1] == '"' || s[n-1] == '\'') {
		s = s[:n-1]
	}
	return s
}
