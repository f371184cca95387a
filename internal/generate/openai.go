package generate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"larryfeed/internal/feed"
)

const defaultOpenAIModel = "gpt-4o-mini"

type openAIGenerator struct {
	llm    *openai.LLM
	enrich bool
	logger *slog.Logger
}

func newOpenAIGenerator(cfg Config, logger *slog.Logger) (*openAIGenerator, error) {
	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	opts := []openai.Option{openai.WithModel(model)}
	if cfg.APIKey != "" {
		opts = append(opts, openai.WithToken(cfg.APIKey))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai client: %w", err)
	}

	return &openAIGenerator{llm: llm, enrich: cfg.Enrich, logger: logger}, nil
}

func (g *openAIGenerator) Generate(ctx context.Context, it feed.Item) (string, error) {
	excerpt := it.Summary
	if g.enrich {
		excerpt = enrichedExcerpt(ctx, it, g.logger)
	}

	out, err := llms.GenerateFromSinglePrompt(ctx, g.llm, buildPrompt(it, excerpt),
		llms.WithTemperature(0.6),
		llms.WithMaxTokens(1200),
	)
	if err != nil {
		return "", fmt.Errorf("openai generation failed: %w", err)
	}

	return EnsureHTML(out, it), nil
}
