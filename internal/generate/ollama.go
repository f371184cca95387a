package generate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ollama/ollama/api"

	"larryfeed/internal/feed"
)

type ollamaGenerator struct {
	client *api.Client
	model  string
	enrich bool
	logger *slog.Logger
}

func newOllamaGenerator(cfg Config, logger *slog.Logger) (*ollamaGenerator, error) {
	client, err := api.ClientFromEnvironment()
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}

	if cfg.Model == "" {
		return nil, fmt.Errorf("ollama provider requires a model")
	}

	return &ollamaGenerator{client: client, model: cfg.Model, enrich: cfg.Enrich, logger: logger}, nil
}

func (g *ollamaGenerator) Generate(ctx context.Context, it feed.Item) (string, error) {
	excerpt := it.Summary
	if g.enrich {
		excerpt = enrichedExcerpt(ctx, it, g.logger)
	}

	req := &api.GenerateRequest{
		Model:  g.model,
		Prompt: buildPrompt(it, excerpt),
		Stream: new(bool),
	}

	var body string
	respFunc := func(resp api.GenerateResponse) error {
		if resp.Done {
			body = resp.Response
		}
		return nil
	}

	if err := g.client.Generate(ctx, req, respFunc); err != nil {
		return "", fmt.Errorf("ollama generation failed: %w", err)
	}

	return EnsureHTML(body, it), nil
}
