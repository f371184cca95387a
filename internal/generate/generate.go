// Package generate produces the long-form article body for one item.
// Providers are interchangeable; every failure is a per-item failure
// that the orchestrator decides to log and skip.
package generate

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"regexp"
	"strings"

	"larryfeed/internal/feed"
)

// Generator turns one item into article HTML. Implementations may call
// out to an external model and are allowed to fail; callers treat a
// failure as "no article this time", never as fatal.
type Generator interface {
	Generate(ctx context.Context, it feed.Item) (string, error)
}

// Config selects and parameterizes a Generator.
type Config struct {
	Provider string
	Model    string
	APIKey   string
	Enrich   bool
}

// New builds the Generator named by cfg.Provider. An empty provider
// yields the static generator, which writes the article from the feed
// summary alone without any external call.
func New(cfg Config, logger *slog.Logger) (Generator, error) {
	switch cfg.Provider {
	case "", "static":
		return &StaticGenerator{}, nil
	case "openai":
		return newOpenAIGenerator(cfg, logger)
	case "ollama":
		return newOllamaGenerator(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported generation provider: %s", cfg.Provider)
	}
}

// StaticGenerator builds an article straight from the item metadata,
// used when no model is configured.
type StaticGenerator struct{}

func (g *StaticGenerator) Generate(ctx context.Context, it feed.Item) (string, error) {
	core := fmt.Sprintf("<h1>%s</h1><p>%s</p>", html.EscapeString(it.Title), html.EscapeString(it.Summary))
	return EnsureHTML(core, it), nil
}

func buildPrompt(it feed.Item, excerpt string) string {
	if max := 1500; len([]rune(excerpt)) > max {
		excerpt = string([]rune(excerpt)[:max])
	}

	return strings.Join([]string{
		"Écris un article clair, concis et structuré en français (350–700 mots) à partir de ces éléments.",
		"Public: génération X, ton direct, pas de flafla.",
		"Structure:",
		"- Un titre percutant (H1).",
		"- 2 à 4 intertitres (H2/H3) avec paragraphes courts.",
		"- 1 encadré \"À retenir\" (liste à puces).",
		"Contraintes: factuel, pas d'affirmations non sourcées, pas de jargon gratuit.",
		"Termine par un pied d'article avec la source fournie (lien).",
		"",
		"TITRE ORIGINE: " + it.Title,
		"LIEN: " + it.URL,
		"EXTRAIT: " + excerpt,
	}, "\n")
}

var htmlTagPattern = regexp.MustCompile(`(?is)</?[a-z][\s\S]*>`)

// EnsureHTML wraps a generated body in article markup, converting plain
// text to paragraphs when the model returned none, and appends the
// source attribution footer.
func EnsureHTML(body string, it feed.Item) string {
	core := body
	if !htmlTagPattern.MatchString(body) {
		core = fmt.Sprintf("<h1>%s</h1>\n<p>%s</p>",
			html.EscapeString(it.Title),
			strings.ReplaceAll(html.EscapeString(body), "\n", "</p><p>"))
	}
	return "<article>" + core + footer(it) + "</article>"
}

func footer(it feed.Item) string {
	return fmt.Sprintf(`
  <hr/>
  <div style="opacity:.8;font-size:.9em;margin-top:12px">
    Article généré par IA à partir d'un flux RSS.
    Source : <a href="%s" target="_blank" rel="nofollow">%s</a>.
  </div>`, it.URL, html.EscapeString(it.Source))
}
