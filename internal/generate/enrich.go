package generate

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-shiori/go-readability"

	"larryfeed/internal/feed"
)

var enrichClient = &http.Client{Timeout: 30 * time.Second}

// enrichedExcerpt fetches the item's linked page and extracts its
// readable text for the prompt. Any failure degrades to the feed
// summary; enrichment is best-effort.
func enrichedExcerpt(ctx context.Context, it feed.Item, logger *slog.Logger) string {
	text, err := articleText(ctx, it.URL)
	if err != nil {
		logger.Debug("article text extraction failed, using summary", "url", it.URL, "error", err)
		return it.Summary
	}
	return text
}

func articleText(ctx context.Context, rawURL string) (string, error) {
	if rawURL == "" {
		return "", fmt.Errorf("URL is empty")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("URL missing scheme or host")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:146.0) Gecko/20100101 Firefox/146.0")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := enrichClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch page: %s", resp.Status)
	}

	article, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}

	return article.TextContent, nil
}
