package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"larryfeed/internal/cache"
	"larryfeed/internal/feed"
	"larryfeed/internal/rank"
)

// MaxItemsPerFeed caps how many entries of one feed are normalized.
const MaxItemsPerFeed = 25

const defaultItemTTL = 30 * time.Minute

// Fetcher retrieves feeds with ETag revalidation and keeps the
// normalized item lists in the shared store. Fetch never returns an
// error: every failure degrades to the last cached list or an empty
// one, so a single broken feed cannot block the others.
type Fetcher struct {
	client  *http.Client
	store   cache.Store
	parser  *gofeed.Parser
	logger  *slog.Logger
	itemTTL time.Duration
}

type Config struct {
	ItemTTL time.Duration
	Timeout time.Duration
}

func New(store cache.Store, cfg Config, logger *slog.Logger) *Fetcher {
	if cfg.ItemTTL == 0 {
		cfg.ItemTTL = defaultItemTTL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 20 * time.Second
	}

	return &Fetcher{
		client:  &http.Client{Timeout: cfg.Timeout},
		store:   store,
		parser:  gofeed.NewParser(),
		logger:  logger,
		itemTTL: cfg.ItemTTL,
	}
}

// FetchAll retrieves every feed concurrently and joins the results in
// descriptor order. Per-feed failures are captured inside Fetch, never
// propagated, so one feed cannot cancel its siblings.
func (f *Fetcher) FetchAll(ctx context.Context, descs []feed.Descriptor) [][]feed.Item {
	results := make([][]feed.Item, len(descs))

	var wg sync.WaitGroup
	for i, desc := range descs {
		wg.Add(1)
		go func(i int, d feed.Descriptor) {
			defer wg.Done()
			results[i] = f.Fetch(ctx, d)
		}(i, desc)
	}
	wg.Wait()

	return results
}

// Fetch retrieves one feed. It issues a conditional GET with the stored
// revalidation token; a 304 returns the cached normalized list
// verbatim, any failure falls back to the cached list or an empty one,
// and a fresh body is parsed, normalized, scored and persisted together
// with the new token.
func (f *Fetcher) Fetch(ctx context.Context, desc feed.Descriptor) []feed.Item {
	etagKey := cache.ETagKey(desc.URL)
	itemsKey := cache.ItemsKey(desc.URL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, desc.URL, nil)
	if err != nil {
		f.logger.Error("feed request build failed", "url", desc.URL, "error", err)
		return f.cachedItems(ctx, itemsKey)
	}

	if etag, err := f.store.Get(ctx, etagKey); err == nil && len(etag) > 0 {
		req.Header.Set("If-None-Match", string(etag))
	}

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Error("feed fetch failed", "url", desc.URL, "error", err)
		return f.cachedItems(ctx, itemsKey)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		return f.cachedItems(ctx, itemsKey)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		f.logger.Warn("feed fetch non-success", "url", desc.URL, "status", resp.StatusCode)
		return f.cachedItems(ctx, itemsKey)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		f.logger.Error("feed body read failed", "url", desc.URL, "error", err)
		return f.cachedItems(ctx, itemsKey)
	}

	if etag := resp.Header.Get("ETag"); etag != "" {
		if err := f.store.Put(ctx, etagKey, []byte(etag), f.itemTTL); err != nil {
			f.logger.Warn("etag store failed", "url", desc.URL, "error", err)
		}
	}

	parsed, err := f.parser.ParseString(string(body))
	if err != nil {
		f.logger.Error("feed parse failed", "url", desc.URL, "error", err)
		return f.cachedItems(ctx, itemsKey)
	}

	items := f.normalize(desc, parsed)

	if data, err := json.Marshal(items); err == nil {
		if err := f.store.Put(ctx, itemsKey, data, f.itemTTL); err != nil {
			f.logger.Warn("item list store failed", "url", desc.URL, "error", err)
		}
	}

	f.logger.Debug("feed refreshed", "url", desc.URL, "items", len(items))
	return items
}

func (f *Fetcher) normalize(desc feed.Descriptor, parsed *gofeed.Feed) []feed.Item {
	now := time.Now()

	entries := parsed.Items
	if len(entries) > MaxItemsPerFeed {
		entries = entries[:MaxItemsPerFeed]
	}

	items := make([]feed.Item, 0, len(entries))
	for _, entry := range entries {
		it := feed.Normalize(desc, entry, now)
		if strings.TrimSpace(it.Title) == "" {
			continue
		}
		it.Tags = rank.AutoTags(it)
		it.PriorityScore = rank.PriorityScore(it, now)
		items = append(items, it)
	}
	return items
}

// cachedItems reads the last persisted list for a feed. A miss or a
// store failure degrades to an empty list, not an error.
func (f *Fetcher) cachedItems(ctx context.Context, key string) []feed.Item {
	data, err := f.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			f.logger.Warn("cached items read failed", "key", key, "error", err)
		}
		return []feed.Item{}
	}

	var items []feed.Item
	if err := json.Unmarshal(data, &items); err != nil {
		f.logger.Warn("cached items decode failed", "key", key, "error", err)
		return []feed.Item{}
	}
	return items
}
