package posts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"larryfeed/internal/cache"
	"larryfeed/internal/feed"
	"larryfeed/internal/generate"
)

const defaultPostTTL = 12 * time.Hour

// Service owns the durable post cache and drives generation. Reads
// that fail degrade to a miss; writes that fail are logged and
// swallowed, the freshly generated post is still served and will be
// regenerated on the next miss.
type Service struct {
	store  cache.Store
	gen    generate.Generator
	logger *slog.Logger
	ttl    time.Duration
}

func NewService(store cache.Store, gen generate.Generator, ttl time.Duration, logger *slog.Logger) *Service {
	if ttl == 0 {
		ttl = defaultPostTTL
	}

	return &Service{
		store:  store,
		gen:    gen,
		logger: logger,
		ttl:    ttl,
	}
}

// Get reads a cached post. Store unavailability is treated as absent
// so the caller falls through to the regeneration path.
func (s *Service) Get(ctx context.Context, key string) (*Post, bool) {
	data, err := s.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			s.logger.Warn("post read failed", "key", key, "error", err)
		}
		return nil, false
	}

	var post Post
	if err := json.Unmarshal(data, &post); err != nil {
		s.logger.Warn("post decode failed", "key", key, "error", err)
		return nil, false
	}
	return &post, true
}

// Put writes a post under its key. A write failure is logged, not
// returned: serving the post beats persisting it.
func (s *Service) Put(ctx context.Context, key string, post *Post) {
	data, err := json.Marshal(post)
	if err != nil {
		s.logger.Warn("post encode failed", "key", key, "error", err)
		return
	}
	if err := s.store.Put(ctx, key, data, s.ttl); err != nil {
		s.logger.Warn("post write failed", "key", key, "error", err)
	}
}

// Ensure walks the ranked items in order and guarantees each one
// either contributes its cached post or, while the creation quota
// lasts, a freshly generated one. Cache hits never count against the
// quota; once it is exhausted remaining misses are skipped. A failed
// generation is logged and skipped without consuming a slot, so the
// next invocation's miss retries it. Items are processed sequentially;
// that ordering is what enforces the quota.
func (s *Service) Ensure(ctx context.Context, items []feed.Item, quota int) []Post {
	out := make([]Post, 0, len(items))
	created := 0

	for _, it := range items {
		key := Key(it)

		if cached, ok := s.Get(ctx, key); ok {
			out = append(out, *cached)
			continue
		}

		if created >= quota {
			continue
		}

		post, err := s.generate(ctx, it)
		if err != nil {
			s.logger.Error("post generation failed", "title", it.Title, "error", err)
			continue
		}

		s.Put(ctx, key, post)
		out = append(out, *post)
		created++
	}

	return out
}

// EnsureOne serves a single explicitly requested item, bypassing any
// quota: a miss always generates. This is the only path where a
// generation failure surfaces to the caller.
func (s *Service) EnsureOne(ctx context.Context, it feed.Item) (*Post, error) {
	key := Key(it)

	if cached, ok := s.Get(ctx, key); ok {
		return cached, nil
	}

	post, err := s.generate(ctx, it)
	if err != nil {
		return nil, fmt.Errorf("on-demand generation failed: %w", err)
	}

	s.Put(ctx, key, post)
	return post, nil
}

func (s *Service) generate(ctx context.Context, it feed.Item) (*Post, error) {
	html, err := s.gen.Generate(ctx, it)
	if err != nil {
		return nil, err
	}
	return &Post{HTML: html, Meta: NewMeta(it)}, nil
}
