package server

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"github.com/microcosm-cc/bluemonday"

	"larryfeed/internal/posts"
	"larryfeed/internal/rank"
)

const excerptChars = 220

type listEntry struct {
	posts.Meta
	Excerpt string `json:"excerpt"`
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	lists := s.fetcher.FetchAll(r.Context(), s.descs)
	ranked := rank.Rank(lists)

	generated := s.posts.Ensure(r.Context(), ranked, s.cfg.ListQuota)

	list := make([]listEntry, 0, len(generated))
	for _, p := range generated {
		list = append(list, listEntry{Meta: p.Meta, Excerpt: excerpt(p.HTML)})
	}

	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing slug"})
		return
	}

	lists := s.fetcher.FetchAll(r.Context(), s.descs)
	ranked := rank.Rank(lists)

	it, found := posts.Find(ranked, slug)
	if !found {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}

	post, err := s.posts.EnsureOne(r.Context(), it)
	if err != nil {
		s.logger.Error("on-demand post generation failed", "slug", slug, "error", err)
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "post generation failed"})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, post.HTML)
}

func (s *Server) handleRSSFeed(w http.ResponseWriter, r *http.Request) {
	lists := s.fetcher.FetchAll(r.Context(), s.descs)
	ranked := rank.Rank(lists)

	items := make([]*feeds.Item, 0, len(ranked))
	for _, it := range ranked {
		items = append(items, &feeds.Item{
			Id:          it.ID,
			Title:       it.Title,
			Link:        &feeds.Link{Href: it.URL},
			Description: it.Summary,
			Author:      &feeds.Author{Name: it.Source},
			Created:     it.Date,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Created.After(items[j].Created)
	})

	out := &feeds.Feed{
		Title:       "LarryFeed",
		Link:        &feeds.Link{Href: "http://localhost:" + s.cfg.Port + "/feed.rss"},
		Description: "Ranked aggregation of the configured feeds",
		Created:     time.Now().UTC(),
		Items:       items,
	}

	rss, err := out.ToRss()
	if err != nil {
		s.logger.Error("rss render failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	fmt.Fprint(w, rss)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status":"ok","time":"%s"}`, time.Now().UTC().Format(time.RFC3339))
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, "LarryFeed OK")
}

var excerptStripper = bluemonday.StrictPolicy()

func excerpt(html string) string {
	text := excerptStripper.Sanitize(html)
	text = strings.Join(strings.Fields(text), " ")
	if runes := []rune(text); len(runes) > excerptChars {
		text = string(runes[:excerptChars])
	}
	return text + "…"
}
