package posts

import (
	"time"

	"larryfeed/internal/feed"
)

// Meta is the display metadata of a generated post.
type Meta struct {
	ID     string    `json:"id"`
	Slug   string    `json:"slug"`
	Title  string    `json:"title"`
	Date   time.Time `json:"date"`
	Topic  string    `json:"topic"`
	Source string    `json:"source"`
	URL    string    `json:"url"`
	Tags   []string  `json:"tags"`
}

// Post is a generated long-form article. Once written under a key it
// is immutable for that key's lifetime; expiry (TTL) is the only path
// out, and a regeneration under the same key overwrites wholesale.
type Post struct {
	HTML string `json:"html"`
	Meta Meta   `json:"meta"`
}

// NewMeta derives a post's display metadata from its source item.
func NewMeta(it feed.Item) Meta {
	tags := it.Tags
	if tags == nil {
		tags = []string{}
	}

	return Meta{
		ID:     it.ID,
		Slug:   Slugify(it.Title),
		Title:  it.Title,
		Date:   it.Date,
		Topic:  it.Topic,
		Source: it.Source,
		URL:    it.URL,
		Tags:   tags,
	}
}
