package feed

import (
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
)

var testDesc = Descriptor{URL: "https://example.com/rss", Topic: "Tech", Source: "Example"}

func TestNormalizeIDPriority(t *testing.T) {
	now := time.Now()
	published := now.Add(-2 * time.Hour)

	tests := []struct {
		name  string
		entry *gofeed.Item
		want  string
	}{
		{
			name:  "guid wins",
			entry: &gofeed.Item{Title: "T", GUID: "guid-1", Link: "https://example.com/a", PublishedParsed: &published},
			want:  "guid-1",
		},
		{
			name:  "link when no guid",
			entry: &gofeed.Item{Title: "T", Link: "https://example.com/a", PublishedParsed: &published},
			want:  "https://example.com/a",
		},
		{
			name:  "title and date composite as last resort",
			entry: &gofeed.Item{Title: "T", PublishedParsed: &published},
			want:  "T|" + published.UTC().Format(time.RFC3339),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := Normalize(testDesc, tt.entry, now)
			if it.ID != tt.want {
				t.Errorf("got id %q, want %q", it.ID, tt.want)
			}
		})
	}
}

func TestNormalizeIDStableAcrossFetches(t *testing.T) {
	now := time.Now()
	published := now.Add(-2 * time.Hour)
	entry := &gofeed.Item{Title: "Stable", GUID: "guid-42", Link: "https://example.com/a", PublishedParsed: &published}

	first := Normalize(testDesc, entry, now)
	second := Normalize(testDesc, entry, now.Add(10*time.Minute))
	if first.ID != second.ID {
		t.Errorf("id churned across fetches: %q vs %q", first.ID, second.ID)
	}
}

func TestNormalizeLinkFallsBackToLinksList(t *testing.T) {
	now := time.Now()
	entry := &gofeed.Item{Title: "T", Links: []string{"", "https://example.com/alt"}}

	it := Normalize(testDesc, entry, now)
	if it.URL != "https://example.com/alt" {
		t.Errorf("got url %q", it.URL)
	}
}

func TestNormalizeEmptyLinkAccepted(t *testing.T) {
	now := time.Now()
	entry := &gofeed.Item{Title: "Only a title"}

	it := Normalize(testDesc, entry, now)
	if it.URL != "" {
		t.Errorf("expected empty url, got %q", it.URL)
	}
	if it.ID == "" {
		t.Error("an item with a title must still get an identity")
	}
}

func TestNormalizeSummaryOrder(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		entry *gofeed.Item
		want  string
	}{
		{
			name:  "description first",
			entry: &gofeed.Item{Title: "T", Description: "<p>desc</p>", Content: "content"},
			want:  "desc",
		},
		{
			name:  "content when description empty",
			entry: &gofeed.Item{Title: "T", Content: "<b>content</b>"},
			want:  "content",
		},
		{
			name:  "custom summary as last resort",
			entry: &gofeed.Item{Title: "T", Custom: map[string]string{"summary": "the summary"}},
			want:  "the summary",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := Normalize(testDesc, tt.entry, now)
			if it.Summary != tt.want {
				t.Errorf("got summary %q, want %q", it.Summary, tt.want)
			}
		})
	}
}

func TestNormalizeSummaryStrippedAndBounded(t *testing.T) {
	now := time.Now()
	entry := &gofeed.Item{
		Title:       "T",
		Description: "<div>lots   of\n\n<em>whitespace</em> here " + strings.Repeat("word ", 500) + "</div>",
	}

	it := Normalize(testDesc, entry, now)
	if strings.Contains(it.Summary, "<") {
		t.Error("summary must be stripped of markup")
	}
	if strings.Contains(it.Summary, "  ") {
		t.Error("whitespace must be collapsed")
	}
	if len([]rune(it.Summary)) > maxSummaryChars {
		t.Errorf("summary exceeds bound: %d runes", len([]rune(it.Summary)))
	}
}

func TestNormalizeUnparseableDateDefaultsToNow(t *testing.T) {
	now := time.Now()
	entry := &gofeed.Item{Title: "T", Published: "not a date at all"}

	it := Normalize(testDesc, entry, now)
	if !it.Date.Equal(now) {
		t.Errorf("unparseable date must default to the fetch time, got %v", it.Date)
	}
}

func TestNormalizeDatePriority(t *testing.T) {
	now := time.Now()
	published := now.Add(-3 * time.Hour)
	updated := now.Add(-1 * time.Hour)

	entry := &gofeed.Item{Title: "T", PublishedParsed: &published, UpdatedParsed: &updated}
	if it := Normalize(testDesc, entry, now); !it.Date.Equal(published) {
		t.Errorf("published must win over updated, got %v", it.Date)
	}

	entry = &gofeed.Item{Title: "T", UpdatedParsed: &updated}
	if it := Normalize(testDesc, entry, now); !it.Date.Equal(updated) {
		t.Errorf("updated is the fallback, got %v", it.Date)
	}
}

func TestNormalizeCarriesFeedMetadata(t *testing.T) {
	now := time.Now()
	it := Normalize(testDesc, &gofeed.Item{Title: "T"}, now)

	if it.Topic != "Tech" || it.Source != "Example" {
		t.Errorf("feed metadata lost: topic=%q source=%q", it.Topic, it.Source)
	}
}

func TestDedupKey(t *testing.T) {
	withURL := Item{ID: "id-1", URL: "https://example.com/a"}
	if withURL.DedupKey() != "https://example.com/a" {
		t.Error("url must win as dedup key")
	}

	withoutURL := Item{ID: "id-1"}
	if withoutURL.DedupKey() != "id-1" {
		t.Error("id is the fallback dedup key")
	}
}
