package posts

import (
	"strings"
	"testing"

	"larryfeed/internal/feed"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"Économie française: l'été", "economie-francaise-l-ete"},
		{"  spaces   everywhere  ", "spaces-everywhere"},
		{"already-a-slug", "already-a-slug"},
		{"Symbols !@# removed?", "symbols-removed"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSlugifyCapped(t *testing.T) {
	got := Slugify(strings.Repeat("very long title ", 20))
	if len(got) > maxSlugLen {
		t.Errorf("slug exceeds cap: %d chars", len(got))
	}
	if strings.HasSuffix(got, "-") {
		t.Errorf("truncated slug must not end with a dash: %q", got)
	}
}

func TestFind(t *testing.T) {
	items := []feed.Item{
		{ID: "id-1", Title: "First Post", URL: "https://example.com/posts/first"},
		{ID: "id-2", Title: "Second Post", URL: "https://example.com/posts/second"},
	}

	tests := []struct {
		name   string
		slug   string
		wantID string
		found  bool
	}{
		{"by title slug", "second-post", "id-2", true},
		{"by raw id", "id-1", "id-1", true},
		{"by url suffix", "posts/first", "id-1", true},
		{"unknown", "nope", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it, found := Find(items, tt.slug)
			if found != tt.found {
				t.Fatalf("found = %v, want %v", found, tt.found)
			}
			if found && it.ID != tt.wantID {
				t.Errorf("got item %q, want %q", it.ID, tt.wantID)
			}
		})
	}
}
