package posts

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"larryfeed/internal/feed"
)

const maxSlugLen = 96

// Slugify turns a title into a stable URL slug: lowercase, diacritics
// folded away, runs of anything non-alphanumeric collapsed to a single
// dash.
func Slugify(s string) string {
	s = strings.ToLower(s)

	var b strings.Builder
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}

	slug := b.String()
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	slug = strings.Trim(slug, "-")

	if len(slug) > maxSlugLen {
		slug = strings.Trim(slug[:maxSlugLen], "-")
	}
	return slug
}

// Find resolves a requested identity against the ranked item set. A
// request may carry the title slug, the raw item ID, or a URL suffix.
func Find(items []feed.Item, slug string) (feed.Item, bool) {
	for _, it := range items {
		if it.ID == slug || Slugify(it.Title) == slug {
			return it, true
		}
		if it.URL != "" && strings.HasSuffix(it.URL, slug) {
			return it, true
		}
	}
	return feed.Item{}, false
}
