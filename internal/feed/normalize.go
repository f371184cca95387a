package feed

import (
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
)

const maxSummaryChars = 1400

// Normalize converts one parsed feed entry into an Item. Tags and the
// priority score are derived afterwards (see internal/rank); everything
// else is resolved here with explicit fallback orders so that repeated
// fetches of unchanged content produce identical identities.
func Normalize(desc Descriptor, entry *gofeed.Item, now time.Time) Item {
	title := strings.TrimSpace(entry.Title)
	url := resolveLink(entry)
	date := resolveDate(entry, now)

	id := strings.TrimSpace(entry.GUID)
	if id == "" {
		id = url
	}
	if id == "" {
		id = title + "|" + date.UTC().Format(time.RFC3339)
	}

	return Item{
		ID:      id,
		Title:   title,
		URL:     url,
		Date:    date,
		Topic:   desc.Topic,
		Source:  desc.Source,
		Summary: resolveSummary(entry),
		Tags:    []string{},
	}
}

// resolveLink probes the entry's link shapes in priority order: the
// direct link, the alternate-link list, any atom link extension, and
// finally an atom content src attribute. Returns "" when nothing
// resolves; an item without a canonical link is still acceptable.
func resolveLink(entry *gofeed.Item) string {
	if link := strings.TrimSpace(entry.Link); link != "" {
		return link
	}

	for _, link := range entry.Links {
		if link = strings.TrimSpace(link); link != "" {
			return link
		}
	}

	if atom, ok := entry.Extensions["atom"]; ok {
		if href := hrefFromExtensions(atom["link"]); href != "" {
			return href
		}
		for _, content := range atom["content"] {
			if src := strings.TrimSpace(content.Attrs["src"]); src != "" {
				return src
			}
		}
	}

	return ""
}

func hrefFromExtensions(links []ext.Extension) string {
	first := ""
	for _, link := range links {
		href := strings.TrimSpace(link.Attrs["href"])
		if href == "" {
			continue
		}
		if link.Attrs["rel"] == "alternate" {
			return href
		}
		if first == "" {
			first = href
		}
	}
	return first
}

// resolveSummary tries description, inline content, then an explicit
// summary field; the first non-empty wins, stripped of markup and
// length-bounded.
func resolveSummary(entry *gofeed.Item) string {
	for _, raw := range []string{entry.Description, entry.Content, entry.Custom["summary"]} {
		if s := stripHTML(raw); s != "" {
			return s
		}
	}
	return ""
}

// resolveDate accepts any of the entry's timestamp fields; if none is
// parseable the current time is substituted. A bad upstream date is
// never an error, only a loss of recency.
func resolveDate(entry *gofeed.Item, now time.Time) time.Time {
	if entry.PublishedParsed != nil {
		return *entry.PublishedParsed
	}
	if entry.UpdatedParsed != nil {
		return *entry.UpdatedParsed
	}
	if entry.DublinCoreExt != nil {
		for _, raw := range entry.DublinCoreExt.Date {
			if t, err := parseTimestamp(raw); err == nil {
				return t
			}
		}
	}
	return now
}

var timestampLayouts = []string{
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02",
}

func parseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

var htmlStripper = bluemonday.StrictPolicy()

func stripHTML(s string) string {
	s = htmlStripper.Sanitize(s)
	s = html.UnescapeString(s)
	s = strings.Join(strings.Fields(s), " ")

	if runes := []rune(s); len(runes) > maxSummaryChars {
		s = string(runes[:maxSummaryChars])
	}

	return s
}
