package feed

import "time"

// Descriptor is the static configuration for one upstream feed.
type Descriptor struct {
	URL    string
	Topic  string
	Source string
}

// Item is a normalized feed entry. Items are built fresh on every
// successful fetch and never mutated afterwards; a newer fetch of the
// same feed supersedes earlier items with the same ID wholesale.
type Item struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	URL           string    `json:"url"`
	Date          time.Time `json:"date"`
	Topic         string    `json:"topic"`
	Source        string    `json:"source"`
	Summary       string    `json:"summary"`
	Tags          []string  `json:"tags"`
	PriorityScore float64   `json:"priorityScore"`
}

// DedupKey is the identity used when merging items across feeds:
// the canonical URL when one resolved, the item ID otherwise.
func (it Item) DedupKey() string {
	if it.URL != "" {
		return it.URL
	}
	return it.ID
}
