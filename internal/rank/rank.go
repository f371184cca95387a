package rank

import (
	"sort"

	"larryfeed/internal/feed"
)

// GlobalLimit caps the merged ranked set across all feeds.
const GlobalLimit = 100

// Rank flattens the per-feed item lists into one globally ranked
// sequence: duplicates (same URL, else same ID) collapse to the
// highest-scoring occurrence with ties keeping the first encountered,
// then everything sorts by score descending and is capped. The ranking
// is recomputed on every call; only the underlying raw-item lists are
// cached.
func Rank(lists [][]feed.Item) []feed.Item {
	var merged []feed.Item
	index := make(map[string]int)

	for _, list := range lists {
		for _, it := range list {
			key := it.DedupKey()
			if key == "" {
				continue
			}

			pos, seen := index[key]
			if !seen {
				index[key] = len(merged)
				merged = append(merged, it)
				continue
			}
			if it.PriorityScore > merged[pos].PriorityScore {
				merged[pos] = it
			}
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].PriorityScore > merged[j].PriorityScore
	})

	if len(merged) > GlobalLimit {
		merged = merged[:GlobalLimit]
	}
	return merged
}
