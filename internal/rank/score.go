package rank

import (
	"math"
	"regexp"
	"slices"
	"time"

	"larryfeed/internal/feed"
)

const maxTags = 6

// TagPatterns maps a tag to the patterns that trigger it against an
// item's title, summary and source. The tables are replaceable config
// data, not load-bearing logic; matching order is the table order.
var TagPatterns = []struct {
	Tag      string
	Patterns []*regexp.Regexp
}{
	{"IA", []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bAI\b|\bIA\b|artificial intelligence|machine learning|\bLLM\b|GPT|Anthropic|DeepMind`),
	}},
	{"Crypto", []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bbitcoin\b|\bethereum\b|\bBTC\b|\bETH\b|blockchain|on.?chain`),
	}},
	{"Macro", []*regexp.Regexp{
		regexp.MustCompile(`(?i)\binflation\b`),
		regexp.MustCompile(`(?i)\binterest rates?\b`),
		regexp.MustCompile(`(?i)central bank`),
		regexp.MustCompile(`(?i)\bECB\b|\bFed\b`),
		regexp.MustCompile(`(?i)récession|recession`),
		regexp.MustCompile(`(?i)\bGDP\b|\bPIB\b`),
		regexp.MustCompile(`(?i)\bgrowth\b|croissance`),
	}},
	{"Tech", []*regexp.Regexp{
		regexp.MustCompile(`(?i)startup|software|hardware|semiconductor|nvidia|apple|google|microsoft|security|vulnerability`),
	}},
	{"Philo", []*regexp.Regexp{
		regexp.MustCompile(`(?i)ethic|épistémologie|philos|existential|rational`),
	}},
}

var hotPattern = regexp.MustCompile(`(?i)breakthrough|exclusive|leak|security|vulnerability|ban|merger|acquisition|earnings`)

// SourceWeights boosts or dampens scores per source; unlisted sources
// weigh 1.0.
var SourceWeights = map[string]float64{
	"Reuters":         1.2,
	"BBC News":        1.1,
	"AP Top":          1.05,
	"OpenAI Blog":     1.15,
	"Anthropic":       1.1,
	"Google DeepMind": 1.1,
	"Hacker News":     1.0,
	"TechCrunch":      1.0,
	"The Verge":       1.0,
	"LessWrong":       1.0,
	"Aeon":            1.0,
}

// AutoTags derives topic tags for an item. Every matching table entry
// is included, the item's own topic is appended if missing, and the
// result is deduplicated and capped.
func AutoTags(it feed.Item) []string {
	hay := it.Title + "\n" + it.Summary + "\n" + it.Source

	out := make([]string, 0, maxTags)
	for _, entry := range TagPatterns {
		for _, re := range entry.Patterns {
			if re.MatchString(hay) {
				out = append(out, entry.Tag)
				break
			}
		}
	}

	if it.Topic != "" && !slices.Contains(out, it.Topic) {
		out = append(out, it.Topic)
	}

	out = slices.Compact(out)
	if len(out) > maxTags {
		out = out[:maxTags]
	}
	return out
}

// PriorityScore computes the item's ranking score at the given instant:
//
//	round3((0.6*recency + hotBonus + iaBonus) * sourceWeight)
//
// where recency decays linearly to zero over 24 hours. An unset date
// counts as zero elapsed hours, so a feed with broken timestamps still
// ranks rather than crashing or sinking.
func PriorityScore(it feed.Item, now time.Time) float64 {
	hours := 0.0
	if !it.Date.IsZero() {
		hours = math.Max(0, now.Sub(it.Date).Hours())
	}
	recency := math.Max(0, math.Min(1, 1-hours/24))

	hot := 0.0
	if hotPattern.MatchString(it.Title + " " + it.Summary) {
		hot = 0.2
	}

	iaBonus := 0.0
	if slices.Contains(it.Tags, "IA") {
		iaBonus = 0.1
	}

	weight, ok := SourceWeights[it.Source]
	if !ok {
		weight = 1.0
	}

	return round3((0.6*recency + hot + iaBonus) * weight)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
