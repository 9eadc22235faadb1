package harvest

import (
	"sort"
	"strings"

	"github.com/Aditya73singh/rcai/internal/types"
)

// TopicChannels maps topic buckets to the channels harvested for them.
// A bucket matches a query when any query term is a substring of one of
// its channel names, or contains one.
var TopicChannels = map[string][]string{
	"finance":     {"finance", "investing", "stocks", "cryptocurrency"},
	"food":        {"food", "cooking", "recipes"},
	"gaming":      {"gaming", "games", "pcgaming"},
	"movies":      {"movies", "television", "music"},
	"programming": {"programming", "golang", "rust", "javascript", "python", "webdev"},
	"science":     {"science", "space", "askscience"},
	"sports":      {"sports", "soccer", "nba", "nfl"},
	"technology":  {"technology", "gadgets", "hardware", "apple", "android"},
}

// TopicNames returns the bucket names in canonical order.
func TopicNames() []string {
	names := make([]string, 0, len(TopicChannels))
	for name := range TopicChannels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// catchAllSource aggregates every channel; it gets the widest strategy
// spread during fan-out.
const catchAllSource = "all"

var pageOneExtras = []string{"popular", "trending"}

// selectSources picks the channels to harvest for a request. Channel mode
// targets exactly the named channel; otherwise the catch-all plus, on the
// first page only, the discovery channels and one inferred channel per
// matching topic bucket.
func selectSources(req types.SearchRequest, page int) []string {
	query := strings.ToLower(strings.TrimSpace(req.Query))

	if req.Mode == types.FilterChannel && query != "" {
		return []string{query}
	}

	sources := []string{catchAllSource}
	if page == 1 {
		sources = append(sources, pageOneExtras...)
		sources = append(sources, topicSources(query)...)
	}
	return dedupeStrings(sources)
}

// topicSources returns at most one channel per topic bucket whose channel
// names overlap the query terms.
func topicSources(query string) []string {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return nil
	}

	var out []string
	for _, topic := range TopicNames() {
		for _, channel := range TopicChannels[topic] {
			if termsOverlap(terms, channel) {
				out = append(out, channel)
				break
			}
		}
	}
	return out
}

func termsOverlap(terms []string, channel string) bool {
	for _, t := range terms {
		if strings.Contains(channel, t) || strings.Contains(t, channel) {
			return true
		}
	}
	return false
}

// strategiesFor returns the post sort strategies fetched per source: the
// catch-all gets the full spread, named channels a cheaper pair.
func strategiesFor(source string) []string {
	if source == catchAllSource {
		return []string{"hot", "top", "new", "rising"}
	}
	return []string{"hot", "top"}
}

// commentSorts are the per-item strategies sampled at random to diversify
// which part of each tree gets fetched.
var commentSorts = []string{"confidence", "top", "new", "controversial"}

func dedupeStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
