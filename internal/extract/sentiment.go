package extract

import (
	"strings"

	"github.com/Aditya73singh/rcai/internal/types"
)

// Fixed keyword sets for the sentiment heuristic. This is a crude
// substring test, not a claim of accuracy: it exists so callers can group
// results roughly by tone. Positive wins over negative when both match.
var (
	PositiveWords = []string{
		"great", "good", "love", "awesome", "excellent",
		"amazing", "best", "nice", "perfect", "happy",
	}
	NegativeWords = []string{
		"bad", "awful", "hate", "terrible", "worst",
		"sucks", "horrible", "poor", "sad", "angry",
	}
)

// Sentiment classifies a comment body against the fixed keyword sets,
// first match wins, defaulting to neutral.
func Sentiment(body string) types.Sentiment {
	lower := strings.ToLower(body)
	for _, w := range PositiveWords {
		if strings.Contains(lower, w) {
			return types.SentimentPositive
		}
	}
	for _, w := range NegativeWords {
		if strings.Contains(lower, w) {
			return types.SentimentNegative
		}
	}
	return types.SentimentNeutral
}
