// Package types holds the core data model shared across the harvesting
// pipeline: comments, search requests, and result sets.
package types

import (
	"strings"
	"time"
)

// Sentiment is a naive keyword-based classification of a comment body.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// FilterMode selects how a search request filters harvested comments.
type FilterMode string

const (
	FilterAll     FilterMode = "all"
	FilterKeyword FilterMode = "keyword"
	FilterChannel FilterMode = "channel"
	FilterAuthor  FilterMode = "author"
)

// SortCriterion selects the ordering of the final result set.
type SortCriterion string

const (
	SortRelevance SortCriterion = "relevance"
	SortUpvotes   SortCriterion = "upvotes"
	SortRecency   SortCriterion = "recency"
	SortAwards    SortCriterion = "awards"
)

// Comment is a single normalized comment harvested from the content API.
// MatchScore and Score are filled in by the ranking engine; a comment is
// immutable after ranking.
type Comment struct {
	ID            string    `json:"id"`
	Author        string    `json:"author"`
	Body          string    `json:"body"`
	SourceChannel string    `json:"source_channel"`
	Upvotes       int       `json:"upvotes"`
	Awards        int       `json:"awards"`
	CreatedUTC    time.Time `json:"created_utc"`
	Permalink     string    `json:"permalink,omitempty"`
	Sentiment     Sentiment `json:"sentiment"`
	MatchScore    float64   `json:"match_score,omitempty"`
	Score         float64   `json:"score,omitempty"`
}

// SearchRequest is an immutable description of what to harvest. Together
// with a page number it identifies one cache partition.
type SearchRequest struct {
	Query      string        `json:"query"`
	Mode       FilterMode    `json:"mode"`
	TimeWindow string        `json:"time_window"`
	SortBy     SortCriterion `json:"sort_by"`
	MinUpvotes int           `json:"min_upvotes"`
	PageSize   int           `json:"page_size"`
}

// DefaultPageSize is used when a request does not specify one.
const DefaultPageSize = 20

// Normalized returns a copy with whitespace collapsed and zero-value
// fields replaced by their defaults, so that equivalent requests derive
// the same cache key.
func (r SearchRequest) Normalized() SearchRequest {
	r.Query = strings.Join(strings.Fields(r.Query), " ")
	if r.Mode == "" {
		r.Mode = FilterAll
	}
	if r.SortBy == "" {
		r.SortBy = SortRelevance
	}
	if r.TimeWindow == "" {
		r.TimeWindow = "week"
	}
	if r.PageSize <= 0 {
		r.PageSize = DefaultPageSize
	}
	return r
}

// ResultSet is what the search entry point returns to its caller.
type ResultSet struct {
	Comments     []Comment `json:"comments"`
	TotalResults int       `json:"total_results"`
	SourceCount  int       `json:"source_count"`
	CacheSize    int       `json:"cache_size"`
}
