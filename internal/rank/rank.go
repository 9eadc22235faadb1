// Package rank scores harvested comments against a search request and
// sorts them by the caller's chosen criterion. Everything here is a pure
// function of its inputs plus the supplied clock.
package rank

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/Aditya73singh/rcai/internal/types"
)

// Tunable scoring weights. The log scale keeps runaway upvote counts from
// drowning out everything else; recency decays linearly to zero over a day.
const (
	upvoteWeight  = 2.0
	awardWeight   = 3.0
	matchWeight   = 5.0
	recencyMax    = 5.0
	recencyWindow = 24.0 // hours

	authorFactor  = 2
	channelFactor = 3
	phraseBonus   = 10
	// The exact-phrase bonus only applies to queries longer than this.
	phraseMinLen = 3
)

// Rank filters, scores, and sorts comments for a request. The input slice
// is not modified; returned comments carry MatchScore and Score.
func Rank(comments []types.Comment, req types.SearchRequest, now time.Time) []types.Comment {
	phrase := strings.ToLower(strings.TrimSpace(req.Query))
	terms := strings.Fields(phrase)
	// "all" and "keyword" modes filter on text match, but only when the
	// query actually has terms; an empty query keeps everything.
	textMatch := (req.Mode == types.FilterAll || req.Mode == types.FilterKeyword) && len(terms) > 0

	out := make([]types.Comment, 0, len(comments))
	for _, c := range comments {
		if c.Upvotes < req.MinUpvotes {
			continue
		}

		switch req.Mode {
		case types.FilterChannel:
			if !containsFold(c.SourceChannel, phrase) {
				continue
			}
		case types.FilterAuthor:
			if !containsFold(c.Author, phrase) {
				continue
			}
		}

		match := 0.0
		if len(terms) > 0 {
			match = float64(matchCount(c, terms, phrase))
		}
		if textMatch && match <= 0 {
			continue
		}

		score := baseScore(c, now)
		if textMatch {
			score += math.Log10(match+1) * matchWeight
		}

		c.MatchScore = match
		c.Score = score
		out = append(out, c)
	}

	sortComments(out, req.SortBy)
	return dedupe(out)
}

// matchCount sums per-term occurrence counts: 1x in the body, 2x in the
// author name, 3x in the channel name, plus a flat bonus when the whole
// query appears verbatim in the body.
func matchCount(c types.Comment, terms []string, phrase string) int {
	body := strings.ToLower(c.Body)
	author := strings.ToLower(c.Author)
	channel := strings.ToLower(c.SourceChannel)

	n := 0
	for _, t := range terms {
		n += strings.Count(body, t)
		n += authorFactor * strings.Count(author, t)
		n += channelFactor * strings.Count(channel, t)
	}
	if len(phrase) > phraseMinLen && strings.Contains(body, phrase) {
		n += phraseBonus
	}
	return n
}

// baseScore combines popularity, awards, and recency. Upvotes can be
// negative on the wire; they contribute nothing below zero.
func baseScore(c types.Comment, now time.Time) float64 {
	ups := c.Upvotes
	if ups < 0 {
		ups = 0
	}
	s := math.Log10(float64(ups)+1)*upvoteWeight + math.Log10(float64(c.Awards)+1)*awardWeight

	age := now.Sub(c.CreatedUTC).Hours()
	if age >= 0 && age < recencyWindow {
		s += recencyMax * (1 - age/recencyWindow)
	}
	return s
}

func sortComments(comments []types.Comment, by types.SortCriterion) {
	switch by {
	case types.SortUpvotes:
		sort.SliceStable(comments, func(i, j int) bool {
			return comments[i].Upvotes > comments[j].Upvotes
		})
	case types.SortRecency:
		sort.SliceStable(comments, func(i, j int) bool {
			return comments[i].CreatedUTC.After(comments[j].CreatedUTC)
		})
	case types.SortAwards:
		sort.SliceStable(comments, func(i, j int) bool {
			return comments[i].Awards > comments[j].Awards
		})
	default: // relevance
		sort.SliceStable(comments, func(i, j int) bool {
			return comments[i].Score > comments[j].Score
		})
	}
}

// dedupe removes residual duplicate ids, keeping the first (highest
// ranked) occurrence.
func dedupe(comments []types.Comment) []types.Comment {
	seen := make(map[string]bool, len(comments))
	out := comments[:0]
	for _, c := range comments {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		out = append(out, c)
	}
	return out
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
