// Package search is the single entry point over the harvesting pipeline:
// validate the request, consult the memo cache, and fall through to
// harvest + rank on a miss.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Aditya73singh/rcai/internal/cache"
	"github.com/Aditya73singh/rcai/internal/rank"
	"github.com/Aditya73singh/rcai/internal/types"
)

// ErrInvalidRequest marks a structurally malformed request. It is the
// only error Search returns; upstream failures degrade internally.
var ErrInvalidRequest = errors.New("search: invalid request")

// MaxPageSize bounds how many comments one page may request.
const MaxPageSize = 100

// Harvester produces the raw working set for a request.
type Harvester interface {
	Harvest(ctx context.Context, req types.SearchRequest, page int) []types.Comment
}

type Service struct {
	harvester Harvester
	cache     *cache.Cache
	log       *slog.Logger
	now       func() time.Time
}

func NewService(h Harvester, c *cache.Cache, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{harvester: h, cache: c, log: log, now: time.Now}
}

// Search returns the ranked, paginated result set for a request. Repeated
// identical requests within the cache TTL never reach the network.
func (s *Service) Search(ctx context.Context, req types.SearchRequest, page int) (types.ResultSet, error) {
	if page < 1 {
		return types.ResultSet{}, fmt.Errorf("%w: page must be >= 1, got %d", ErrInvalidRequest, page)
	}
	req = req.Normalized()
	if err := validate(req); err != nil {
		return types.ResultSet{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	key := cache.Key(req, page)
	ranked, hit := s.cache.Get(key)
	if !hit {
		raw := s.harvester.Harvest(ctx, req, page)
		ranked = rank.Rank(raw, req, s.now())
		s.cache.Put(key, ranked)
		s.log.Debug("harvested", "query", req.Query, "page", page,
			"raw", len(raw), "ranked", len(ranked))
	}

	pageComments := ranked
	if len(pageComments) > req.PageSize {
		pageComments = pageComments[:req.PageSize]
	}

	return types.ResultSet{
		Comments:     pageComments,
		TotalResults: len(ranked),
		SourceCount:  countChannels(pageComments),
		CacheSize:    s.cache.Len(),
	}, nil
}

func validate(req types.SearchRequest) error {
	switch req.Mode {
	case types.FilterAll, types.FilterKeyword, types.FilterChannel, types.FilterAuthor:
	default:
		return fmt.Errorf("unknown filter mode %q", req.Mode)
	}
	switch req.SortBy {
	case types.SortRelevance, types.SortUpvotes, types.SortRecency, types.SortAwards:
	default:
		return fmt.Errorf("unknown sort criterion %q", req.SortBy)
	}
	switch req.TimeWindow {
	case "hour", "day", "week", "month", "year", "all":
	default:
		return fmt.Errorf("unknown time window %q", req.TimeWindow)
	}
	if req.MinUpvotes < 0 {
		return fmt.Errorf("min upvotes must not be negative")
	}
	if req.PageSize > MaxPageSize {
		return fmt.Errorf("page size must be <= %d", MaxPageSize)
	}
	return nil
}

func countChannels(comments []types.Comment) int {
	seen := make(map[string]bool, len(comments))
	for _, c := range comments {
		seen[c.SourceChannel] = true
	}
	return len(seen)
}
