package search

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Aditya73singh/rcai/internal/cache"
	"github.com/Aditya73singh/rcai/internal/types"
)

type fakeHarvester struct {
	calls    int
	comments []types.Comment
}

func (f *fakeHarvester) Harvest(ctx context.Context, req types.SearchRequest, page int) []types.Comment {
	f.calls++
	return f.comments
}

func comments(n int) []types.Comment {
	out := make([]types.Comment, n)
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := range out {
		out[i] = types.Comment{
			ID:            fmt.Sprintf("c%d", i),
			Author:        "author",
			Body:          "body",
			SourceChannel: fmt.Sprintf("ch%d", i%3),
			Upvotes:       i,
			CreatedUTC:    base,
		}
	}
	return out
}

func testService(h Harvester) *Service {
	return NewService(h, cache.New(time.Minute, 10), nil)
}

func TestSearchRejectsBadPage(t *testing.T) {
	svc := testService(&fakeHarvester{})
	if _, err := svc.Search(context.Background(), types.SearchRequest{}, 0); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest for page 0, got %v", err)
	}
}

func TestSearchRejectsUnknownEnums(t *testing.T) {
	svc := testService(&fakeHarvester{})
	tests := []types.SearchRequest{
		{Mode: "bogus"},
		{SortBy: "bogus"},
		{TimeWindow: "fortnight"},
		{MinUpvotes: -1},
		{PageSize: MaxPageSize + 1},
	}
	for _, req := range tests {
		if _, err := svc.Search(context.Background(), req, 1); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("request %+v: expected ErrInvalidRequest, got %v", req, err)
		}
	}
}

func TestSearchDefaultsApplied(t *testing.T) {
	h := &fakeHarvester{comments: comments(3)}
	svc := testService(h)

	res, err := svc.Search(context.Background(), types.SearchRequest{}, 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.TotalResults != 3 {
		t.Errorf("expected 3 total results, got %d", res.TotalResults)
	}
}

func TestSearchCachesPerRequestAndPage(t *testing.T) {
	h := &fakeHarvester{comments: comments(3)}
	svc := testService(h)
	req := types.SearchRequest{Query: "go"}

	if _, err := svc.Search(context.Background(), req, 1); err != nil {
		t.Fatalf("first search: %v", err)
	}
	if _, err := svc.Search(context.Background(), req, 1); err != nil {
		t.Fatalf("second search: %v", err)
	}
	if h.calls != 1 {
		t.Errorf("identical request should hit the cache, harvested %d times", h.calls)
	}

	if _, err := svc.Search(context.Background(), req, 2); err != nil {
		t.Fatalf("page 2 search: %v", err)
	}
	if h.calls != 2 {
		t.Errorf("new page should miss the cache, harvested %d times", h.calls)
	}
}

func TestSearchPagesResults(t *testing.T) {
	h := &fakeHarvester{comments: comments(30)}
	svc := testService(h)

	res, err := svc.Search(context.Background(), types.SearchRequest{PageSize: 5, SortBy: types.SortUpvotes}, 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Comments) != 5 {
		t.Errorf("expected 5 comments on page, got %d", len(res.Comments))
	}
	if res.TotalResults != 30 {
		t.Errorf("expected 30 total results, got %d", res.TotalResults)
	}
	if res.Comments[0].Upvotes != 29 {
		t.Errorf("expected highest upvotes first, got %d", res.Comments[0].Upvotes)
	}
	if res.CacheSize != 1 {
		t.Errorf("expected cache size 1, got %d", res.CacheSize)
	}
}

func TestSearchCountsDistinctChannels(t *testing.T) {
	h := &fakeHarvester{comments: comments(6)} // channels ch0..ch2
	svc := testService(h)

	res, err := svc.Search(context.Background(), types.SearchRequest{}, 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.SourceCount != 3 {
		t.Errorf("expected 3 distinct channels, got %d", res.SourceCount)
	}
}

func TestSearchNeverErrorsOnEmptyHarvest(t *testing.T) {
	svc := testService(&fakeHarvester{})
	res, err := svc.Search(context.Background(), types.SearchRequest{Query: "nothing matches"}, 1)
	if err != nil {
		t.Fatalf("Search should absorb empty harvests, got %v", err)
	}
	if res.TotalResults != 0 {
		t.Errorf("expected empty result set, got %d", res.TotalResults)
	}
}
