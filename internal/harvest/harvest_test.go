package harvest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/Aditya73singh/rcai/internal/reddit"
	"github.com/Aditya73singh/rcai/internal/types"
)

type fakeAPI struct {
	mu          sync.Mutex
	listCalls   []string
	treeCalls   []string
	searchCalls int

	posts       map[string][]reddit.Post  // channel -> posts
	trees       map[string][]reddit.Thing // post id -> tree
	searchNodes []reddit.CommentNode
	err         error
}

func (f *fakeAPI) ListPosts(ctx context.Context, channel, sort, window string, limit int) ([]reddit.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls = append(f.listCalls, channel+"/"+sort)
	if f.err != nil {
		return nil, f.err
	}
	return f.posts[channel], nil
}

func (f *fakeAPI) CommentTree(ctx context.Context, channel, postID, sort string, limit int) ([]reddit.Thing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.treeCalls = append(f.treeCalls, postID)
	if f.err != nil {
		return nil, f.err
	}
	return f.trees[postID], nil
}

func (f *fakeAPI) SearchComments(ctx context.Context, query string, limit int) ([]reddit.CommentNode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.searchNodes, nil
}

func commentThing(t *testing.T, id, body string) reddit.Thing {
	t.Helper()
	data, _ := json.Marshal(map[string]interface{}{
		"id": id, "author": "u_" + id, "body": body,
		"ups": 1, "created_utc": 1700000000, "replies": "",
	})
	return reddit.Thing{Kind: reddit.KindComment, Data: data}
}

func testHarvester(api API) (*Harvester, *int) {
	h := New(api, Options{Budget: time.Minute}, nil)
	sleeps := 0
	h.sleep = func(context.Context, time.Duration) error { sleeps++; return nil }
	h.intn = func(n int) int { return 0 }
	return h, &sleeps
}

func request(query string, mode types.FilterMode) types.SearchRequest {
	return types.SearchRequest{Query: query, Mode: mode, PageSize: 10}.Normalized()
}

func TestSelectSourcesChannelMode(t *testing.T) {
	got := selectSources(request("GoLang", types.FilterChannel), 1)
	want := []string{"golang"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("selectSources = %v, want %v", got, want)
	}
}

func TestSelectSourcesFirstPage(t *testing.T) {
	got := selectSources(request("best golang tips", types.FilterAll), 1)
	// "golang" overlaps the programming bucket's channel of the same name.
	want := []string{"all", "popular", "trending", "golang"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("selectSources = %v, want %v", got, want)
	}
}

func TestSelectSourcesLaterPages(t *testing.T) {
	got := selectSources(request("best golang tips", types.FilterAll), 2)
	want := []string{"all"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("selectSources = %v, want %v", got, want)
	}
}

func TestSelectSourcesOneChannelPerBucket(t *testing.T) {
	// The gaming bucket lists several channels; only the first match is
	// taken per bucket.
	got := selectSources(request("games", types.FilterAll), 1)
	want := []string{"all", "popular", "trending", "games"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("selectSources = %v, want %v", got, want)
	}
}

func TestTermsOverlapBothDirections(t *testing.T) {
	if !termsOverlap([]string{"gol"}, "golang") {
		t.Error("term as substring of channel should match")
	}
	if !termsOverlap([]string{"golanguage"}, "golang") {
		t.Error("channel as substring of term should match")
	}
	if termsOverlap([]string{"python"}, "golang") {
		t.Error("unrelated term should not match")
	}
}

func TestStrategiesFor(t *testing.T) {
	if got := strategiesFor("all"); len(got) != 4 {
		t.Errorf("catch-all should fan out 4 strategies, got %v", got)
	}
	if got := strategiesFor("golang"); len(got) != 2 {
		t.Errorf("named channel should fan out 2 strategies, got %v", got)
	}
}

func TestHarvestDeduplicatesAcrossPosts(t *testing.T) {
	api := &fakeAPI{
		posts: map[string][]reddit.Post{
			"golang": {{ID: "p1", Subreddit: "golang"}, {ID: "p2", Subreddit: "golang"}},
		},
		trees: map[string][]reddit.Thing{
			"p1": {commentThing(t, "c1", "one"), commentThing(t, "dup", "shared")},
			"p2": {commentThing(t, "dup", "shared"), commentThing(t, "c2", "two")},
		},
	}
	h, _ := testHarvester(api)

	out := h.Harvest(context.Background(), request("golang", types.FilterChannel), 1)
	seen := map[string]int{}
	for _, c := range out {
		seen[c.ID]++
	}
	if seen["dup"] != 1 {
		t.Errorf("duplicate id should appear once, got %d", seen["dup"])
	}
	if len(out) != 3 {
		t.Errorf("expected 3 unique comments, got %d", len(out))
	}
}

func TestHarvestChunksSequentially(t *testing.T) {
	posts := make([]reddit.Post, 7)
	trees := map[string][]reddit.Thing{}
	for i := range posts {
		id := fmt.Sprintf("p%d", i)
		posts[i] = reddit.Post{ID: id, Subreddit: "golang"}
		trees[id] = []reddit.Thing{commentThing(t, "c"+id, "body")}
	}
	api := &fakeAPI{posts: map[string][]reddit.Post{"golang": posts}, trees: trees}
	h, sleeps := testHarvester(api)

	out := h.Harvest(context.Background(), request("golang", types.FilterChannel), 1)
	if len(out) != 7 {
		t.Fatalf("expected 7 comments, got %d", len(out))
	}
	// 7 posts in chunks of 3 -> pauses after chunks 1 and 2 only.
	if *sleeps != 2 {
		t.Errorf("expected 2 politeness pauses, got %d", *sleeps)
	}
}

func TestHarvestFallbackOnTotalFailure(t *testing.T) {
	api := &fakeAPI{err: errors.New("upstream down")}
	h, _ := testHarvester(api)

	out := h.Harvest(context.Background(), request("golang", types.FilterAll), 1)
	if len(out) == 0 {
		t.Fatal("total failure should degrade to the fallback set, not empty")
	}
	for _, c := range out {
		if c.ID == "" {
			t.Error("fallback comments must carry ids")
		}
	}
}

func TestHarvestPartialFailureIsNotFallback(t *testing.T) {
	// Listings succeed but yield nothing harvestable; the supplementary
	// search returns one real comment.
	api := &fakeAPI{
		posts:       map[string][]reddit.Post{},
		searchNodes: []reddit.CommentNode{{ID: "s1", Author: "u", Body: "hit", Subreddit: "golang", LinkID: "t3_p9"}},
	}
	h, _ := testHarvester(api)

	out := h.Harvest(context.Background(), request("golang query", types.FilterAll), 1)
	if len(out) != 1 || out[0].ID != "s1" {
		t.Fatalf("expected the search hit only, got %+v", out)
	}
	if out[0].Permalink != "/golang/p9/s1" {
		t.Errorf("search hit permalink = %q", out[0].Permalink)
	}
}

func TestSupplementarySearchSkippedWhenEnoughCollected(t *testing.T) {
	trees := map[string][]reddit.Thing{"p1": {}}
	for i := 0; i < 4; i++ {
		trees["p1"] = append(trees["p1"], commentThing(t, fmt.Sprintf("c%d", i), "body"))
	}
	api := &fakeAPI{
		posts: map[string][]reddit.Post{"golang": {{ID: "p1", Subreddit: "golang"}}},
		trees: trees,
	}
	h, _ := testHarvester(api)

	req := request("query", types.FilterChannel)
	req.Query = "golang"
	req.PageSize = 2 // 2x limit = 4, exactly met
	h.Harvest(context.Background(), req, 1)

	if api.searchCalls != 0 {
		t.Errorf("supplementary search should be skipped, got %d calls", api.searchCalls)
	}
}

func TestSupplementarySearchTriggeredWhenShort(t *testing.T) {
	api := &fakeAPI{
		posts: map[string][]reddit.Post{"golang": {{ID: "p1", Subreddit: "golang"}}},
		trees: map[string][]reddit.Thing{"p1": {commentThing(t, "c1", "body")}},
	}
	h, _ := testHarvester(api)

	out := h.Harvest(context.Background(), request("golang", types.FilterChannel), 1)
	if api.searchCalls != 1 {
		t.Errorf("expected 1 supplementary search, got %d", api.searchCalls)
	}
	if len(out) != 1 {
		t.Errorf("expected 1 comment, got %d", len(out))
	}
}

func TestHarvestEmptyQuerySkipsSearch(t *testing.T) {
	api := &fakeAPI{posts: map[string][]reddit.Post{}}
	h, _ := testHarvester(api)

	h.Harvest(context.Background(), request("", types.FilterAll), 1)
	if api.searchCalls != 0 {
		t.Errorf("empty query should never hit direct search, got %d", api.searchCalls)
	}
}
