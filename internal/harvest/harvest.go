// Package harvest orchestrates the fetch fan-out: it selects target
// channels for a request, pulls post listings across several sort
// strategies, walks each post's comment tree, and merges everything into
// one deduplicated working set under a wall-clock budget.
package harvest

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/Aditya73singh/rcai/internal/extract"
	"github.com/Aditya73singh/rcai/internal/reddit"
	"github.com/Aditya73singh/rcai/internal/types"
)

// API is the slice of the content client the harvester consumes.
type API interface {
	ListPosts(ctx context.Context, channel, sort, window string, limit int) ([]reddit.Post, error)
	CommentTree(ctx context.Context, channel, postID, sort string, limit int) ([]reddit.Thing, error)
	SearchComments(ctx context.Context, query string, limit int) ([]reddit.CommentNode, error)
}

type Harvester struct {
	api        API
	log        *slog.Logger
	budget     time.Duration
	chunkSize  int
	chunkDelay time.Duration
	depthLimit int

	// Injection points for tests.
	intn  func(n int) int
	sleep func(context.Context, time.Duration) error
}

type Options struct {
	Budget     time.Duration // wall-clock cap for one harvest
	ChunkSize  int           // concurrent comment fetches per chunk
	ChunkDelay time.Duration // politeness pause between chunks
	DepthLimit int           // comment tree depth cap
}

func New(api API, opts Options, log *slog.Logger) *Harvester {
	if log == nil {
		log = slog.Default()
	}
	if opts.Budget <= 0 {
		opts.Budget = 8 * time.Second
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 3
	}
	if opts.ChunkDelay < 0 {
		opts.ChunkDelay = 500 * time.Millisecond
	}
	if opts.DepthLimit <= 0 {
		opts.DepthLimit = extract.DefaultDepthLimit
	}
	return &Harvester{
		api:        api,
		log:        log,
		budget:     opts.Budget,
		chunkSize:  opts.ChunkSize,
		chunkDelay: opts.ChunkDelay,
		depthLimit: opts.DepthLimit,
		intn:       rand.Intn,
		sleep:      sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type postRef struct {
	channel string
	id      string
}

// Harvest collects comments for a request. It never fails: every
// per-source and per-item error is logged and contributes zero results,
// and a total outbound failure degrades to the fixed fallback set. The
// budget cancels in-flight requests rather than abandoning them.
func (h *Harvester) Harvest(ctx context.Context, req types.SearchRequest, page int) []types.Comment {
	ctx, cancel := context.WithTimeout(ctx, h.budget)
	defer cancel()

	req = req.Normalized()
	sources := selectSources(req, page)
	limit := req.PageSize

	posts, calls, failures := h.listPosts(ctx, sources, req.TimeWindow, limit)

	var (
		seen     = make(map[string]bool)
		comments []types.Comment
	)
	add := func(batch []types.Comment) {
		for _, c := range batch {
			if c.ID == "" || seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			comments = append(comments, c)
		}
	}

	commentBatches, treeFailures := h.fetchTrees(ctx, posts, limit)
	for _, batch := range commentBatches {
		add(batch)
	}
	calls += len(posts)
	failures += treeFailures

	// One direct search pass for precision when the fan-out came up short.
	if len(comments) < 2*limit && req.Query != "" && ctx.Err() == nil {
		nodes, err := h.api.SearchComments(ctx, req.Query, limit)
		calls++
		if err != nil {
			failures++
			h.log.Warn("supplementary search failed", "query", req.Query, "err", err)
		} else {
			batch := make([]types.Comment, 0, len(nodes))
			for _, n := range nodes {
				batch = append(batch, extract.Normalize(n, n.Subreddit, trimLinkID(n.LinkID)))
			}
			add(batch)
		}
	}

	if len(comments) == 0 && failures > 0 && failures == calls {
		h.log.Error("all outbound calls failed, serving fallback set",
			"calls", calls, "sources", len(sources))
		return fallbackComments()
	}
	return comments
}

// listPosts fans out one listing fetch per source and strategy, sized so
// the combined pull roughly matches the requested limit.
func (h *Harvester) listPosts(ctx context.Context, sources []string, window string, limit int) (posts []postRef, calls, failures int) {
	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		seen = make(map[string]bool)
	)

	for _, source := range sources {
		strategies := strategiesFor(source)
		perFetch := ceilDiv(limit, len(sources)*len(strategies))

		for _, strategy := range strategies {
			wg.Add(1)
			calls++
			go func(source, strategy string) {
				defer wg.Done()

				w := ""
				if strategy == "top" {
					w = window
				}
				list, err := h.api.ListPosts(ctx, source, strategy, w, perFetch)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					failures++
					h.log.Warn("listing failed", "channel", source, "sort", strategy, "err", err)
					return
				}
				for _, p := range list {
					if seen[p.ID] {
						continue
					}
					seen[p.ID] = true
					channel := p.Subreddit
					if channel == "" {
						channel = source
					}
					posts = append(posts, postRef{channel: channel, id: p.ID})
				}
			}(source, strategy)
		}
	}
	wg.Wait()
	return posts, calls, failures
}

// fetchTrees pulls comment trees in fixed-size chunks: fetches within a
// chunk run concurrently, chunks are sequential with a politeness pause
// between them. Each item gets a randomly sampled sort strategy.
func (h *Harvester) fetchTrees(ctx context.Context, posts []postRef, limit int) (batches [][]types.Comment, failures int) {
	var mu sync.Mutex

	for start := 0; start < len(posts); start += h.chunkSize {
		if ctx.Err() != nil {
			break
		}
		end := start + h.chunkSize
		if end > len(posts) {
			end = len(posts)
		}

		var wg sync.WaitGroup
		for _, p := range posts[start:end] {
			sort := commentSorts[h.intn(len(commentSorts))]
			wg.Add(1)
			go func(p postRef, sort string) {
				defer wg.Done()

				tree, err := h.api.CommentTree(ctx, p.channel, p.id, sort, limit)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					failures++
					h.log.Warn("comment fetch failed", "channel", p.channel, "post", p.id, "err", err)
					return
				}
				batches = append(batches, extract.Flatten(tree, p.channel, p.id, h.depthLimit))
			}(p, sort)
		}
		wg.Wait()

		if end < len(posts) {
			if err := h.sleep(ctx, h.chunkDelay); err != nil {
				break
			}
		}
	}
	return batches, failures
}

// trimLinkID strips the type prefix from a fullname like "t3_abc123".
func trimLinkID(linkID string) string {
	if len(linkID) > 3 && linkID[2] == '_' {
		return linkID[3:]
	}
	return linkID
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}
