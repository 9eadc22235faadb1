// Package reddit is the rate-limit-aware client for the content API. All
// requests carry a bearer token from the auth manager; 429 responses are
// retried with exponential waits and 401 responses force a token refresh.
package reddit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrRateLimited is returned once the retry budget for 429 responses is
// spent.
var ErrRateLimited = errors.New("reddit: rate limited")

const (
	maxAttempts    = 3
	requestTimeout = 15 * time.Second
)

// TokenSource supplies bearer tokens for outbound requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Invalidate()
}

type Client struct {
	baseURL    string
	userAgent  string
	tokens     TokenSource
	httpClient *http.Client
	log        *slog.Logger
	sleep      func(context.Context, time.Duration) error
}

func NewClient(baseURL, userAgent string, tokens TokenSource, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: requestTimeout},
		log:        log,
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

// get issues an authenticated GET and decodes the JSON body into v, with
// up to three attempts across rate-limit and auth-expiry responses.
func (c *Client) get(ctx context.Context, path string, query url.Values, v interface{}) error {
	rawURL := c.baseURL + path
	if len(query) > 0 {
		rawURL += "?" + query.Encode()
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("acquiring token: %w", err)
		}

		status, err := c.do(ctx, rawURL, token, v)
		if err != nil {
			return fmt.Errorf("fetching %s: %w", path, err)
		}

		switch status {
		case http.StatusOK:
			return nil
		case http.StatusTooManyRequests:
			if attempt == maxAttempts {
				return ErrRateLimited
			}
			wait := time.Duration(1<<uint(attempt)) * time.Second
			c.log.Warn("rate limited", "path", path, "attempt", attempt, "wait", wait)
			if err := c.sleep(ctx, wait); err != nil {
				return err
			}
		case http.StatusUnauthorized:
			if attempt == maxAttempts {
				return fmt.Errorf("fetching %s: unauthorized after %d attempts", path, attempt)
			}
			c.log.Warn("token rejected, refreshing", "path", path)
			c.tokens.Invalidate()
		default:
			return fmt.Errorf("fetching %s: unexpected status %d", path, status)
		}
	}
	return ErrRateLimited
}

func (c *Client) do(ctx context.Context, rawURL, token string, v interface{}) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return resp.StatusCode, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return 0, fmt.Errorf("decoding response: %w", err)
	}
	return resp.StatusCode, nil
}

// ListPosts fetches one page of top-level posts from a channel under the
// given sort strategy. The time window parameter only applies to "top".
func (c *Client) ListPosts(ctx context.Context, channel, sort, window string, limit int) ([]Post, error) {
	query := url.Values{"limit": {strconv.Itoa(limit)}}
	if sort == "top" && window != "" {
		query.Set("t", window)
	}

	var listing Thing
	if err := c.get(ctx, fmt.Sprintf("/r/%s/%s", channel, sort), query, &listing); err != nil {
		return nil, err
	}

	var data Listing
	if err := json.Unmarshal(listing.Data, &data); err != nil {
		return nil, fmt.Errorf("decoding %s listing: %w", channel, err)
	}

	posts := make([]Post, 0, len(data.Children))
	for _, child := range data.Children {
		if child.Kind != KindPost {
			continue
		}
		var p Post
		if err := json.Unmarshal(child.Data, &p); err != nil {
			continue
		}
		posts = append(posts, p)
	}
	return posts, nil
}

// CommentTree fetches the nested comment tree of one post. The response is
// a two-element array: the post listing followed by the comment listing;
// only the latter's children are returned.
func (c *Client) CommentTree(ctx context.Context, channel, postID, sort string, limit int) ([]Thing, error) {
	query := url.Values{
		"sort":  {sort},
		"limit": {strconv.Itoa(limit)},
	}

	var listings []Thing
	if err := c.get(ctx, fmt.Sprintf("/r/%s/comments/%s", channel, postID), query, &listings); err != nil {
		return nil, err
	}
	if len(listings) < 2 {
		return nil, nil
	}

	var data Listing
	if err := json.Unmarshal(listings[1].Data, &data); err != nil {
		return nil, fmt.Errorf("decoding comment tree for %s: %w", postID, err)
	}
	return data.Children, nil
}

// SearchComments issues a direct comment search across all channels.
func (c *Client) SearchComments(ctx context.Context, queryText string, limit int) ([]CommentNode, error) {
	query := url.Values{
		"q":     {queryText},
		"type":  {"comment"},
		"limit": {strconv.Itoa(limit)},
	}

	var listing Thing
	if err := c.get(ctx, "/search", query, &listing); err != nil {
		return nil, err
	}

	var data Listing
	if err := json.Unmarshal(listing.Data, &data); err != nil {
		return nil, fmt.Errorf("decoding search listing: %w", err)
	}

	nodes := make([]CommentNode, 0, len(data.Children))
	for _, child := range data.Children {
		if child.Kind != KindComment {
			continue
		}
		var n CommentNode
		if err := json.Unmarshal(child.Data, &n); err != nil {
			continue
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}
