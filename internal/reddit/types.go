package reddit

import "encoding/json"

// Thing is the kind-discriminated envelope every API node arrives in.
// Kind is "Listing" for collections, "t1" for comments, "t3" for posts.
type Thing struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

const (
	KindListing = "Listing"
	KindComment = "t1"
	KindPost    = "t3"
)

// Listing is a page of Things.
type Listing struct {
	Children []Thing `json:"children"`
	After    string  `json:"after"`
}

// Post is a top-level content item that owns a comment tree.
type Post struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Subreddit   string  `json:"subreddit"`
	Author      string  `json:"author"`
	Ups         int     `json:"ups"`
	NumComments int     `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
	Permalink   string  `json:"permalink"`
}

// CommentNode is the payload of a "t1" Thing. Replies is either an empty
// string or a nested Listing Thing, so it stays raw until the extractor
// walks it.
type CommentNode struct {
	ID          string          `json:"id"`
	Author      string          `json:"author"`
	Body        string          `json:"body"`
	Subreddit   string          `json:"subreddit"`
	Ups         int             `json:"ups"`
	TotalAwards int             `json:"total_awards_received"`
	CreatedUTC  float64         `json:"created_utc"`
	LinkID      string          `json:"link_id"`
	Replies     json.RawMessage `json:"replies"`
}
