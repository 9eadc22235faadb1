// Package extract flattens the nested reply trees returned by the content
// API into normalized Comment records.
package extract

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Aditya73singh/rcai/internal/reddit"
	"github.com/Aditya73singh/rcai/internal/types"
)

// DefaultDepthLimit caps tree traversal; nodes nested deeper are dropped.
const DefaultDepthLimit = 10

const deletedSentinel = "[deleted]"
const removedSentinel = "[removed]"

// frame is one pending node in the traversal worklist.
type frame struct {
	node  reddit.Thing
	depth int
}

// Flatten walks a comment tree iteratively (explicit stack rather than
// recursion, so a hostile thread depth cannot grow the call stack) and
// returns the surviving nodes as normalized comments in tree order.
// Nodes at or beyond maxDepth are silently dropped, subtrees included.
func Flatten(children []reddit.Thing, channel, postID string, maxDepth int) []types.Comment {
	if maxDepth <= 0 {
		maxDepth = DefaultDepthLimit
	}

	stack := make([]frame, 0, len(children))
	for i := len(children) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: children[i]})
	}

	var out []types.Comment
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.depth >= maxDepth {
			continue
		}
		if f.node.Kind != reddit.KindComment {
			continue
		}

		var node reddit.CommentNode
		if err := json.Unmarshal(f.node.Data, &node); err != nil {
			continue
		}

		// Replies survive even when the node itself is a deletion stub.
		if replies := childListing(node.Replies); len(replies) > 0 {
			for i := len(replies) - 1; i >= 0; i-- {
				stack = append(stack, frame{node: replies[i], depth: f.depth + 1})
			}
		}

		if node.Body == "" || node.Body == deletedSentinel || node.Body == removedSentinel ||
			node.Author == deletedSentinel {
			continue
		}

		out = append(out, Normalize(node, channel, postID))
	}
	return out
}

// childListing decodes the raw replies field, which is either an empty
// string or a Listing Thing.
func childListing(raw json.RawMessage) []reddit.Thing {
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}
	var thing reddit.Thing
	if err := json.Unmarshal(raw, &thing); err != nil || thing.Kind != reddit.KindListing {
		return nil
	}
	var listing reddit.Listing
	if err := json.Unmarshal(thing.Data, &listing); err != nil {
		return nil
	}
	return listing.Children
}

// Normalize converts one wire node into the pipeline's Comment record.
func Normalize(node reddit.CommentNode, channel, postID string) types.Comment {
	if node.Subreddit != "" {
		channel = node.Subreddit
	}
	return types.Comment{
		ID:            node.ID,
		Author:        node.Author,
		Body:          node.Body,
		SourceChannel: channel,
		Upvotes:       node.Ups,
		Awards:        node.TotalAwards,
		CreatedUTC:    time.Unix(int64(node.CreatedUTC), 0).UTC(),
		Permalink:     fmt.Sprintf("/%s/%s/%s", channel, postID, node.ID),
		Sentiment:     Sentiment(node.Body),
	}
}
