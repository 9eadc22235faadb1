package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/Aditya73singh/rcai/internal/types"
)

func TestRelAge(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{49 * time.Hour, "2d ago"},
	}
	for _, tt := range tests {
		if got := relAge(tt.d); got != tt.want {
			t.Errorf("relAge(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
	}{
		{"short", 10, "short"},
		{"this is a long string", 10, "this is..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"", 5, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.input, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
		}
	}
}

func TestCollapse(t *testing.T) {
	if got := collapse("a\n  b\t c"); got != "a b c" {
		t.Errorf("collapse = %q", got)
	}
}

func TestRenderResultsEmpty(t *testing.T) {
	out := renderResults(types.ResultSet{}, types.SearchRequest{Query: "x"}, 1)
	if !strings.Contains(out, "0 result(s)") {
		t.Errorf("expected empty header, got %q", out)
	}
	if !strings.Contains(out, "Nothing matched") {
		t.Errorf("expected empty-state hint, got %q", out)
	}
}

func TestRenderResultsListsComments(t *testing.T) {
	res := types.ResultSet{
		Comments: []types.Comment{{
			ID:            "c1",
			Author:        "alice",
			Body:          "some   body text",
			SourceChannel: "golang",
			Upvotes:       12,
			CreatedUTC:    time.Now().Add(-2 * time.Hour),
			Permalink:     "/golang/p1/c1",
			Sentiment:     types.SentimentPositive,
		}},
		TotalResults: 1,
		SourceCount:  1,
	}
	out := renderResults(res, types.SearchRequest{Query: "go"}, 1)
	for _, want := range []string{"golang", "alice", "some body text", "/golang/p1/c1", "12 pts"} {
		if !strings.Contains(out, want) {
			t.Errorf("render output missing %q:\n%s", want, out)
		}
	}
}
