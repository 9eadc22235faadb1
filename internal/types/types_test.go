package types

import "testing"

func TestNormalizedFillsDefaults(t *testing.T) {
	r := SearchRequest{}.Normalized()
	if r.Mode != FilterAll {
		t.Errorf("default mode = %q, want all", r.Mode)
	}
	if r.SortBy != SortRelevance {
		t.Errorf("default sort = %q, want relevance", r.SortBy)
	}
	if r.TimeWindow != "week" {
		t.Errorf("default window = %q, want week", r.TimeWindow)
	}
	if r.PageSize != DefaultPageSize {
		t.Errorf("default page size = %d, want %d", r.PageSize, DefaultPageSize)
	}
}

func TestNormalizedCollapsesWhitespace(t *testing.T) {
	r := SearchRequest{Query: "  rust \t  go  "}.Normalized()
	if r.Query != "rust go" {
		t.Errorf("query = %q, want %q", r.Query, "rust go")
	}
}

func TestNormalizedPreservesExplicitFields(t *testing.T) {
	r := SearchRequest{Mode: FilterAuthor, SortBy: SortAwards, TimeWindow: "day", PageSize: 7}.Normalized()
	if r.Mode != FilterAuthor || r.SortBy != SortAwards || r.TimeWindow != "day" || r.PageSize != 7 {
		t.Errorf("explicit fields overwritten: %+v", r)
	}
}
