package repository

import "testing"

func TestNormalizePageRequest(t *testing.T) {
	cases := map[string]struct {
		in   PageRequest
		want PageRequest
	}{
		"empty query uses first page of twenty": {PageRequest{}, PageRequest{Page: 1, PageSize: 20}},
		"zero based page is lifted to one":      {PageRequest{Page: 0, PageSize: 5}, PageRequest{Page: 1, PageSize: 5}},
		"negative size falls back to default":   {PageRequest{Page: 4, PageSize: -3}, PageRequest{Page: 4, PageSize: DefaultPageSize}},
		"oversized page is capped":              {PageRequest{Page: 2, PageSize: 500}, PageRequest{Page: 2, PageSize: MaxPageSize}},
		"in range request is untouched":         {PageRequest{Page: 3, PageSize: 25}, PageRequest{Page: 3, PageSize: 25}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := normalizePageRequest(tc.in); got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

// The seeded directory holds 100 people; these are the page counts a client sees.
func TestCalcTotalPagesForSeededDirectory(t *testing.T) {
	for pageSize, want := range map[int]int{1: 100, 7: 15, 20: 5, 30: 4, 100: 1} {
		if got := calcTotalPages(100, pageSize); got != want {
			t.Fatalf("calcTotalPages(100, %d) = %d, want %d", pageSize, got, want)
		}
	}
	if got := calcTotalPages(0, 20); got != 0 {
		t.Fatalf("empty table should have no pages, got %d", got)
	}
	if got := calcTotalPages(10, 0); got != 0 {
		t.Fatalf("zero page size should report no pages, got %d", got)
	}
}

func TestOffsetFor(t *testing.T) {
	if got := offsetFor(PageRequest{Page: 1, PageSize: 20}); got != 0 {
		t.Fatalf("first page offset = %d", got)
	}
	if got := offsetFor(PageRequest{Page: 3, PageSize: 10}); got != 20 {
		t.Fatalf("third page offset = %d, want 20", got)
	}
}

func TestNormalizeSortOrder(t *testing.T) {
	cases := map[string]string{"": "ASC", "asc": "ASC", " DESC ": "DESC", "desc": "DESC", "sideways": "ASC"}
	for in, want := range cases {
		if got := normalizeSortOrder(in); got != want {
			t.Fatalf("normalizeSortOrder(%q) = %q, want %q", in, got, want)
		}
	}
}

// Every normalized request must address rows that exist on some page.
func FuzzPageWindow(f *testing.F) {
	f.Add(0, 0, int64(100))
	f.Add(-2, 1000, int64(3))
	f.Add(5, 20, int64(100))

	f.Fuzz(func(t *testing.T, page, pageSize int, total int64) {
		req := normalizePageRequest(PageRequest{Page: page, PageSize: pageSize})
		if req.Page < 1 || req.PageSize < 1 || req.PageSize > MaxPageSize {
			t.Fatalf("out of bounds: %+v", req)
		}
		if offsetFor(req) < 0 {
			t.Fatalf("negative offset for %+v", req)
		}
		if total <= 0 || total > 1<<40 {
			return
		}
		pages := calcTotalPages(total, req.PageSize)
		if int64(pages)*int64(req.PageSize) < total || int64(pages-1)*int64(req.PageSize) >= total {
			t.Fatalf("pages=%d does not cover total=%d with size %d", pages, total, req.PageSize)
		}
	})
}
