package query

import "testing"

func TestParsePaginationDefaults(t *testing.T) {
	cases := []struct {
		name        string
		page, limit string
		wantPage    int64
		wantLimit   int64
	}{
		{"empty", "", "", 1, 10},
		{"valid", "3", "25", 3, 25},
		{"non-numeric", "abc", "xyz", 1, 10},
		{"zero", "0", "0", 1, 10},
		{"negative", "-2", "-5", 1, 10},
		{"mixed", "2", "oops", 2, 10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := ParsePagination(tc.page, tc.limit)
			if p.Page != tc.wantPage || p.Limit != tc.wantLimit {
				t.Fatalf("got page=%d limit=%d, want page=%d limit=%d", p.Page, p.Limit, tc.wantPage, tc.wantLimit)
			}
		})
	}
}

func TestParamsSkip(t *testing.T) {
	p := Params{Page: 3, Limit: 10}
	if got := p.Skip(); got != 20 {
		t.Fatalf("unexpected skip: got %d want 20", got)
	}
}

func TestNewPageArithmetic(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}
	page := NewPage(items, 12, Params{Page: 2, Limit: 5})

	if len(page.Items) != 5 {
		t.Fatalf("unexpected item count: got %d want 5", len(page.Items))
	}
	if page.TotalItems != 12 {
		t.Fatalf("unexpected total items: got %d want 12", page.TotalItems)
	}
	if page.TotalPages != 3 {
		t.Fatalf("unexpected total pages: got %d want 3", page.TotalPages)
	}
	if page.CurrentPage != 2 {
		t.Fatalf("unexpected current page: got %d want 2", page.CurrentPage)
	}
}

func TestNewPageBeyondEnd(t *testing.T) {
	page := NewPage[string](nil, 12, Params{Page: 9, Limit: 5})

	if page.Items == nil {
		t.Fatal("expected empty slice, not nil")
	}
	if len(page.Items) != 0 {
		t.Fatalf("expected no items, got %d", len(page.Items))
	}
	if page.TotalItems != 12 || page.TotalPages != 3 {
		t.Fatalf("expected totals unchanged, got %d/%d", page.TotalItems, page.TotalPages)
	}
	if page.CurrentPage != 9 {
		t.Fatalf("unexpected current page: got %d want 9", page.CurrentPage)
	}
}

func TestNewPageExactMultiple(t *testing.T) {
	page := NewPage([]int{1, 2, 3, 4, 5}, 10, Params{Page: 1, Limit: 5})
	if page.TotalPages != 2 {
		t.Fatalf("unexpected total pages: got %d want 2", page.TotalPages)
	}
}
