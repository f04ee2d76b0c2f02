package pagination

import (
	"net/http/httptest"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   Params
		want Params
	}{
		{"zero values", Params{}, Params{Page: 1, Limit: DefaultLimit}},
		{"negative page", Params{Page: -3, Limit: 5}, Params{Page: 1, Limit: 5}},
		{"over max limit", Params{Page: 2, Limit: 500}, Params{Page: 2, Limit: MaxLimit}},
		{"already valid", Params{Page: 4, Limit: 20}, Params{Page: 4, Limit: 20}},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("%s: Normalize(%+v) = %+v, want %+v", tc.name, tc.in, got, tc.want)
		}
	}
}

func TestFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/products?page=3&limit=25", nil)
	p := FromRequest(r)
	if p.Page != 3 || p.Limit != 25 {
		t.Fatalf("unexpected params %+v", p)
	}

	r = httptest.NewRequest("GET", "/api/products?page=abc", nil)
	p = FromRequest(r)
	if p.Page != 1 || p.Limit != DefaultLimit {
		t.Fatalf("expected defaults for garbage input, got %+v", p)
	}
}

func TestOffset(t *testing.T) {
	p := Params{Page: 3, Limit: 10}
	if p.Offset() != 20 {
		t.Fatalf("expected offset 20, got %d", p.Offset())
	}
}

func TestMetaFor(t *testing.T) {
	meta := MetaFor(Params{Page: 2, Limit: 10}, 35)
	if meta.TotalPages != 4 {
		t.Fatalf("expected 4 pages, got %d", meta.TotalPages)
	}
	if !meta.HasNext || !meta.HasPrev {
		t.Fatalf("expected both neighbors on middle page, got %+v", meta)
	}

	meta = MetaFor(Params{Page: 1, Limit: 10}, 0)
	if meta.TotalPages != 0 || meta.HasNext || meta.HasPrev {
		t.Fatalf("unexpected meta for empty result %+v", meta)
	}

	meta = MetaFor(Params{Page: 4, Limit: 10}, 35)
	if meta.HasNext {
		t.Fatalf("last page should not have a next page")
	}
}
