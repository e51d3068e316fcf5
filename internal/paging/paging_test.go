package paging

import "testing"

func TestClamp(t *testing.T) {
	cases := []struct {
		in   Request
		want Request
	}{
		{Request{}, Request{Page: 1, PerPage: 10}},
		{Request{Page: -3, PerPage: 500}, Request{Page: 1, PerPage: 100}},
		{Request{Page: 4, PerPage: 25}, Request{Page: 4, PerPage: 25}},
	}
	for _, tc := range cases {
		if got := tc.in.Clamp(10, 100); got != tc.want {
			t.Fatalf("clamp %+v: expected %+v, got %+v", tc.in, tc.want, got)
		}
	}
}

func TestOfComputesPages(t *testing.T) {
	r := Request{Page: 2, PerPage: 10}
	if got := r.Of(21); got.Pages != 3 || got.Total != 21 || got.CurrentPage != 2 {
		t.Fatalf("unexpected pagination %+v", got)
	}
	if got := r.Of(0); got.Pages != 0 {
		t.Fatalf("expected zero pages, got %d", got.Pages)
	}
	opts := r.ListOptions()
	if opts.Limit != 10 || opts.Offset != 10 {
		t.Fatalf("unexpected list options %+v", opts)
	}
}
