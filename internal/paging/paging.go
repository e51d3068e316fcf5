package paging

import "github.com/goliatone/go-novels/pkg/interfaces/store"

// Request is a 1-based page request.
type Request struct {
	Page    int
	PerPage int
}

// Pagination is the envelope block returned by list endpoints.
type Pagination struct {
	Total       int `json:"total"`
	Pages       int `json:"pages"`
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
}

// Clamp forces page >= 1 and per_page into 1..max, using def when per_page
// is unset.
func (r Request) Clamp(def, max int) Request {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PerPage <= 0 {
		r.PerPage = def
	}
	if max > 0 && r.PerPage > max {
		r.PerPage = max
	}
	return r
}

// ListOptions converts the request into repository limit/offset.
func (r Request) ListOptions() store.ListOptions {
	return store.ListOptions{Limit: r.PerPage, Offset: (r.Page - 1) * r.PerPage}
}

// Of builds the pagination block for total records.
func (r Request) Of(total int) Pagination {
	pages := 0
	if total > 0 && r.PerPage > 0 {
		pages = (total + r.PerPage - 1) / r.PerPage
	}
	return Pagination{Total: total, Pages: pages, CurrentPage: r.Page, PerPage: r.PerPage}
}
