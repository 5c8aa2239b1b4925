package api

import (
	"net/http"
	"strconv"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
	MaxOffset    = 1_000_000_000
)

// Page is an offset/limit window over a list.
type Page struct {
	Offset int
	Limit  int
}

// ParsePage reads ?offset= and ?limit=. Invalid values fall back to the
// defaults; limit is clamped to [1, MaxLimit] and offset to [0, MaxOffset].
func ParsePage(r *http.Request) Page {
	page := Page{Offset: 0, Limit: DefaultLimit}

	if oStr := r.URL.Query().Get("offset"); oStr != "" {
		if o, err := strconv.Atoi(oStr); err == nil && o >= 0 {
			page.Offset = min(o, MaxOffset)
		}
	}

	if lStr := r.URL.Query().Get("limit"); lStr != "" {
		if l, err := strconv.Atoi(lStr); err == nil {
			if l < 1 {
				page.Limit = 1
			} else if l > MaxLimit {
				page.Limit = MaxLimit
			} else {
				page.Limit = l
			}
		}
	}

	return page
}

// PageResponse is the paginated list envelope.
type PageResponse[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// NewPageResponse builds the envelope with absolute next/previous links.
func NewPageResponse[T any](r *http.Request, page Page, total int64, results []T) PageResponse[T] {
	if results == nil {
		results = []T{}
	}
	resp := PageResponse[T]{
		Count:   total,
		Results: results,
	}

	if int64(page.Offset) < total-int64(page.Limit) {
		next := pageURL(r, page.Offset+page.Limit, page.Limit)
		resp.Next = &next
	}
	if page.Offset > 0 {
		prev := pageURL(r, max(page.Offset-page.Limit, 0), page.Limit)
		resp.Previous = &prev
	}
	return resp
}

// Slice applies the page to an in-memory list.
func Slice[T any](items []T, page Page) []T {
	start := min(max(page.Offset, 0), len(items))
	end := start + min(max(page.Limit, 0), len(items)-start)
	return items[start:end]
}

func pageURL(r *http.Request, offset, limit int) string {
	u := *r.URL
	u.Scheme = scheme(r)
	u.Host = r.Host

	q := u.Query()
	q.Set("limit", strconv.Itoa(limit))
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	} else {
		q.Del("offset")
	}
	u.RawQuery = q.Encode()
	return u.String()
}
