package utils

import (
	"net/url"
	"strconv"
)

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 500
)

// PageWindow is a bounded limit/offset pair. Always build one through
// ClampPage so no query is ever constructed from out-of-range values.
type PageWindow struct {
	Limit  int
	Offset int
}

func ClampPage(limit, offset int) PageWindow {
	if limit < 1 {
		limit = 1
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return PageWindow{Limit: limit, Offset: offset}
}

// PageLinks derives next/previous continuation links for the current page.
// Every query parameter of the original call is preserved; only limit and
// offset are substituted. Parameter ordering in the output is not guaranteed.
func PageLinks(path string, query url.Values, w PageWindow, total int) (next, prev *string) {
	if w.Offset+w.Limit < total {
		u := pageURL(path, query, w.Limit, w.Offset+w.Limit)
		next = &u
	}
	if w.Offset > 0 {
		prevOffset := w.Offset - w.Limit
		if prevOffset < 0 {
			prevOffset = 0
		}
		u := pageURL(path, query, w.Limit, prevOffset)
		prev = &u
	}
	return next, prev
}

func pageURL(path string, query url.Values, limit, offset int) string {
	q := url.Values{}
	for k, vs := range query {
		q[k] = append([]string(nil), vs...)
	}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	return path + "?" + q.Encode()
}
