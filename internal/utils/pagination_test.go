package utils

import (
	"net/url"
	"strings"
	"testing"
)

func TestClampPage(t *testing.T) {
	cases := []struct {
		limit, offset         int
		wantLimit, wantOffset int
	}{
		{50, 0, 50, 0},
		{0, 0, 1, 0},
		{-3, -7, 1, 0},
		{501, 10, 500, 10},
		{500, 0, 500, 0},
		{1, 0, 1, 0},
	}
	for _, tc := range cases {
		got := ClampPage(tc.limit, tc.offset)
		if got.Limit != tc.wantLimit || got.Offset != tc.wantOffset {
			t.Errorf("ClampPage(%d, %d) = %+v, want limit=%d offset=%d",
				tc.limit, tc.offset, got, tc.wantLimit, tc.wantOffset)
		}
	}
}

func TestPageLinksPresence(t *testing.T) {
	q := url.Values{}

	// next present iff offset+limit < total; prev present iff offset > 0
	cases := []struct {
		limit, offset, total int
		wantNext, wantPrev   bool
	}{
		{50, 0, 100, true, false},
		{50, 50, 100, false, true},
		{50, 25, 100, true, true},
		{50, 0, 50, false, false},
		{50, 0, 0, false, false},
		{10, 90, 100, false, true},
		{10, 89, 100, true, true},
	}
	for _, tc := range cases {
		next, prev := PageLinks("/api/tickets", q, PageWindow{Limit: tc.limit, Offset: tc.offset}, tc.total)
		if (next != nil) != tc.wantNext {
			t.Errorf("limit=%d offset=%d total=%d: next presence = %v, want %v",
				tc.limit, tc.offset, tc.total, next != nil, tc.wantNext)
		}
		if (prev != nil) != tc.wantPrev {
			t.Errorf("limit=%d offset=%d total=%d: prev presence = %v, want %v",
				tc.limit, tc.offset, tc.total, prev != nil, tc.wantPrev)
		}
	}
}

func TestPageLinksOffsets(t *testing.T) {
	q := url.Values{}

	next, prev := PageLinks("/api/tickets", q, PageWindow{Limit: 50, Offset: 25}, 200)
	if next == nil || !strings.Contains(*next, "offset=75") {
		t.Fatalf("next = %v, want offset=75", next)
	}
	// previous offset clamps at zero, never negative
	if prev == nil || !strings.Contains(*prev, "offset=0") {
		t.Fatalf("prev = %v, want offset=0", prev)
	}
}

func TestPageLinksPreserveFilterParams(t *testing.T) {
	q := url.Values{}
	q.Set("status_id", "1,2")
	q.Set("email", "a@b.c")
	q.Set("limit", "50")
	q.Set("offset", "0")

	next, _ := PageLinks("/api/tickets", q, PageWindow{Limit: 50, Offset: 0}, 200)
	if next == nil {
		t.Fatal("expected next link")
	}
	u, err := url.Parse(*next)
	if err != nil {
		t.Fatalf("parse next: %v", err)
	}
	got := u.Query()
	if got.Get("status_id") != "1,2" || got.Get("email") != "a@b.c" {
		t.Fatalf("filter params not preserved: %q", *next)
	}
	if got.Get("limit") != "50" || got.Get("offset") != "50" {
		t.Fatalf("limit/offset not substituted: %q", *next)
	}

	// input values must not be mutated
	if q.Get("offset") != "0" {
		t.Fatalf("original query mutated: offset=%q", q.Get("offset"))
	}
}
