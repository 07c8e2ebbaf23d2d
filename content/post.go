// Package content loads post metadata from the post store and keeps it in a
// deterministic order: newest first, store order among equal dates.
package content

import (
	"encoding/json"
	"net/url"
	"time"
)

// Post is a single entry of the post store.
type Post struct {
	Title string
	Route string
	Date  time.Time

	// DateText is the date exactly as written in the store; templates display it.
	DateText string

	// Extra holds every field besides title, route and date, undecoded.
	Extra map[string]json.RawMessage
}

// Href is the site-relative path of the post page, with the route escaped
// as a single path segment.
func (p Post) Href() string {
	return "/posts/" + url.PathEscape(p.Route)
}

// String returns a free-form extra field when it holds a JSON string.
func (p Post) String(field string) string {
	raw, ok := p.Extra[field]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// Routes returns the route of every post, in order.
func Routes(posts []Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Route
	}
	return out
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate accepts the date formats used by the post store.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
