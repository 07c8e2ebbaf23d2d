package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Record is one undecoded entry of the post store.
type Record map[string]json.RawMessage

// Source reads the raw records of a post store in store order.
type Source interface {
	Records(ctx context.Context) ([]Record, error)
}

// Index turns a Source into the ordered post sequence.
type Index struct {
	src Source
}

// NewIndex creates an Index reading from src.
func NewIndex(src Source) *Index {
	return &Index{src: src}
}

// LoadPosts reads every post and returns them newest first. Posts sharing a
// date keep their relative store order.
func (ix *Index) LoadPosts(ctx context.Context) ([]Post, error) {
	records, err := ix.src.Records(ctx)
	if err != nil {
		return nil, err
	}
	posts, err := Decode(records)
	if err != nil {
		return nil, err
	}
	SortPosts(posts)
	return posts, nil
}

// Decode validates records and converts them to posts, preserving order.
func Decode(records []Record) ([]Post, error) {
	posts := make([]Post, 0, len(records))
	seen := make(map[string]int, len(records))
	for i, rec := range records {
		p, err := decodeRecord(i, rec)
		if err != nil {
			return nil, err
		}
		if first, dup := seen[p.Route]; dup {
			return nil, &ParseError{Index: i, Field: "route", Err: fmt.Errorf("duplicate route %q (first used by post %d)", p.Route, first)}
		}
		seen[p.Route] = i
		posts = append(posts, p)
	}
	return posts, nil
}

func decodeRecord(i int, rec Record) (Post, error) {
	if rec == nil {
		return Post{}, &ParseError{Index: i, Err: errors.New("not an object")}
	}
	title, err := requiredString(i, rec, "title")
	if err != nil {
		return Post{}, err
	}
	route, err := requiredString(i, rec, "route")
	if err != nil {
		return Post{}, err
	}
	if strings.Contains(route, "/") || route == "." || route == ".." {
		return Post{}, &ParseError{Index: i, Field: "route", Err: fmt.Errorf("%q is not a single path segment", route)}
	}
	dateText, err := requiredString(i, rec, "date")
	if err != nil {
		return Post{}, err
	}
	date, ok := ParseDate(dateText)
	if !ok {
		return Post{}, &ParseError{Index: i, Field: "date", Err: fmt.Errorf("unrecognized date %q", dateText)}
	}

	var extra map[string]json.RawMessage
	for k, v := range rec {
		switch k {
		case "title", "route", "date":
			continue
		}
		if extra == nil {
			extra = make(map[string]json.RawMessage)
		}
		extra[k] = v
	}

	return Post{
		Title:    title,
		Route:    route,
		Date:     date,
		DateText: dateText,
		Extra:    extra,
	}, nil
}

func requiredString(i int, rec Record, field string) (string, error) {
	raw, ok := rec[field]
	if !ok {
		return "", &ParseError{Index: i, Field: field, Err: errors.New("missing")}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", &ParseError{Index: i, Field: field, Err: errors.New("not a string")}
	}
	if strings.TrimSpace(s) == "" {
		return "", &ParseError{Index: i, Field: field, Err: errors.New("empty")}
	}
	return s, nil
}

// SortPosts orders posts by date descending, in place and stable.
func SortPosts(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Date.After(posts[j].Date)
	})
}
