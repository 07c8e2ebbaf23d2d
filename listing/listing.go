// Package listing projects the ordered posts into the home page list.
package listing

import "github.com/dkmqflx/blog/content"

// Item is one row of the home page list.
type Item struct {
	Title string
	Href  string
	Date  string
	// Separator is set on every item but the first; it draws the rule above the row.
	Separator bool
}

// Project maps posts to list items, one per post, in order.
func Project(posts []content.Post) []Item {
	items := make([]Item, len(posts))
	for i, p := range posts {
		items[i] = Item{
			Title:     p.Title,
			Href:      p.Href(),
			Date:      p.DateText,
			Separator: i > 0,
		}
	}
	return items
}
