package content

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeStore(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "posts.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write store: %v", err)
	}
	return path
}

func loadJSON(t *testing.T, body string) ([]Post, error) {
	t.Helper()
	return NewIndex(JSONFile{Path: writeStore(t, body)}).LoadPosts(context.Background())
}

func TestLoadPostsNewestFirst(t *testing.T) {
	posts, err := loadJSON(t, `[
		{"title": "A", "route": "a", "date": "2024-01-01"},
		{"title": "B", "route": "b", "date": "2024-06-01"}
	]`)
	if err != nil {
		t.Fatalf("LoadPosts failed: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("len(posts) = %d, want 2", len(posts))
	}
	if posts[0].Title != "B" || posts[1].Title != "A" {
		t.Errorf("order = [%s %s], want [B A]", posts[0].Title, posts[1].Title)
	}
	if posts[0].DateText != "2024-06-01" {
		t.Errorf("DateText = %q, want %q", posts[0].DateText, "2024-06-01")
	}
	if posts[0].Href() != "/posts/b" {
		t.Errorf("Href = %q, want %q", posts[0].Href(), "/posts/b")
	}
}

func TestLoadPostsStableForEqualDates(t *testing.T) {
	posts, err := loadJSON(t, `[
		{"title": "first", "route": "r1", "date": "2024-03-01"},
		{"title": "older", "route": "r2", "date": "2023-03-01"},
		{"title": "second", "route": "r3", "date": "2024-03-01"},
		{"title": "newest", "route": "r4", "date": "2025-01-01"},
		{"title": "third", "route": "r5", "date": "2024-03-01"}
	]`)
	if err != nil {
		t.Fatalf("LoadPosts failed: %v", err)
	}
	want := []string{"newest", "first", "second", "third", "older"}
	if len(posts) != len(want) {
		t.Fatalf("len(posts) = %d, want %d", len(posts), len(want))
	}
	for i, p := range posts {
		if p.Title != want[i] {
			t.Errorf("posts[%d] = %q, want %q", i, p.Title, want[i])
		}
	}
	for i := 1; i < len(posts); i++ {
		if posts[i].Date.After(posts[i-1].Date) {
			t.Errorf("posts[%d] (%s) is newer than posts[%d] (%s)", i, posts[i].DateText, i-1, posts[i-1].DateText)
		}
	}
}

func TestLoadPostsMixedDateFormats(t *testing.T) {
	posts, err := loadJSON(t, `[
		{"title": "day", "route": "a", "date": "2024-05-01"},
		{"title": "rfc", "route": "b", "date": "2024-05-01T10:00:00Z"},
		{"title": "space", "route": "c", "date": "2024-04-30 23:00:00"}
	]`)
	if err != nil {
		t.Fatalf("LoadPosts failed: %v", err)
	}
	got := []string{posts[0].Title, posts[1].Title, posts[2].Title}
	want := []string{"rfc", "day", "space"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("order = %v, want %v", got, want)
			break
		}
	}
}

func TestLoadPostsKeepsExtraFields(t *testing.T) {
	posts, err := loadJSON(t, `[{"title": "A", "route": "a", "date": "2024-01-01", "description": "hello", "tags": ["go"]}]`)
	if err != nil {
		t.Fatalf("LoadPosts failed: %v", err)
	}
	if got := posts[0].String("description"); got != "hello" {
		t.Errorf("description = %q, want %q", got, "hello")
	}
	if _, ok := posts[0].Extra["tags"]; !ok {
		t.Error("tags should be passed through")
	}
	if _, ok := posts[0].Extra["title"]; ok {
		t.Error("title should not be duplicated into Extra")
	}
	if got := posts[0].String("tags"); got != "" {
		t.Errorf("String(tags) = %q, want empty for non-string field", got)
	}
}

func TestLoadPostsEmptyArray(t *testing.T) {
	posts, err := loadJSON(t, `[]`)
	if err != nil {
		t.Fatalf("LoadPosts failed: %v", err)
	}
	if len(posts) != 0 {
		t.Errorf("len(posts) = %d, want 0", len(posts))
	}
}

func TestLoadPostsMissingStore(t *testing.T) {
	ix := NewIndex(JSONFile{Path: filepath.Join(t.TempDir(), "missing.json")})
	posts, err := ix.LoadPosts(context.Background())
	if posts != nil {
		t.Errorf("posts = %v, want nil", posts)
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want *NotFoundError", err)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("errors.Is(err, ErrNotFound) should be true")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("NotFoundError should unwrap to os.ErrNotExist")
	}
}

func TestLoadPostsParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		index int
		field string
	}{
		{"not json", `{{`, -1, ""},
		{"object document", `{"title": "A"}`, -1, ""},
		{"null document", `null`, -1, ""},
		{"non-object record", `[1]`, 0, ""},
		{"null record", `[null]`, 0, ""},
		{"missing title", `[{"route": "a", "date": "2024-01-01"}]`, 0, "title"},
		{"empty title", `[{"title": " ", "route": "a", "date": "2024-01-01"}]`, 0, "title"},
		{"numeric route", `[{"title": "A", "route": 7, "date": "2024-01-01"}]`, 0, "route"},
		{"nested route", `[{"title": "A", "route": "a/b", "date": "2024-01-01"}]`, 0, "route"},
		{"bad date", `[{"title": "A", "route": "a", "date": "yesterday"}]`, 0, "date"},
		{"duplicate route", `[{"title": "A", "route": "a", "date": "2024-01-01"}, {"title": "B", "route": "a", "date": "2024-01-02"}]`, 1, "route"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadJSON(t, tt.body)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("err = %v, want *ParseError", err)
			}
			if !errors.Is(err, ErrParse) {
				t.Error("errors.Is(err, ErrParse) should be true")
			}
			if pe.Index != tt.index {
				t.Errorf("Index = %d, want %d", pe.Index, tt.index)
			}
			if pe.Field != tt.field {
				t.Errorf("Field = %q, want %q", pe.Field, tt.field)
			}
		})
	}
}

func TestLoadPostsDoesNotModifyStore(t *testing.T) {
	body := `[{"title": "A", "route": "a", "date": "2024-01-01"}, {"title": "B", "route": "b", "date": "2024-06-01"}]`
	path := writeStore(t, body)
	if _, err := NewIndex(JSONFile{Path: path}).LoadPosts(context.Background()); err != nil {
		t.Fatalf("LoadPosts failed: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read store: %v", err)
	}
	if string(got) != body {
		t.Errorf("store changed to %q", got)
	}
}

func TestLoadPostsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewIndex(JSONFile{Path: writeStore(t, `[]`)}).LoadPosts(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestOpenSource(t *testing.T) {
	tests := []struct {
		path   string
		sqlite bool
	}{
		{"data/posts.json", false},
		{"data/posts", false},
		{"data/blog.db", true},
		{"data/blog.SQLITE", true},
		{"data/blog.sqlite3", true},
	}
	for _, tt := range tests {
		_, isSQLite := OpenSource(tt.path).(SQLite)
		if isSQLite != tt.sqlite {
			t.Errorf("OpenSource(%q) sqlite = %v, want %v", tt.path, isSQLite, tt.sqlite)
		}
	}
}

func TestPostHref(t *testing.T) {
	tests := []struct {
		route string
		want  string
	}{
		{"hello-world", "/posts/hello-world"},
		{"c#1", "/posts/c%231"},
		{"what?", "/posts/what%3F"},
		{"100%", "/posts/100%25"},
		{"my post", "/posts/my%20post"},
		{"한글", "/posts/%ED%95%9C%EA%B8%80"},
	}
	for _, tt := range tests {
		if got := (Post{Route: tt.route}).Href(); got != tt.want {
			t.Errorf("Href(%q) = %q, want %q", tt.route, got, tt.want)
		}
	}
}
