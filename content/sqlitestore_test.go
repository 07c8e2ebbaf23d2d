package content

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func setupTestDB(t *testing.T, rows ...[4]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blog.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec(`CREATE TABLE posts (title TEXT, route TEXT, date TEXT, extra TEXT)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	for _, r := range rows {
		if _, err := db.Exec(`INSERT INTO posts (title, route, date, extra) VALUES (?, ?, ?, ?)`, r[0], r[1], r[2], r[3]); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	return path
}

func TestSQLiteLoadPosts(t *testing.T) {
	path := setupTestDB(t,
		[4]any{"A", "a", "2024-01-01", nil},
		[4]any{"B", "b", "2024-06-01", `{"description": "bee"}`},
		[4]any{"C", "c", "2024-01-01", ""},
	)
	posts, err := NewIndex(OpenSource(path)).LoadPosts(context.Background())
	if err != nil {
		t.Fatalf("LoadPosts failed: %v", err)
	}
	want := []string{"b", "a", "c"}
	if len(posts) != len(want) {
		t.Fatalf("len(posts) = %d, want %d", len(posts), len(want))
	}
	for i, p := range posts {
		if p.Route != want[i] {
			t.Errorf("posts[%d].Route = %q, want %q", i, p.Route, want[i])
		}
	}
	if got := posts[0].String("description"); got != "bee" {
		t.Errorf("description = %q, want %q", got, "bee")
	}
}

func TestSQLiteNullColumn(t *testing.T) {
	path := setupTestDB(t, [4]any{nil, "a", "2024-01-01", nil})
	_, err := NewIndex(SQLite{Path: path}).LoadPosts(context.Background())
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *ParseError", err)
	}
	if pe.Field != "title" {
		t.Errorf("Field = %q, want %q", pe.Field, "title")
	}
}

func TestSQLiteBadExtra(t *testing.T) {
	path := setupTestDB(t, [4]any{"A", "a", "2024-01-01", `[1, 2]`})
	_, err := SQLite{Path: path}.Records(context.Background())
	if !errors.Is(err, ErrParse) {
		t.Fatalf("err = %v, want ErrParse", err)
	}
}

func TestSQLiteMissingTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if _, err := db.Exec(`CREATE TABLE other (id INTEGER)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	db.Close()

	_, err = SQLite{Path: path}.Records(context.Background())
	if !errors.Is(err, ErrParse) {
		t.Fatalf("err = %v, want ErrParse", err)
	}
}

func TestSQLiteMissingFile(t *testing.T) {
	_, err := SQLite{Path: filepath.Join(t.TempDir(), "nope.db")}.Records(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
