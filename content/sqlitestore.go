package content

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	_ "modernc.org/sqlite"
)

// SQLite is a post store kept in a SQLite database with the table
//
//	posts (title TEXT, route TEXT, date TEXT, extra TEXT)
//
// Rows are read in rowid order, which is the store order. extra, when not
// NULL or empty, is a JSON object of pass-through fields. The database is
// only ever read.
type SQLite struct {
	Path string
}

// Records reads every row of the posts table.
func (s SQLite) Records(ctx context.Context) ([]Record, error) {
	// sql.Open would create a missing file.
	if _, err := os.Stat(s.Path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &NotFoundError{Path: s.Path, Err: err}
		}
		return nil, fmt.Errorf("stat post store: %w", err)
	}
	db, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return nil, fmt.Errorf("open post store: %w", err)
	}
	defer db.Close()
	if _, err := db.ExecContext(ctx, `PRAGMA query_only=ON;`); err != nil {
		return nil, fmt.Errorf("open post store: %w", err)
	}

	rows, err := db.QueryContext(ctx, `SELECT title, route, date, extra FROM posts ORDER BY rowid`)
	if err != nil {
		return nil, &ParseError{Index: -1, Err: err}
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var title, route, date sql.NullString
		var extra sql.NullString
		if err := rows.Scan(&title, &route, &date, &extra); err != nil {
			return nil, &ParseError{Index: len(records), Err: err}
		}
		rec := Record{}
		if extra.Valid && extra.String != "" {
			if err := json.Unmarshal([]byte(extra.String), &rec); err != nil || rec == nil {
				return nil, &ParseError{Index: len(records), Field: "extra", Err: errors.New("not a JSON object")}
			}
		}
		setString(rec, "title", title)
		setString(rec, "route", route)
		setString(rec, "date", date)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read post store: %w", err)
	}
	return records, nil
}

// setString stores a column as a JSON string; NULL columns are left out so
// validation reports them as missing.
func setString(rec Record, field string, v sql.NullString) {
	if !v.Valid {
		delete(rec, field)
		return
	}
	b, _ := json.Marshal(v.String)
	rec[field] = b
}
