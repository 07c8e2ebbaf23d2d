package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// JSONFile is a post store kept as a single JSON array on disk.
type JSONFile struct {
	Path string
}

// Records reads and splits the JSON array. A missing file yields a
// *NotFoundError, anything that is not an array of objects a *ParseError.
func (s JSONFile) Records(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &NotFoundError{Path: s.Path, Err: err}
		}
		return nil, fmt.Errorf("read post store: %w", err)
	}
	return DecodeJSON(b)
}

// DecodeJSON splits a JSON array document into records.
func DecodeJSON(b []byte) ([]Record, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, &ParseError{Index: -1, Err: err}
	}
	if items == nil {
		return nil, &ParseError{Index: -1, Err: errors.New("document is null, want an array")}
	}
	records := make([]Record, len(items))
	for i, item := range items {
		var rec Record
		if err := json.Unmarshal(item, &rec); err != nil {
			return nil, &ParseError{Index: i, Err: errors.New("not an object")}
		}
		records[i] = rec
	}
	return records, nil
}

// OpenSource picks the store backend from the file extension: .db, .sqlite
// and .sqlite3 are SQLite databases, everything else is a JSON document.
func OpenSource(path string) Source {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return SQLite{Path: path}
	default:
		return JSONFile{Path: path}
	}
}
