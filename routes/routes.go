// Package routes discovers which post folders exist on disk and reconciles
// them with the routes named by the post store.
package routes

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

var (
	// ErrScan matches any *ScanError.
	ErrScan = errors.New("route scan failed")
	// ErrRouteMismatch is returned by Mismatch.Err when folders and posts disagree.
	ErrRouteMismatch = errors.New("post routes and folders disagree")
)

// ScanError is returned when the posts root cannot be enumerated.
type ScanError struct {
	Root string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan post folders in %s: %v", e.Root, e.Err)
}

func (e *ScanError) Unwrap() error { return e.Err }

func (e *ScanError) Is(target error) bool { return target == ErrScan }

// Scanner lists the route folders directly under Root.
type Scanner struct {
	Root string
}

// Scan returns the names of the directories under Root, sorted by name.
// Hidden directories are skipped.
func (s Scanner) Scan(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		return nil, &ScanError{Root: s.Root, Err: err}
	}
	folders := []string{}
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		folders = append(folders, entry.Name())
	}
	return folders, nil
}

// Mismatch describes where post routes and folders disagree.
type Mismatch struct {
	// Orphans are folders with no post of the same route.
	Orphans []string
	// Missing are post routes with no folder.
	Missing []string
}

// Reconcile compares the post routes with the discovered folders.
func Reconcile(postRoutes, folders []string) Mismatch {
	posts := make(map[string]struct{}, len(postRoutes))
	for _, r := range postRoutes {
		posts[r] = struct{}{}
	}
	dirs := make(map[string]struct{}, len(folders))
	for _, f := range folders {
		dirs[f] = struct{}{}
	}

	var m Mismatch
	for _, f := range folders {
		if _, ok := posts[f]; !ok {
			m.Orphans = append(m.Orphans, f)
		}
	}
	for _, r := range postRoutes {
		if _, ok := dirs[r]; !ok {
			m.Missing = append(m.Missing, r)
		}
	}
	sort.Strings(m.Orphans)
	sort.Strings(m.Missing)
	return m
}

// Empty reports whether every route has a folder and every folder a route.
func (m Mismatch) Empty() bool {
	return len(m.Orphans) == 0 && len(m.Missing) == 0
}

func (m Mismatch) String() string {
	var parts []string
	if len(m.Orphans) > 0 {
		parts = append(parts, "folders without post: "+strings.Join(m.Orphans, ", "))
	}
	if len(m.Missing) > 0 {
		parts = append(parts, "posts without folder: "+strings.Join(m.Missing, ", "))
	}
	return strings.Join(parts, "; ")
}

// Err returns nil for an empty mismatch and an error wrapping
// ErrRouteMismatch otherwise.
func (m Mismatch) Err() error {
	if m.Empty() {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrRouteMismatch, m)
}
