package blog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/dkmqflx/blog/content"
	"github.com/dkmqflx/blog/markdown"
	"github.com/dkmqflx/blog/routes"
	"github.com/dkmqflx/blog/sitemap"
)

// postBodyFile is the Markdown file rendered for a post, inside its folder.
const postBodyFile = "index.md"

// errUnknownPost is returned by findPost for routes not in the store.
var errUnknownPost = errors.New("unknown post")

// LoadPosts reads the post store, newest post first.
func (a *App) LoadPosts(ctx context.Context) ([]content.Post, error) {
	start := time.Now()
	posts, err := a.Index.LoadPosts(ctx)
	a.metrics.observeLoad(time.Since(start), len(posts), err)
	if err != nil {
		return nil, err
	}
	a.Logger.Debugf("loaded %d posts from %s", len(posts), a.Config.PostsStore)
	return posts, nil
}

// BuildSitemap loads the posts, scans the route folders and builds the
// sitemap stamped with generatedAt. Route mismatches are logged, or returned
// as an error when StrictRoutes is set.
func (a *App) BuildSitemap(ctx context.Context, generatedAt time.Time) (sitemap.Document, error) {
	posts, err := a.LoadPosts(ctx)
	if err != nil {
		return sitemap.Document{}, err
	}
	return a.SitemapFor(ctx, posts, generatedAt)
}

// SitemapFor is BuildSitemap over posts already loaded, so one store read
// can feed every artifact of a build.
func (a *App) SitemapFor(ctx context.Context, posts []content.Post, generatedAt time.Time) (sitemap.Document, error) {
	folders, err := a.Scanner.Scan(ctx)
	if err != nil {
		return sitemap.Document{}, err
	}
	doc := sitemap.Build(a.Config.URL, posts, folders, generatedAt)
	a.metrics.observeSitemap(doc)
	if !doc.Mismatch.Empty() {
		if a.Config.StrictRoutes {
			return sitemap.Document{}, doc.Mismatch.Err()
		}
		a.Logger.Warnf("sitemap: %s", doc.Mismatch)
	}
	return doc, nil
}

// CheckRoutes compares the post store routes with the folders on disk.
func (a *App) CheckRoutes(ctx context.Context) (routes.Mismatch, error) {
	posts, err := a.LoadPosts(ctx)
	if err != nil {
		return routes.Mismatch{}, err
	}
	folders, err := a.Scanner.Scan(ctx)
	if err != nil {
		return routes.Mismatch{}, err
	}
	m := routes.Reconcile(content.Routes(posts), folders)
	a.metrics.observeMismatch(m)
	return m, nil
}

func findPost(posts []content.Post, route string) (content.Post, error) {
	for _, p := range posts {
		if p.Route == route {
			return p, nil
		}
	}
	return content.Post{}, errUnknownPost
}

// postDir is the folder holding a post's body and assets.
func (a *App) postDir(route string) string {
	return filepath.Join(a.Config.PostsDir, route)
}

// renderPostBody renders the post's index.md. A folder without one yields an
// empty body; a missing folder is reported as os.ErrNotExist.
func (a *App) renderPostBody(post content.Post) (markdown.Document, error) {
	dir := a.postDir(post.Route)
	info, err := os.Stat(dir)
	if err != nil {
		return markdown.Document{}, err
	}
	if !info.IsDir() {
		return markdown.Document{}, os.ErrNotExist
	}
	doc, err := a.Markdown.ConvertFile(filepath.Join(dir, postBodyFile), post.Href())
	if errors.Is(err, os.ErrNotExist) {
		return markdown.Document{}, nil
	}
	return doc, err
}

// postDescription prefers the body's front matter over the store's
// description field.
func postDescription(post content.Post, body markdown.Document) string {
	if body.Meta.Description != "" {
		return body.Meta.Description
	}
	return post.String("description")
}
