package blog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/a-h/templ"

	"github.com/dkmqflx/blog/listing"
	"github.com/dkmqflx/blog/views"
)

// ExportResult summarizes a static export.
type ExportResult struct {
	Posts          int
	SitemapEntries int
	Skipped        []string // posts whose folder is missing
}

// ExportOptions controls a static export.
type ExportOptions struct {
	// AllowMismatch exports even when post routes and folders disagree;
	// posts without a folder are skipped.
	AllowMismatch bool
	// Clean removes dir once the posts are loaded and checked.
	Clean bool
}

// Export writes the whole site as static files under dir: index.html,
// sitemap.xml, feed.xml, robots.txt, posts/{route}/index.html with the post
// assets, and the static directory under public/. The post store is read
// once; every file comes from that one snapshot. A failed load or scan, or a
// route mismatch without AllowMismatch, aborts before dir is touched.
func (a *App) Export(ctx context.Context, dir string, opts ExportOptions) (ExportResult, error) {
	var res ExportResult
	posts, err := a.LoadPosts(ctx)
	if err != nil {
		return res, err
	}
	doc, err := a.SitemapFor(ctx, posts, a.now())
	if err != nil {
		return res, err
	}
	if !opts.AllowMismatch {
		if err := doc.Mismatch.Err(); err != nil {
			return res, err
		}
	}

	if opts.Clean {
		if err := os.RemoveAll(dir); err != nil {
			return res, fmt.Errorf("remove output directory: %w", err)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return res, fmt.Errorf("create output directory: %w", err)
	}
	site := a.siteView()

	if err := writeComponent(ctx, filepath.Join(dir, "index.html"), views.Home(site, listing.Project(posts))); err != nil {
		return res, err
	}
	sitemapXML, err := doc.Marshal()
	if err != nil {
		return res, err
	}
	if err := writeFile(filepath.Join(dir, "sitemap.xml"), sitemapXML); err != nil {
		return res, err
	}
	feed, err := buildFeed(a.Config, posts)
	if err != nil {
		return res, err
	}
	if err := writeFile(filepath.Join(dir, "feed.xml"), feed); err != nil {
		return res, err
	}
	if err := writeFile(filepath.Join(dir, "robots.txt"), []byte(robotsTxt(a.Config.URL))); err != nil {
		return res, err
	}

	for _, post := range posts {
		body, err := a.renderPostBody(post)
		if errors.Is(err, os.ErrNotExist) {
			res.Skipped = append(res.Skipped, post.Route)
			continue
		}
		if err != nil {
			return res, fmt.Errorf("render post %q: %w", post.Route, err)
		}
		outDir := filepath.Join(dir, "posts", post.Route)
		page := views.Post(site, post, BuildURL(a.Config.URL, "posts", post.Route), postDescription(post, body), body.Component())
		if err := writeComponent(ctx, filepath.Join(outDir, "index.html"), page); err != nil {
			return res, err
		}
		if err := copyDir(a.postDir(post.Route), outDir, func(rel string) bool {
			return rel != postBodyFile
		}); err != nil {
			return res, fmt.Errorf("copy assets of %q: %w", post.Route, err)
		}
		res.Posts++
	}

	if _, err := os.Stat(a.staticDir); err == nil {
		if err := copyDir(a.staticDir, filepath.Join(dir, "public"), nil); err != nil {
			return res, fmt.Errorf("copy static assets: %w", err)
		}
	}

	res.SitemapEntries = len(doc.Entries)
	a.Logger.Infof("exported %d posts and %d sitemap entries to %s", res.Posts, res.SitemapEntries, dir)
	return res, nil
}

func writeComponent(ctx context.Context, path string, cmp templ.Component) error {
	var buf bytes.Buffer
	if err := cmp.Render(ctx, &buf); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	return writeFile(path, buf.Bytes())
}

func writeFile(path string, b []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// copyDir copies the regular files under src into dst, skipping hidden
// entries and any relative path keep rejects.
func copyDir(src, dst string, keep func(rel string) bool) error {
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if d.Name()[0] == '.' {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if keep != nil && !keep(filepath.ToSlash(rel)) {
			return nil
		}
		return copyFile(p, filepath.Join(dst, rel))
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
