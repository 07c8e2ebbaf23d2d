package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/dkmqflx/blog"
)

var (
	allowMismatch bool
	watch         bool
	clean         bool
)

const debounceDuration = 300 * time.Millisecond

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Export the blog as a static site",
	Long: `build renders the home page, every post, the sitemap, the RSS feed and
robots.txt into the output directory, copying post assets and ./public
alongside.

The build fails when post routes and post folders disagree unless
--allow-mismatch is given. With --watch the site is rebuilt whenever the
post store, a post folder or ./public changes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := blog.New(siteConfig)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if err := runBuild(cmd.Context(), app, out); err != nil {
			if !watch {
				return err
			}
			fmt.Fprintf(out, "Initial build failed: %v\n", err)
		}
		if !watch {
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return watchAndRebuild(ctx, app, out)
	},
}

func init() {
	buildCmd.Flags().String("out", "", "output directory (default out)")
	buildCmd.Flags().BoolVar(&allowMismatch, "allow-mismatch", false, "build even when post routes and folders disagree")
	buildCmd.Flags().BoolVarP(&watch, "watch", "w", false, "rebuild on changes")
	buildCmd.Flags().BoolVar(&clean, "clean", true, "remove the output directory before building")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(ctx context.Context, app *blog.App, out io.Writer) error {
	dir := app.Config.OutputDir
	start := time.Now()
	res, err := app.Export(ctx, dir, blog.ExportOptions{AllowMismatch: allowMismatch, Clean: clean})
	if err != nil {
		return err
	}
	for _, route := range res.Skipped {
		fmt.Fprintf(out, "  skipped %s: no folder in %s\n", route, app.Config.PostsDir)
	}
	fmt.Fprintf(out, "Built %d posts, %d sitemap entries into %s in %s\n",
		res.Posts, res.SitemapEntries, dir, time.Since(start).Round(time.Millisecond))
	return nil
}

// watchAndRebuild rebuilds the site, debounced, until ctx is done.
func watchAndRebuild(ctx context.Context, app *blog.App, out io.Writer) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	outDir, _ := filepath.Abs(app.Config.OutputDir)
	roots := []string{filepath.Dir(app.Config.PostsStore), app.Config.PostsDir, "public"}
	for _, root := range roots {
		if err := watchTree(watcher, root, outDir); err != nil {
			fmt.Fprintf(out, "Not watching %s: %v\n", root, err)
		}
	}
	fmt.Fprintln(out, "Watching for changes. Press Ctrl+C to stop.")

	timer := time.NewTimer(debounceDuration)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event, outDir) {
				continue
			}
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				if err := watchTree(watcher, event.Name, outDir); err != nil {
					fmt.Fprintf(out, "Not watching %s: %v\n", event.Name, err)
				}
			}
			timer.Reset(debounceDuration)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(out, "Watcher error: %v\n", err)
		case <-timer.C:
			fmt.Fprintln(out, "Change detected, rebuilding...")
			if err := runBuild(ctx, app, out); err != nil {
				fmt.Fprintf(out, "Rebuild failed: %v\n", err)
			}
		}
	}
}

// watchTree adds root and every non-hidden directory below it, except the
// output directory.
func watchTree(w *fsnotify.Watcher, root, outDir string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if abs, _ := filepath.Abs(path); abs == outDir {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

func relevant(event fsnotify.Event, outDir string) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return abs != outDir && !strings.HasPrefix(abs, outDir+string(filepath.Separator))
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
