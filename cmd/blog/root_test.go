package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/dkmqflx/blog/routes"
)

func useConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blog.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	old := cfgFile
	cfgFile = path
	t.Cleanup(func() { cfgFile = old })
	return path
}

func TestInitializeConfigDefaults(t *testing.T) {
	old := cfgFile
	cfgFile = ""
	t.Cleanup(func() { cfgFile = old })

	cfg, err := initializeConfig(&cobra.Command{})
	if err != nil {
		t.Fatalf("initializeConfig failed: %v", err)
	}
	if cfg.Name != "Blog" || cfg.Addr != ":3000" || cfg.PostsStore != "data/posts.json" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestInitializeConfigFileAndEnv(t *testing.T) {
	useConfigFile(t, "name: Notes\nurl: https://example.com\nstrict_routes: true\naddr: \":4000\"\n")
	t.Setenv("BLOG_ADDR", ":9000")
	t.Setenv("BLOG_POSTS_DIR", "content")

	cfg, err := initializeConfig(&cobra.Command{})
	if err != nil {
		t.Fatalf("initializeConfig failed: %v", err)
	}
	if cfg.Name != "Notes" || cfg.URL != "https://example.com" || !cfg.StrictRoutes {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Addr != ":9000" {
		t.Errorf("Addr = %q, want env value :9000", cfg.Addr)
	}
	if cfg.PostsDir != "content" {
		t.Errorf("PostsDir = %q, want content", cfg.PostsDir)
	}
}

func TestInitializeConfigFlagWins(t *testing.T) {
	useConfigFile(t, "addr: \":4000\"\n")
	t.Setenv("BLOG_ADDR", ":9000")

	cmd := &cobra.Command{}
	cmd.Flags().String("addr", "", "")
	if err := cmd.Flags().Set("addr", ":7000"); err != nil {
		t.Fatal(err)
	}
	cfg, err := initializeConfig(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":7000" {
		t.Errorf("Addr = %q, want flag value :7000", cfg.Addr)
	}
}

func TestInitializeConfigMissingExplicitFile(t *testing.T) {
	old := cfgFile
	cfgFile = filepath.Join(t.TempDir(), "nope.yaml")
	t.Cleanup(func() { cfgFile = old })

	if _, err := initializeConfig(&cobra.Command{}); err == nil {
		t.Fatal("expected an error for a missing --config file")
	}
}

// siteFixture writes a store with routes a and b plus the given folders and
// returns a config file pointing at them.
func siteFixture(t *testing.T, folders ...string) string {
	t.Helper()
	root := t.TempDir()
	store := filepath.Join(root, "posts.json")
	posts := `[{"title":"A","route":"a","date":"2024-01-01"},{"title":"B","route":"b","date":"2024-06-01"}]`
	if err := os.WriteFile(store, []byte(posts), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, f := range folders {
		if err := os.MkdirAll(filepath.Join(root, "posts", f), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	cfg := filepath.Join(root, "blog.yaml")
	body := "url: https://example.com\nlog_level: \"off\"\n" +
		"posts_store: " + store + "\n" +
		"posts_dir: " + filepath.Join(root, "posts") + "\n" +
		"output_dir: " + filepath.Join(root, "out") + "\n"
	if err := os.WriteFile(cfg, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	old := cfgFile
	t.Cleanup(func() { cfgFile = old })

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestCheckCommand(t *testing.T) {
	out, err := execute(t, "check", "--config", siteFixture(t, "a", "b"))
	if err != nil {
		t.Fatalf("check failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "ok:") {
		t.Errorf("output = %q", out)
	}
}

func TestCheckCommandMismatch(t *testing.T) {
	out, err := execute(t, "check", "--config", siteFixture(t, "a", "drafts"))
	if !errors.Is(err, routes.ErrRouteMismatch) {
		t.Fatalf("err = %v, want ErrRouteMismatch", err)
	}
	for _, want := range []string{"orphan folder: drafts", "missing folder: b"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestBuildCommand(t *testing.T) {
	cfg := siteFixture(t, "a", "b")
	out, err := execute(t, "build", "--config", cfg)
	if err != nil {
		t.Fatalf("build failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Built 2 posts, 3 sitemap entries") {
		t.Errorf("output = %q", out)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(cfg), "out", "sitemap.xml")); err != nil {
		t.Errorf("sitemap.xml not written: %v", err)
	}
}

func TestBuildCommandMismatch(t *testing.T) {
	cfg := siteFixture(t, "a")
	if _, err := execute(t, "build", "--config", cfg); !errors.Is(err, routes.ErrRouteMismatch) {
		t.Fatalf("err = %v, want ErrRouteMismatch", err)
	}

	out, err := execute(t, "build", "--config", cfg, "--allow-mismatch")
	t.Cleanup(func() { allowMismatch = false })
	if err != nil {
		t.Fatalf("build --allow-mismatch failed: %v", err)
	}
	if !strings.Contains(out, "skipped b") {
		t.Errorf("output = %q", out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if out != "blog dev\n" {
		t.Errorf("output = %q", out)
	}
}
