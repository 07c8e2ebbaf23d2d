package blog

import (
	"testing"
	"time"
)

func TestSiteConfigDefaults(t *testing.T) {
	var cfg SiteConfig
	cfg.setDefaults()

	if cfg.Name != "Blog" {
		t.Errorf("Name = %q", cfg.Name)
	}
	if cfg.URL != "http://localhost:3000" {
		t.Errorf("URL = %q", cfg.URL)
	}
	if cfg.Addr != ":3000" || cfg.Lang != "en" || cfg.LogLevel != "info" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.PostsStore != "data/posts.json" || cfg.PostsDir != "posts" || cfg.OutputDir != "out" {
		t.Errorf("paths = %q %q %q", cfg.PostsStore, cfg.PostsDir, cfg.OutputDir)
	}
}

func TestSiteConfigTrimsTrailingSlash(t *testing.T) {
	cfg := SiteConfig{URL: "https://example.com/"}
	cfg.setDefaults()
	if cfg.URL != "https://example.com" {
		t.Errorf("URL = %q", cfg.URL)
	}
}

func TestSiteConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		level   string
		wantErr bool
	}{
		{"https", "https://example.com", "info", false},
		{"http with port", "http://localhost:3000", "debug", false},
		{"relative", "/blog", "info", true},
		{"no scheme", "example.com", "info", true},
		{"ftp", "ftp://example.com", "info", true},
		{"bad level", "https://example.com", "verbose", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := SiteConfig{URL: tt.url, LogLevel: tt.level}.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	if _, err := New(SiteConfig{URL: "not a url"}); err == nil {
		t.Fatal("expected an error")
	}
}

func TestWithClock(t *testing.T) {
	fixed := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	a, err := New(SiteConfig{LogLevel: "off"}, WithClock(func() time.Time { return fixed }))
	if err != nil {
		t.Fatal(err)
	}
	if !a.now().Equal(fixed) {
		t.Errorf("now() = %v, want %v", a.now(), fixed)
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base     string
		segments []string
		want     string
	}{
		{"https://example.com", nil, "https://example.com"},
		{"https://example.com/", nil, "https://example.com"},
		{"https://example.com", []string{"posts", "a"}, "https://example.com/posts/a"},
		{"https://example.com/blog/", []string{"sitemap.xml"}, "https://example.com/blog/sitemap.xml"},
	}
	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segments...); got != tt.want {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segments, got, tt.want)
		}
	}
}
