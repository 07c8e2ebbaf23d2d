package blog

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// SiteConfig holds all configuration for a blog site. Field tags name the
// keys used in blog.yaml and, upper-cased with a BLOG_ prefix, in the
// environment.
type SiteConfig struct {
	Name        string `mapstructure:"name"`        // Site name (default "Blog")
	URL         string `mapstructure:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `mapstructure:"description"` // Site description for meta tags and RSS
	Author      string `mapstructure:"author"`      // Author name for JSON-LD
	GitHub      string `mapstructure:"github"`      // GitHub profile linked from the header
	Lang        string `mapstructure:"lang"`        // Document language (default "en")

	Addr       string `mapstructure:"addr"`        // Listen address (default ":3000")
	PostsStore string `mapstructure:"posts_store"` // Post store path (default "data/posts.json")
	PostsDir   string `mapstructure:"posts_dir"`   // Route folders root (default "posts")
	OutputDir  string `mapstructure:"output_dir"`  // Static export target (default "out")

	// StrictRoutes fails sitemap requests when post routes and folders
	// disagree instead of only logging the mismatch.
	StrictRoutes bool `mapstructure:"strict_routes"`

	LogLevel       string `mapstructure:"log_level"` // debug, info, warn, error, off (default "info")
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() SiteConfig {
	var c SiteConfig
	c.setDefaults()
	return c
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimRight(c.URL, "/")
	if c.Lang == "" {
		c.Lang = "en"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.PostsStore == "" {
		c.PostsStore = "data/posts.json"
	}
	if c.PostsDir == "" {
		c.PostsDir = "posts"
	}
	if c.OutputDir == "" {
		c.OutputDir = "out"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate reports configuration that would produce broken links.
func (c SiteConfig) Validate() error {
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("url %q: %w", c.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("url %q must be an absolute http(s) URL", c.URL)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error", "off":
	default:
		return fmt.Errorf("log_level %q is not one of debug, info, warn, error, off", c.LogLevel)
	}
	return nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory served under /public (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithClock replaces time.Now as the source of sitemap generation times.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}
