// Package blog serves a personal blog: a home page listing every post, one
// page per post, an RSS feed and a sitemap.
//
// Post metadata comes from a read-only post store (a JSON array, or a SQLite
// table). Each post's body lives in a folder named after its route under the
// posts directory. Every request loads the store afresh; nothing is cached
// beyond the Cache-Control headers handed to the hosting platform.
package blog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/dkmqflx/blog/content"
	"github.com/dkmqflx/blog/markdown"
	"github.com/dkmqflx/blog/routes"
	"github.com/dkmqflx/blog/views"
)

// App wires together the post store, the route scanner, the renderers and
// the HTTP server.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Index    *content.Index
	Scanner  routes.Scanner
	Markdown *markdown.Renderer
	Logger   *log.Logger

	metrics      *pipelineMetrics
	now          func() time.Time
	customRoutes []func(*App)
	staticDir    string
}

// New creates an App with middleware and routes registered. It does not
// touch the post store; that happens per request.
func New(cfg SiteConfig, opts ...Option) (*App, error) {
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("blog: %w", err)
	}

	logger := log.New("blog")
	logger.SetLevel(parseLevel(cfg.LogLevel))

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Index:     content.NewIndex(content.OpenSource(cfg.PostsStore)),
		Scanner:   routes.Scanner{Root: cfg.PostsDir},
		Markdown:  markdown.New(),
		Logger:    logger,
		metrics:   newPipelineMetrics(),
		now:       time.Now,
		staticDir: "public",
	}
	for _, opt := range opts {
		opt(a)
	}

	a.Echo.HideBanner = true
	a.Echo.Logger = a.Logger
	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return a, nil
}

// Start serves HTTP on Config.Addr until the server is shut down.
func (a *App) Start() error {
	a.Logger.Infof("serving %s on %s (store %s, posts %s)", a.Config.URL, a.Config.Addr, a.Config.PostsStore, a.Config.PostsDir)
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server, waiting for in-flight requests until ctx ends.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	if _, err := os.Stat(a.staticDir); err == nil {
		e.Static("/public", a.staticDir)
	}
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	if a.Config.MetricsEnabled {
		e.GET("/metrics", echo.WrapHandler(a.metrics.handler()))
	}

	e.GET("/", a.handleHome)
	e.GET("/posts", handlePostsRedirect)
	e.GET("/posts/:route", a.handlePost)
	e.GET("/posts/:route/*", a.handlePostAsset)
}

func (a *App) siteView() views.SiteConfig {
	return views.SiteConfig{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
		Author:      a.Config.Author,
		GitHub:      a.Config.GitHub,
		Lang:        a.Config.Lang,
	}
}

func parseLevel(s string) log.Lvl {
	switch s {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
