package blog

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/dkmqflx/blog/listing"
	"github.com/dkmqflx/blog/views"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

func (a *App) handleHome(c echo.Context) error {
	posts, err := a.LoadPosts(c.Request().Context())
	if err != nil {
		return err
	}
	return Render(c, views.Home(a.siteView(), listing.Project(posts)))
}

func handlePostsRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/")
}

func (a *App) handlePost(c echo.Context) error {
	posts, err := a.LoadPosts(c.Request().Context())
	if err != nil {
		return err
	}
	post, err := findPost(posts, routeParam(c))
	if err != nil {
		return echo.ErrNotFound
	}
	body, err := a.renderPostBody(post)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			a.Logger.Warnf("post %q has no folder in %s", post.Route, a.Config.PostsDir)
			return echo.ErrNotFound
		}
		return fmt.Errorf("render post %q: %w", post.Route, err)
	}
	page := views.Post(a.siteView(), post, BuildURL(a.Config.URL, "posts", post.Route), postDescription(post, body), body.Component())
	return Render(c, page)
}

// handlePostAsset serves files stored next to a post's index.md.
func (a *App) handlePostAsset(c echo.Context) error {
	name, ok := assetPath(c.Param("*"))
	if !ok {
		return echo.ErrNotFound
	}
	route := routeParam(c)
	if route == "" || strings.HasPrefix(route, ".") || strings.Contains(route, "/") {
		return echo.ErrNotFound
	}
	return c.File(filepath.Join(a.postDir(route), filepath.FromSlash(name)))
}

// routeParam returns the :route segment decoded. Echo matches on the raw
// path when the request escapes more than url.URL would, leaving the
// segment escaped.
func routeParam(c echo.Context) string {
	route := c.Param("route")
	if c.Request().URL.RawPath != "" {
		if dec, err := url.PathUnescape(route); err == nil {
			return dec
		}
	}
	return route
}

// assetPath cleans a wildcard path, rejecting escapes, hidden files and the
// post body itself.
func assetPath(p string) (string, bool) {
	clean := path.Clean("/" + p)[1:]
	if clean == "" || clean == postBodyFile {
		return "", false
	}
	for _, seg := range strings.Split(clean, "/") {
		if strings.HasPrefix(seg, ".") {
			return "", false
		}
	}
	return clean, true
}

// handleRobots generates robots.txt pointing crawlers at the sitemap.
func (a *App) handleRobots(c echo.Context) error {
	return c.String(http.StatusOK, robotsTxt(a.Config.URL))
}

func robotsTxt(siteURL string) string {
	return fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %s\n", BuildURL(siteURL, "sitemap.xml"))
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.siteView()))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Logger.Errorf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
		_ = RenderStatus(c, code, views.ServerError(a.siteView()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
