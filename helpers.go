package blog

import "github.com/dkmqflx/blog/sitemap"

// BuildURL joins a base URL with path segments. Without segments it returns
// the base URL as given, minus any trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	return sitemap.JoinURL(base, pathSegments...)
}
