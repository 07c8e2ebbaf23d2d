package views

// SiteConfig holds site-wide settings. Every page receives it so nothing
// about the site is hardcoded in templates.
type SiteConfig struct {
	Name        string
	URL         string
	Description string
	Author      string
	GitHub      string // profile link shown in the header
	Lang        string // <html lang>
}

// PageMeta carries per-page SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	JSONLD      string
}
