package views

import (
	"encoding/json"

	"github.com/a-h/templ"

	"github.com/dkmqflx/blog/content"
)

func pageTitle(cfg SiteConfig, meta PageMeta) string {
	if meta.Title == "" {
		return cfg.Name
	}
	return meta.Title + " | " + cfg.Name
}

func pageDescription(cfg SiteConfig, meta PageMeta) string {
	if meta.Description == "" {
		return cfg.Description
	}
	return meta.Description
}

func ogType(meta PageMeta) string {
	if meta.OGType == "" {
		return "website"
	}
	return meta.OGType
}

func postMeta(cfg SiteConfig, post content.Post, postURL, description string) PageMeta {
	return PageMeta{
		Title:       post.Title,
		Description: description,
		URL:         postURL,
		OGType:      "article",
		JSONLD:      BlogPostingJsonLD(cfg, post, postURL, description),
	}
}

// jsonLD writes payload in a JSON-LD script block. payload must come from
// json.Marshal, which escapes <, > and &.
func jsonLD(payload string) templ.Component {
	return templ.Raw(`<script type="application/ld+json">` + payload + `</script>`)
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block using cfg values.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     cfg.Name,
		"url":      cfg.URL,
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	return marshalJSONLD(data)
}

// BlogPostingJsonLD produces a Schema.org BlogPosting JSON-LD block for a post.
func BlogPostingJsonLD(cfg SiteConfig, post content.Post, postURL, description string) string {
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"datePublished": post.DateText,
		"url":           postURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if description != "" {
		data["description"] = description
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	return marshalJSONLD(data)
}

func marshalJSONLD(data map[string]interface{}) string {
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
