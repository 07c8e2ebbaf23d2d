// Package sitemap builds the sitemaps.org document for the blog.
package sitemap

import (
	"bytes"
	"encoding/xml"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/dkmqflx/blog/content"
	"github.com/dkmqflx/blog/routes"
)

// Namespace is the sitemaps.org 0.9 schema.
const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq is the <changefreq> hint of an entry.
type ChangeFreq string

const (
	Yearly  ChangeFreq = "yearly"
	Monthly ChangeFreq = "monthly"
)

const (
	rootPriority = 1.0
	postPriority = 0.6
)

// Entry is one crawlable URL.
type Entry struct {
	Location     string
	LastModified time.Time
	ChangeFreq   ChangeFreq
	Priority     float64
}

// Document is a generated sitemap. Mismatch reports folders without posts
// and posts without folders; it never changes Entries.
type Document struct {
	Entries  []Entry
	Mismatch routes.Mismatch
}

// Build creates the sitemap: the site root first, then one entry per
// discovered folder in the given order. Every entry carries generatedAt.
func Build(baseURL string, posts []content.Post, folders []string, generatedAt time.Time) Document {
	entries := make([]Entry, 0, 1+len(folders))
	entries = append(entries, Entry{
		Location:     JoinURL(baseURL),
		LastModified: generatedAt,
		ChangeFreq:   Yearly,
		Priority:     rootPriority,
	})
	for _, folder := range folders {
		entries = append(entries, Entry{
			Location:     JoinURL(baseURL, "posts", folder),
			LastModified: generatedAt,
			ChangeFreq:   Monthly,
			Priority:     postPriority,
		})
	}
	return Document{
		Entries:  entries,
		Mismatch: routes.Reconcile(content.Routes(posts), folders),
	}
}

type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	URLs    []urlXML `xml:"url"`
}

type urlXML struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// Marshal serializes the document with the XML declaration.
func (d Document) Marshal() ([]byte, error) {
	set := urlSet{
		XMLNS: Namespace,
		URLs:  make([]urlXML, len(d.Entries)),
	}
	for i, e := range d.Entries {
		set.URLs[i] = urlXML{
			Loc:        e.Location,
			LastMod:    e.LastModified.UTC().Format(time.RFC3339),
			ChangeFreq: string(e.ChangeFreq),
			Priority:   strconv.FormatFloat(e.Priority, 'f', 1, 64),
		}
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// JoinURL joins path segments onto base. With no segments it returns base
// without a trailing slash.
func JoinURL(base string, pathSegments ...string) string {
	base = strings.TrimRight(base, "/")
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	if len(pathSegments) == 0 {
		return u.String()
	}
	u.Path = path.Join("/", u.Path, path.Join(pathSegments...))
	return u.String()
}
