package sitemap

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/dkmqflx/blog/content"
)

var generatedAt = time.Date(2024, 7, 1, 9, 30, 0, 0, time.UTC)

func TestBuildScenario(t *testing.T) {
	posts := []content.Post{{Title: "B", Route: "b"}, {Title: "A", Route: "a"}}
	doc := Build("https://example.com", posts, []string{"a", "b"}, generatedAt)

	want := []struct {
		loc      string
		freq     ChangeFreq
		priority float64
	}{
		{"https://example.com", Yearly, 1.0},
		{"https://example.com/posts/a", Monthly, 0.6},
		{"https://example.com/posts/b", Monthly, 0.6},
	}
	if len(doc.Entries) != len(want) {
		t.Fatalf("len(Entries) = %d, want %d", len(doc.Entries), len(want))
	}
	for i, w := range want {
		e := doc.Entries[i]
		if e.Location != w.loc {
			t.Errorf("Entries[%d].Location = %q, want %q", i, e.Location, w.loc)
		}
		if e.ChangeFreq != w.freq {
			t.Errorf("Entries[%d].ChangeFreq = %q, want %q", i, e.ChangeFreq, w.freq)
		}
		if e.Priority != w.priority {
			t.Errorf("Entries[%d].Priority = %v, want %v", i, e.Priority, w.priority)
		}
		if !e.LastModified.Equal(generatedAt) {
			t.Errorf("Entries[%d].LastModified = %v, want %v", i, e.LastModified, generatedAt)
		}
	}
	if !doc.Mismatch.Empty() {
		t.Errorf("Mismatch = %v, want empty", doc.Mismatch)
	}
}

func TestBuildEntryCount(t *testing.T) {
	for _, folders := range [][]string{nil, {"x"}, {"x", "y", "z"}} {
		doc := Build("https://example.com", nil, folders, generatedAt)
		if len(doc.Entries) != 1+len(folders) {
			t.Errorf("folders %v: len(Entries) = %d, want %d", folders, len(doc.Entries), 1+len(folders))
		}
		if doc.Entries[0].Priority != 1.0 || doc.Entries[0].ChangeFreq != Yearly {
			t.Errorf("folders %v: first entry = %+v, want root entry", folders, doc.Entries[0])
		}
	}
}

func TestBuildReportsMismatchWithoutDroppingEntries(t *testing.T) {
	posts := []content.Post{{Route: "a"}, {Route: "gone"}}
	doc := Build("https://example.com", posts, []string{"a", "about"}, generatedAt)
	if len(doc.Entries) != 3 {
		t.Fatalf("len(Entries) = %d, want 3", len(doc.Entries))
	}
	if strings.Join(doc.Mismatch.Orphans, ",") != "about" {
		t.Errorf("Orphans = %v, want [about]", doc.Mismatch.Orphans)
	}
	if strings.Join(doc.Mismatch.Missing, ",") != "gone" {
		t.Errorf("Missing = %v, want [gone]", doc.Mismatch.Missing)
	}
}

func TestMarshal(t *testing.T) {
	doc := Build("https://example.com/", nil, []string{"hello world"}, generatedAt)
	b, err := doc.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	got := string(b)
	if !strings.HasPrefix(got, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Errorf("missing XML declaration: %q", got)
	}
	for _, want := range []string{
		`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`,
		`<loc>https://example.com</loc>`,
		`<loc>https://example.com/posts/hello%20world</loc>`,
		`<lastmod>2024-07-01T09:30:00Z</lastmod>`,
		`<changefreq>yearly</changefreq>`,
		`<changefreq>monthly</changefreq>`,
		`<priority>1.0</priority>`,
		`<priority>0.6</priority>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %s:\n%s", want, got)
		}
	}

	var parsed struct {
		URLs []struct {
			Loc string `xml:"loc"`
		} `xml:"url"`
	}
	if err := xml.Unmarshal(b, &parsed); err != nil {
		t.Fatalf("output is not valid XML: %v", err)
	}
	if len(parsed.URLs) != 2 {
		t.Errorf("parsed %d <url> elements, want 2", len(parsed.URLs))
	}
}

func TestMarshalUsesUTC(t *testing.T) {
	local := time.Date(2024, 7, 1, 18, 30, 0, 0, time.FixedZone("KST", 9*3600))
	b, err := Build("https://example.com", nil, nil, local).Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(b), "<lastmod>2024-07-01T09:30:00Z</lastmod>") {
		t.Errorf("lastmod should be UTC: %s", b)
	}
}

func TestJoinURL(t *testing.T) {
	tests := []struct {
		base     string
		segments []string
		want     string
	}{
		{"https://example.com", nil, "https://example.com"},
		{"https://example.com/", nil, "https://example.com"},
		{"https://example.com", []string{"posts", "a"}, "https://example.com/posts/a"},
		{"https://example.com/blog/", []string{"posts", "a"}, "https://example.com/blog/posts/a"},
		{"http://localhost:3000", []string{"sitemap.xml"}, "http://localhost:3000/sitemap.xml"},
	}
	for _, tt := range tests {
		if got := JoinURL(tt.base, tt.segments...); got != tt.want {
			t.Errorf("JoinURL(%q, %v) = %q, want %q", tt.base, tt.segments, got, tt.want)
		}
	}
}
