// Package markdown renders post bodies, with an optional front matter block,
// to HTML as templ components.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/a-h/templ"
	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// Meta is the front matter of a post body.
type Meta struct {
	Description string `yaml:"description" toml:"description" json:"description"`
}

// Document is a rendered post body.
type Document struct {
	Meta Meta
	HTML []byte
}

// Component writes the rendered HTML.
func (d Document) Component() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := w.Write(d.HTML)
		return err
	})
}

// Renderer converts Markdown to HTML. It is safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

// New creates a Renderer with GitHub-flavoured Markdown, heading IDs and
// sized images.
func New() *Renderer {
	return &Renderer{md: goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(util.Prioritized(imageTransformer{}, 500)),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithUnsafe(),
		),
	)}
}

// Convert renders src. Relative images are resolved against assetDir on
// disk and served under urlPrefix; pass empty strings to leave them alone.
func (r *Renderer) Convert(src []byte, assetDir, urlPrefix string) (Document, error) {
	var doc Document
	body, err := frontmatter.Parse(bytes.NewReader(src), &doc.Meta)
	if err != nil {
		return Document{}, fmt.Errorf("parse front matter: %w", err)
	}
	pc := parser.NewContext()
	if assetDir != "" {
		pc.Set(assetsKey, assets{dir: assetDir, prefix: urlPrefix})
	}
	var buf bytes.Buffer
	if err := r.md.Convert(body, &buf, parser.WithContext(pc)); err != nil {
		return Document{}, fmt.Errorf("render markdown: %w", err)
	}
	doc.HTML = buf.Bytes()
	return doc, nil
}

// ConvertFile renders the file at path; its directory holds the images.
func (r *Renderer) ConvertFile(path, urlPrefix string) (Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	return r.Convert(src, filepath.Dir(path), urlPrefix)
}
