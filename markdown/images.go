package markdown

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	_ "golang.org/x/image/webp"
)

var assetsKey = parser.NewContextKey()

type assets struct {
	dir    string
	prefix string
}

// imageTransformer points relative images at the post's asset URL and gives
// them intrinsic width and height so the page does not reflow while loading.
type imageTransformer struct{}

func (imageTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	a, ok := pc.Get(assetsKey).(assets)
	if !ok {
		return
	}
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		img, ok := n.(*ast.Image)
		if !ok {
			return ast.WalkContinue, nil
		}
		name, ok := localAsset(string(img.Destination))
		if !ok {
			return ast.WalkContinue, nil
		}
		if a.prefix != "" {
			img.Destination = []byte(path.Join(a.prefix, name))
		}
		img.SetAttributeString("loading", []byte("lazy"))
		if w, h, err := imageSize(filepath.Join(a.dir, filepath.FromSlash(name))); err == nil {
			img.SetAttributeString("width", []byte(strconv.Itoa(w)))
			img.SetAttributeString("height", []byte(strconv.Itoa(h)))
		}
		return ast.WalkContinue, nil
	})
}

// localAsset returns the cleaned relative path of dest when it names a file
// inside the post folder.
func localAsset(dest string) (string, bool) {
	u, err := url.Parse(dest)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" {
		return "", false
	}
	if strings.HasPrefix(u.Path, "/") {
		return "", false
	}
	clean := path.Clean(u.Path)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", false
	}
	return clean, true
}

func imageSize(file string) (int, int, error) {
	f, err := os.Open(file)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
