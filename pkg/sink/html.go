package sink

import (
	"bytes"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/matzehuels/vrplot/pkg/errors"
	"github.com/matzehuels/vrplot/pkg/scene"
)

// HTMLOption configures HTML rendering via [RenderHTML].
type HTMLOption func(*htmlRenderer)

type htmlRenderer struct {
	embedded   bool
	background string
	stats      bool
	validate   bool
}

// WithEmbedded renders an embedded a-scene that fits its container instead
// of filling the window.
func WithEmbedded() HTMLOption { return func(r *htmlRenderer) { r.embedded = true } }

// WithBackground sets the scene background colour. Ignored when the scene
// uses an environment template.
func WithBackground(color string) HTMLOption {
	return func(r *htmlRenderer) { r.background = color }
}

// WithStats shows the A-Frame performance panel.
func WithStats() HTMLOption { return func(r *htmlRenderer) { r.stats = true } }

// WithoutValidation skips [scene.Scene.Validate] before rendering.
func WithoutValidation() HTMLOption { return func(r *htmlRenderer) { r.validate = false } }

// RenderHTML renders s as a standalone HTML document.
func RenderHTML(s scene.Scene, opts ...HTMLOption) ([]byte, error) {
	r := htmlRenderer{validate: true}
	for _, opt := range opts {
		opt(&r)
	}
	if r.validate {
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, r.document(s)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render html")
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func (r *htmlRenderer) document(s scene.Scene) *html.Node {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html, attr("lang", "en"))
	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, attr("charset", "utf-8")))
	if s.Title != "" {
		title := element(atom.Title)
		title.AppendChild(&html.Node{Type: html.TextNode, Data: s.Title})
		head.AppendChild(title)
	}
	for _, src := range s.Scripts {
		head.AppendChild(element(atom.Script, attr("src", src)))
	}

	body := element(atom.Body)
	body.AppendChild(r.sceneNode(s))
	root.AppendChild(head)
	root.AppendChild(body)
	doc.AppendChild(root)
	return doc
}

func (r *htmlRenderer) sceneNode(s scene.Scene) *html.Node {
	var attrs []html.Attribute
	if r.embedded {
		attrs = append(attrs, attr("embedded", ""))
	}
	if r.stats {
		attrs = append(attrs, attr("stats", ""))
	}
	if s.Template != "" {
		attrs = append(attrs, attr("environment", "preset: "+s.Template))
	} else if r.background != "" {
		attrs = append(attrs, attr("background", "color: "+r.background))
	}
	n := custom("a-scene", attrs...)

	if len(s.Assets) > 0 {
		assets := custom("a-assets")
		for _, e := range s.Assets {
			assets.AppendChild(entityNode(e))
		}
		n.AppendChild(assets)
	}
	for _, e := range s.Children {
		n.AppendChild(entityNode(e))
	}
	return n
}

func entityNode(e *scene.Entity) *html.Node {
	attrs := e.Attributes()
	names := scene.AttributeNames(attrs)
	list := make([]html.Attribute, len(names))
	for i, k := range names {
		list[i] = attr(k, attrs[k])
	}
	n := custom(e.Tag, list...)
	for _, c := range e.Children {
		n.AppendChild(entityNode(c))
	}
	return n
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

// custom returns a node for an element name with no atom, such as the
// A-Frame a-* elements.
func custom(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: tag, Attr: attrs}
}

func attr(k, v string) html.Attribute {
	return html.Attribute{Key: k, Val: v}
}
