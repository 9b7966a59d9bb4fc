package pack

import (
	"bytes"

	"github.com/ethanz-code/font-subsetting/core"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DemoPreviewLength is the number of characters a demo page shows.
const DemoPreviewLength = 100

const demoStyle = `
  body { padding: 40px; font-size: 24px; line-height: 1.5; color: #333; }
  h1 { font-weight: normal; margin-bottom: 20px; }
  .preview { border: 1px solid #eee; padding: 20px; background: #fafafa; border-radius: 8px; word-break: break-all; }
`

// DemoPage creates an HTML page rendering the first characters of chars with
// the subset font declared in fonts.css.
func DemoPage(family, chars string) ([]byte, error) {
	return renderPage(family, "fonts.css", chars, DemoPreviewLength)
}

// renderPage creates a page linking a stylesheet and showing up to n
// characters of text.
func renderPage(family, stylesheet, text string, n int) ([]byte, error) {
	preview := []rune(text)
	ellipsis := len(preview) > n
	if ellipsis {
		preview = preview[:n]
	}
	previewText := string(preview)
	if ellipsis {
		previewText += "..."
	}
	head := element(atom.Head,
		voidElement(atom.Meta, html.Attribute{Key: "charset", Val: "UTF-8"}),
		element(atom.Title, textNode(family+" Subset Demo")),
		voidElement(atom.Link,
			html.Attribute{Key: "rel", Val: "stylesheet"},
			html.Attribute{Key: "href", Val: stylesheet}),
		element(atom.Style, textNode(demoStyle)),
	)
	p := element(atom.P, textNode(previewText))
	p.Attr = []html.Attribute{{Key: "class", Val: "preview"}}
	body := element(atom.Body,
		element(atom.H1, textNode("Font Subset Demo")),
		p,
		element(atom.P, element(atom.Small,
			textNode("Only the characters above are included in this font file."))),
	)
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(element(atom.Html, head, body))
	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, core.WrapError(err, core.EINTERNAL, "cannot render demo page")
	}
	return buf.Bytes(), nil
}

func element(a atom.Atom, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func voidElement(a atom.Atom, attrs ...html.Attribute) *html.Node {
	n := element(a)
	n.Attr = attrs
	return n
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
