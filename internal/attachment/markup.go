package attachment

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
)

type htmlInspector struct{}

func (htmlInspector) Inspect(data []byte, s *Summary) error {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("parse html: %w", err)
	}

	var body []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "nav", "footer", "head":
				return
			case "h1", "h2", "h3", "h4", "h5", "h6":
				if t := textContent(n); t != "" {
					s.Headings = append(s.Headings, t)
				}
				return
			case "p", "li", "td", "blockquote":
				if t := textContent(n); t != "" {
					body = append(body, t)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	s.Excerpt = strings.Join(body, "\n")
	return nil
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.TrimSpace(buf.String())
}

type markdownInspector struct{}

func (markdownInspector) Inspect(data []byte, s *Summary) error {
	doc := goldmark.New().Parser().Parse(text.NewReader(data))

	var body []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			s.Headings = append(s.Headings, blockText(h, data))
			continue
		}
		if t := blockText(n, data); t != "" {
			body = append(body, t)
		}
	}
	s.Excerpt = strings.Join(body, "\n")
	return nil
}

// blockText gets the text of a goldmark node. Leaf blocks such as code
// blocks carry raw lines; everything else is read through its inline children.
func blockText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && !n.HasChildren() {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
		return strings.TrimSpace(buf.String())
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte('\n')
			}
			continue
		}
		buf.WriteString(blockText(c, src))
		if c.Type() == ast.TypeBlock {
			buf.WriteByte('\n')
		}
	}
	return strings.TrimSpace(buf.String())
}
