package export

import (
	"fmt"
	"io"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/outline/model"
)

// WriteHTML writes the result as a <nav> holding the title and the outline
// as nested ordered lists.
func WriteHTML(w io.Writer, result model.Result) error {
	if err := html.Render(w, TOCNode(result)); err != nil {
		return fmt.Errorf("failed to render outline: %w", err)
	}
	return nil
}

// TOCNode builds the <nav> tree for result.
func TOCNode(result model.Result) *html.Node {
	nav := element(atom.Nav, html.Attribute{Key: "class", Val: "outline"})
	if result.Title != "" {
		h := element(atom.H1)
		h.AppendChild(text(result.Title))
		nav.AppendChild(h)
	}
	if len(result.Outline) == 0 {
		return nav
	}

	root := element(atom.Ol)
	nav.AppendChild(root)
	stack := []*html.Node{root}
	for _, h := range result.Outline {
		d := depth(h.Level)
		for len(stack) > d {
			stack = stack[:len(stack)-1]
		}
		for len(stack) < d {
			parent := stack[len(stack)-1]
			li := parent.LastChild
			if li == nil {
				li = element(atom.Li)
				parent.AppendChild(li)
			}
			ol := element(atom.Ol)
			li.AppendChild(ol)
			stack = append(stack, ol)
		}

		li := element(atom.Li, html.Attribute{Key: "data-page", Val: strconv.Itoa(h.Page)})
		li.AppendChild(text(h.Text))
		stack[len(stack)-1].AppendChild(li)
	}
	return nav
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
