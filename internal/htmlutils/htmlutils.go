// Package htmlutils provides HTML document tree helpers used to read statement tables.
package htmlutils

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse builds a document tree from HTML text. Malformed markup is repaired
// by the HTML5 parsing algorithm rather than rejected.
func Parse(text string) (*html.Node, error) {
	doc, err := html.Parse(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// FindElementByID returns the first tag element whose id attribute equals id,
// or nil when the document has none.
func FindElementByID(root *html.Node, tag atom.Atom, id string) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == tag && Attr(n, "id") == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// FindAll returns every descendant element of root with the given tag, in
// document order. Nested matches are included.
func FindAll(root *html.Node, tag atom.Atom) []*html.Node {
	var nodes []*html.Node
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		walk(c, func(n *html.Node) bool {
			if n.Type == html.ElementNode && n.DataAtom == tag {
				nodes = append(nodes, n)
			}
			return true
		})
	}
	return nodes
}

// Text returns the text content of n with every text node trimmed of
// surrounding whitespace and the pieces joined without separator.
func Text(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			b.WriteString(strings.TrimSpace(c.Data))
		}
		return true
	})
	return b.String()
}

// CellTexts returns Text of every td descendant of row.
func CellTexts(row *html.Node) []string {
	cells := FindAll(row, atom.Td)
	texts := make([]string, len(cells))
	for i, cell := range cells {
		texts[i] = Text(cell)
	}
	return texts
}

// Attr returns the value of the named attribute, or "".
func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// GetOrEmpty returns the value at the specified index in a slice, or an empty string if the index is out of bounds
func GetOrEmpty(slice []string, index int) string {
	if index >= 0 && index < len(slice) {
		return slice[index]
	}
	return ""
}

// walk visits n and its descendants depth-first; visit returning false stops the walk.
func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if !visit(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, visit) {
			return false
		}
	}
	return true
}
