// Package richtext turns the HTML of a rich text section into plain text
// blocks that the layout engine can wrap.
package richtext

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// BlockType represents the type of a text block
type BlockType int

const (
	BlockParagraph BlockType = iota
	BlockHeading
	BlockListItem
	BlockQuote
)

func (t BlockType) String() string {
	switch t {
	case BlockParagraph:
		return "paragraph"
	case BlockHeading:
		return "heading"
	case BlockListItem:
		return "listItem"
	case BlockQuote:
		return "quote"
	}
	return "unknown"
}

// Block is one run of text with whitespace collapsed
type Block struct {
	Type  BlockType
	Text  string
	Level int // heading level 1-6, or list nesting depth starting at 0
	Index int // 1-based position in an ordered list, 0 for bullets
}

// Marker returns the prefix printed before a list item
func (b Block) Marker() string {
	if b.Type != BlockListItem {
		return ""
	}
	if b.Index > 0 {
		return fmt.Sprintf("%d.", b.Index)
	}
	return "•"
}

// Parse converts an HTML fragment into blocks. Markup that is not valid
// HTML is still parsed leniently; Parse only fails when the tokenizer does.
func Parse(src string) ([]Block, error) {
	nodes, err := html.ParseFragment(strings.NewReader(src), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	p := &parser{}
	for _, n := range nodes {
		p.traverse(n)
	}
	p.flush()
	return p.blocks, nil
}

// PlainText returns the text of the fragment with one block per line
func PlainText(src string) string {
	blocks, err := Parse(src)
	if err != nil {
		return collapse(src)
	}
	lines := make([]string, len(blocks))
	for i, b := range blocks {
		if m := b.Marker(); m != "" {
			lines[i] = m + " " + b.Text
		} else {
			lines[i] = b.Text
		}
	}
	return strings.Join(lines, "\n")
}

type listState struct {
	ordered bool
	next    int
}

// parser accumulates inline text until a block boundary
type parser struct {
	blocks []Block
	inline strings.Builder
	lists  []listState
	quote  int
}

func (p *parser) flush() {
	text := collapse(p.inline.String())
	p.inline.Reset()
	if text == "" {
		return
	}
	t := BlockParagraph
	if p.quote > 0 {
		t = BlockQuote
	}
	p.blocks = append(p.blocks, Block{Type: t, Text: text})
}

func (p *parser) traverse(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		p.inline.WriteString(n.Data)
		return
	case html.ElementNode:
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			p.traverse(c)
		}
		return
	}

	if shouldSkipElement(n.Data) {
		return
	}

	switch n.Data {
	case "br":
		p.flush()

	case "h1", "h2", "h3", "h4", "h5", "h6":
		p.flush()
		if text := collapse(textContent(n)); text != "" {
			p.blocks = append(p.blocks, Block{Type: BlockHeading, Text: text, Level: int(n.Data[1] - '0')})
		}

	case "ul", "ol":
		p.flush()
		p.lists = append(p.lists, listState{ordered: n.Data == "ol", next: 1})
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			p.traverse(c)
		}
		p.lists = p.lists[:len(p.lists)-1]

	case "li":
		p.flush()
		text := collapse(directText(n))
		if text != "" {
			b := Block{Type: BlockListItem, Text: text}
			if depth := len(p.lists); depth > 0 {
				b.Level = depth - 1
				st := &p.lists[depth-1]
				if st.ordered {
					b.Index = st.next
					st.next++
				}
			}
			p.blocks = append(p.blocks, b)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && (c.Data == "ul" || c.Data == "ol") {
				p.traverse(c)
			}
		}

	case "blockquote":
		p.flush()
		p.quote++
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			p.traverse(c)
		}
		p.flush()
		p.quote--

	case "p", "div", "section", "article", "pre", "table", "tr":
		p.flush()
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			p.traverse(c)
		}
		p.flush()

	case "td", "th":
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			p.traverse(c)
		}
		p.inline.WriteString(" ")

	default:
		// inline elements: b, i, span, a, em, strong...
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			p.traverse(c)
		}
	}
}

// shouldSkipElement returns true if the element has no printable text
func shouldSkipElement(tagName string) bool {
	switch tagName {
	case "script", "style", "noscript", "template", "svg", "math", "iframe", "object", "embed", "img", "video":
		return true
	}
	return false
}

// textContent extracts all text content from a node and its descendants
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && shouldSkipElement(n.Data) {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && n.Data == "br" {
			b.WriteString(" ")
		}
	}
	walk(n)
	return b.String()
}

// directText gets the text of a list item, excluding nested lists
func directText(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode:
			b.WriteString(c.Data)
		case c.Type == html.ElementNode && (c.Data == "ul" || c.Data == "ol"):
		case c.Type == html.ElementNode:
			b.WriteString(" ")
			b.WriteString(textContent(c))
			b.WriteString(" ")
		}
	}
	return b.String()
}

// collapse trims and reduces whitespace runs to a single space
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
