package markdown

import gmast "github.com/yuin/goldmark/ast"

// Heading is a top-level heading of a document.
type Heading struct {
	Level int
	Text  string
	// Line is 1-based, or 0 when the heading carries no text to locate.
	Line int
	// Empty is set when the heading is directly followed by another heading or the end of the document.
	Empty bool
}

// Outline returns the document-level headings of body in order.
func Outline(body []byte, opts Options) []Heading {
	root := ParseBody(body)
	out := make([]Heading, 0)
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*gmast.Heading)
		if !ok {
			continue
		}
		_, nextIsHeading := n.NextSibling().(*gmast.Heading)
		line := firstLine(h, body)
		if line > 0 {
			line += opts.LineOffset
		}
		out = append(out, Heading{
			Level: h.Level,
			Text:  PlainText(h, body),
			Line:  line,
			Empty: n.NextSibling() == nil || nextIsHeading,
		})
	}
	return out
}

// FirstHeading returns the text of the first heading with the given level.
func FirstHeading(body []byte, level int) (string, bool) {
	root := ParseBody(body)
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*gmast.Heading); ok && h.Level == level {
			if t := PlainText(h, body); t != "" {
				return t, true
			}
		}
	}
	return "", false
}

// FirstParagraph returns the text of the first document-level paragraph that
// still has visible text once images and markup are removed. Badge rows are
// skipped that way.
func FirstParagraph(body []byte) (string, bool) {
	root := ParseBody(body)
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if n.Kind() != gmast.KindParagraph {
			continue
		}
		if t := PlainText(n, body); t != "" {
			return t, true
		}
	}
	return "", false
}
