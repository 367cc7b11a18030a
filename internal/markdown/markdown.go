// Package markdown holds the Markdown analysis helpers shared by the
// analyzer, linter, escaper and validator. It never re-renders Markdown.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Options controls how Markdown is parsed for internal analysis.
type Options struct {
	// LineOffset is added to reported line numbers when the body was cut from
	// a larger file, for example after removing front matter.
	LineOffset int
}

// ParseBody parses a Markdown body (frontmatter already removed) into a Goldmark AST.
func ParseBody(body []byte) gmast.Node {
	return goldmark.New().Parser().Parse(text.NewReader(body))
}

func parseWithContext(body []byte) (gmast.Node, parser.Context) {
	ctx := parser.NewContext()
	root := goldmark.New().Parser().Parse(text.NewReader(body), parser.WithContext(ctx))
	return root, ctx
}

// PlainText returns the visible inline text of n. Link and emphasis markup is
// dropped while their text is kept; images and raw HTML are skipped.
func PlainText(n gmast.Node, source []byte) string {
	var b strings.Builder
	writePlain(&b, n, source)
	return strings.Join(strings.Fields(b.String()), " ")
}

func writePlain(b *strings.Builder, n gmast.Node, source []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *gmast.Text:
			b.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *gmast.String:
			b.Write(node.Value)
		case *gmast.Image, *gmast.RawHTML, *gmast.AutoLink:
			continue
		default:
			writePlain(b, c, source)
		}
	}
}

// lineOf returns the 1-based line number containing byte offset off.
func lineOf(source []byte, off int) int {
	if off > len(source) {
		off = len(source)
	}
	return bytes.Count(source[:off], []byte("\n")) + 1
}

func firstLine(n gmast.Node, source []byte) int {
	// Lines panics on inline nodes.
	if n.Type() == gmast.TypeBlock {
		if lines := n.Lines(); lines != nil && lines.Len() > 0 {
			return lineOf(source, lines.At(0).Start)
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if l := firstLine(c, source); l > 0 {
			return l
		}
	}
	if t, ok := n.(*gmast.Text); ok {
		return lineOf(source, t.Segment.Start)
	}
	return 0
}
