package markdown

import (
	"sort"

	gmast "github.com/yuin/goldmark/ast"
)

type LinkKind string

const (
	LinkKindInline              LinkKind = "inline"
	LinkKindImage               LinkKind = "image"
	LinkKindAuto                LinkKind = "auto"
	LinkKindReferenceDefinition LinkKind = "reference_definition"
)

type Link struct {
	Kind        LinkKind
	Destination string
	// Line is 1-based within the parsed body plus Options.LineOffset; 0 if unknown.
	Line int
}

// ExtractLinks parses a Markdown body and extracts link-like constructs.
func ExtractLinks(body []byte, opts Options) []Link {
	root, ctx := parseWithContext(body)

	links := make([]Link, 0)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *gmast.AutoLink:
			links = append(links, Link{Kind: LinkKindAuto, Destination: string(node.URL(body)), Line: inlineLine(n, body, opts)})
		case *gmast.Image:
			links = append(links, Link{Kind: LinkKindImage, Destination: string(node.Destination), Line: inlineLine(n, body, opts)})
		case *gmast.Link:
			// Goldmark resolves reference-style links to a Link node with a Destination.
			links = append(links, Link{Kind: LinkKindInline, Destination: string(node.Destination), Line: inlineLine(n, body, opts)})
		}
		return gmast.WalkContinue, nil
	})

	// Reference definitions live in the parse context, not the AST.
	refs := ctx.References()
	sort.Slice(refs, func(i, j int) bool {
		return string(refs[i].Label()) < string(refs[j].Label())
	})
	for _, ref := range refs {
		links = append(links, Link{Kind: LinkKindReferenceDefinition, Destination: string(ref.Destination())})
	}
	return links
}

// inlineLine locates an inline node through its own text or, failing that, its enclosing block.
func inlineLine(n gmast.Node, body []byte, opts Options) int {
	line := firstLine(n, body)
	for p := n.Parent(); line == 0 && p != nil; p = p.Parent() {
		if p.Type() == gmast.TypeBlock {
			line = firstLine(p, body)
		}
	}
	if line > 0 {
		line += opts.LineOffset
	}
	return line
}
