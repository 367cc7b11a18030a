package lint

import (
	"strings"

	"git.home.luguber.info/inful/docapply/internal/frontmatter"
	"git.home.luguber.info/inful/docapply/internal/markdown"
)

// Document is content prepared for rules. Prose holds one entry per source
// line with fenced code, front matter, inline code spans, HTML comments and
// backslash-escaped characters blanked out, so byte columns still line up.
type Document struct {
	Filename string
	Content  string
	Lines    []string
	Prose    []string

	frontMatterErr error
}

// NewDocument prepares content for linting.
func NewDocument(content, filename string) *Document {
	lines := strings.Split(content, "\n")
	doc := &Document{Filename: filename, Content: content, Lines: lines, Prose: make([]string, len(lines))}

	start := 0
	if _, _, had, _, err := frontmatter.Split([]byte(content)); err != nil {
		doc.frontMatterErr = err
	} else if had {
		start = frontmatter.BodyLine([]byte(content)) - 1
	}

	var fence markdown.Fence
	inComment := false
	for i, line := range lines {
		if i < start || fence.Feed(line) {
			continue
		}
		var prose string
		prose, inComment = maskLine(line, inComment)
		doc.Prose[i] = prose
	}
	return doc
}

// maskLine blanks code spans, comments and escapes in line. inComment carries
// an open HTML comment across lines.
func maskLine(line string, inComment bool) (string, bool) {
	var b strings.Builder
	b.Grow(len(line))
	for _, seg := range markdown.SplitCodeSpans(line) {
		if seg.Code && !inComment {
			b.WriteString(strings.Repeat(" ", len(seg.Text)))
			continue
		}
		s := seg.Text
		for i := 0; i < len(s); {
			if inComment {
				if strings.HasPrefix(s[i:], "-->") {
					b.WriteString("   ")
					i += 3
					inComment = false
					continue
				}
				b.WriteByte(' ')
				i++
				continue
			}
			if strings.HasPrefix(s[i:], "<!--") {
				b.WriteString("    ")
				i += 4
				inComment = true
				continue
			}
			if s[i] == '\\' && i+1 < len(s) {
				b.WriteString("  ")
				i += 2
				continue
			}
			b.WriteByte(s[i])
			i++
		}
	}
	return b.String(), inComment
}
