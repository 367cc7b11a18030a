// Package escape makes generated Markdown safe for MDX rendering by
// backslash-escaping braces and stray angle brackets in prose.
package escape

import (
	"regexp"
	"strings"
	"unicode"

	"git.home.luguber.info/inful/docapply/internal/markdown"
)

// htmlElements are tag names kept verbatim in prose.
var htmlElements = map[string]struct{}{
	"a": {}, "abbr": {}, "b": {}, "blockquote": {}, "br": {}, "code": {}, "dd": {}, "del": {},
	"details": {}, "div": {}, "dl": {}, "dt": {}, "em": {}, "figcaption": {}, "figure": {},
	"h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {}, "hr": {}, "i": {}, "img": {},
	"ins": {}, "kbd": {}, "li": {}, "mark": {}, "ol": {}, "p": {}, "picture": {}, "pre": {},
	"s": {}, "samp": {}, "small": {}, "source": {}, "span": {}, "strong": {}, "sub": {},
	"summary": {}, "sup": {}, "table": {}, "tbody": {}, "td": {}, "tfoot": {}, "th": {},
	"thead": {}, "tr": {}, "u": {}, "ul": {}, "var": {}, "video": {},
}

var (
	tagShape   = regexp.MustCompile(`^</?([A-Za-z][A-Za-z0-9.\-]*)(?:\s[^<>]*)?/?>`)
	headingRe  = regexp.MustCompile(`^ {0,3}#{1,6}(?:\s|$)`)
	quoteRe    = regexp.MustCompile(`^\s*>`)
	listItemRe = regexp.MustCompile(`^\s*(?:[-*+]|\d{1,9}[.)])(?:\s|$)`)
)

// Escape returns text with MDX-breaking characters escaped outside fenced
// and indented code, inline code, HTML comments, front matter and recognised
// tags. Headings, blockquotes and list items are left as they are.
func Escape(text string) string {
	lines := strings.Split(text, "\n")
	start := frontMatterEnd(lines)

	var (
		fence     markdown.Fence
		inComment bool
		inList    bool
		inCode    bool
		prevBlank = true
	)
	lastClose := lastLineContaining(lines, "-->")
	for i := start; i < len(lines); i++ {
		line := lines[i]
		if inComment {
			lines[i], inComment = escapeLine(line, true, false)
			continue
		}
		if fence.Feed(line) {
			prevBlank = false
			continue
		}
		if strings.TrimSpace(line) == "" {
			prevBlank = true
			continue
		}
		indented := isIndented(line)
		// Indented code cannot interrupt a paragraph and inside a list it is continuation text.
		if indented && (inCode || (prevBlank && !inList)) {
			inCode = true
			prevBlank = false
			continue
		}
		inCode = false
		switch {
		case listItemRe.MatchString(line):
			inList = true
		case !indented:
			inList = false
		}
		prevBlank = false
		if headingRe.MatchString(line) || quoteRe.MatchString(line) || listItemRe.MatchString(line) {
			continue
		}
		lines[i], inComment = escapeLine(line, false, i < lastClose)
	}
	return strings.Join(lines, "\n")
}

func lastLineContaining(lines []string, sub string) int {
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.Contains(lines[i], sub) {
			return i
		}
	}
	return -1
}

// isIndented reports whether line starts with at least four columns of
// whitespace, counting a tab as a full indent.
func isIndented(line string) bool {
	cols := 0
	for _, c := range line {
		switch c {
		case ' ':
			cols++
		case '\t':
			cols += 4 - cols%4
		default:
			return cols >= 4
		}
		if cols >= 4 {
			return true
		}
	}
	return false
}

// frontMatterEnd returns the index of the first line after a leading front
// matter block, or 0 when there is none.
func frontMatterEnd(lines []string) int {
	if len(lines) == 0 || strings.TrimRight(lines[0], "\r") != "---" {
		return 0
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\r") == "---" {
			return i + 1
		}
	}
	return 0
}

// EscapeLine escapes a single prose line, leaving inline code spans intact.
func EscapeLine(line string) string {
	out, _ := escapeLine(line, false, false)
	return out
}

// escapeLine escapes line. inComment carries an open HTML comment across
// lines; the returned flag reports whether one is still open at the end.
// A comment left open on this line is kept only when closeLater is set,
// otherwise its opener is escaped.
func escapeLine(line string, inComment, closeLater bool) (string, bool) {
	var b strings.Builder
	b.Grow(len(line) + 8)
	for _, seg := range markdown.SplitCodeSpans(line) {
		if seg.Code {
			b.WriteString(seg.Text)
			continue
		}
		inComment = escapeProse(&b, seg.Text, inComment, closeLater)
	}
	return b.String(), inComment
}

func escapeProse(b *strings.Builder, s string, inComment, closeLater bool) bool {
	for i := 0; i < len(s); {
		if inComment {
			end := strings.Index(s[i:], "-->")
			if end < 0 {
				b.WriteString(s[i:])
				return true
			}
			b.WriteString(s[i : i+end+3])
			i += end + 3
			inComment = false
			continue
		}
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s):
			b.WriteString(s[i : i+2])
			i += 2
		case strings.HasPrefix(s[i:], "<!--") && (closeLater || strings.Contains(s[i+4:], "-->")):
			b.WriteString("<!--")
			i += 4
			inComment = true
		case c == '<':
			if m := tagShape.FindStringSubmatch(s[i:]); m != nil && keepTag(m[1]) {
				b.WriteString(m[0])
				i += len(m[0])
				continue
			}
			b.WriteString(`\<`)
			i++
		case c == '>' || c == '{' || c == '}':
			b.WriteByte('\\')
			b.WriteByte(c)
			i++
		default:
			b.WriteByte(c)
			i++
		}
	}
	return inComment
}

// keepTag reports whether a tag name is a standard element or a component.
// Components start with an uppercase letter and have at least two characters,
// so generic notation like <T> is escaped.
func keepTag(name string) bool {
	if _, ok := htmlElements[name]; ok {
		return true
	}
	if len(name) < 2 {
		return false
	}
	return unicode.IsUpper(rune(name[0]))
}
