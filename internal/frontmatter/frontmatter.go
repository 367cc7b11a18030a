// Package frontmatter reads and writes the YAML front matter block of
// generated Markdown and MDX documents.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// Style captures the newline shape of a document so rewrites stay stable.
// Original YAML formatting is not preserved.
type Style struct {
	Newline            string
	HasTrailingNewline bool
}

// ErrMissingClosingDelimiter indicates the document opened a front matter
// block that never closes.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Split separates `---` delimited front matter from the body.
//
// If the document does not start with a delimiter, had is false and body is the full input.
func Split(content []byte) (front []byte, body []byte, had bool, style Style, err error) {
	style = detectStyle(content)

	delim := []byte("---" + style.Newline)
	if !bytes.HasPrefix(content, delim) {
		return nil, content, false, style, nil
	}

	start := len(delim)
	if bytes.HasPrefix(content[start:], delim) {
		return []byte{}, content[start+len(delim):], true, style, nil
	}

	closeSeq := []byte(style.Newline + "---" + style.Newline)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		// A closing delimiter on the very last line has no trailing newline.
		if bytes.HasSuffix(content, []byte(style.Newline+"---")) {
			end := len(content) - len("---")
			return content[start:end], []byte{}, true, style, nil
		}
		return nil, nil, false, style, ErrMissingClosingDelimiter
	}

	end := start + idx + len(style.Newline)
	return content[start:end], content[start+idx+len(closeSeq):], true, style, nil
}

// Join reassembles a document from raw front matter and body. When had is false
// the body is returned unchanged.
func Join(front []byte, body []byte, had bool, style Style) []byte {
	if !had {
		return body
	}
	nl := style.Newline
	if nl == "" {
		nl = "\n"
	}

	out := make([]byte, 0, 2*(3+len(nl))+len(front)+len(body))
	out = append(out, "---"+nl...)
	out = append(out, front...)
	out = append(out, "---"+nl...)
	out = append(out, body...)
	return out
}

// ParseYAML parses raw front matter (without delimiters) into a map.
func ParseYAML(front []byte) (map[string]any, error) {
	fields := map[string]any{}
	if len(bytes.TrimSpace(front)) == 0 {
		return fields, nil
	}
	if err := yaml.Unmarshal(front, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// BodyLine returns the 1-based line in content where the body starts.
func BodyLine(content []byte) int {
	_, body, had, _, err := Split(content)
	if err != nil || !had {
		return 1
	}
	return bytes.Count(content[:len(content)-len(body)], []byte("\n")) + 1
}

func detectStyle(content []byte) Style {
	newline := "\n"
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		newline = "\r\n"
	}
	return Style{
		Newline:            newline,
		HasTrailingNewline: len(content) > 0 && content[len(content)-1] == '\n',
	}
}
